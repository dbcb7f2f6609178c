package mock

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"gem.dev/launcher/internal/database/delegate"
)

type table struct {
	columns []delegate.Column
	rows    []delegate.Row
}

// MockDelegate keeps tables in memory. The Fail* switches make the matching
// operation return Error.
type MockDelegate struct {
	FailOpen   bool
	FailRename bool
	FailCreate bool
	FailInsert bool
	FailUpdate bool
	Error      error

	Opened    bool
	OpenCount int
	Path      string

	tables map[string]*table
}

func (m *MockDelegate) fail(enabled bool) error {
	if !enabled {
		return nil
	}
	if m.Error == nil {
		return errors.New("mock failure")
	}
	return m.Error
}

func (m *MockDelegate) init() {
	if m.tables == nil {
		m.tables = make(map[string]*table)
	}
}

// Seed creates a table and fills it without going through the Fail* switches
func (m *MockDelegate) Seed(name string, columns []delegate.Column, rows ...delegate.Row) {
	m.init()
	m.tables[name] = &table{columns: append([]delegate.Column(nil), columns...)}
	for _, row := range rows {
		m.tables[name].rows = append(m.tables[name].rows, copyRow(row))
	}
}

func (m *MockDelegate) Open(path string) error {
	if err := m.fail(m.FailOpen); err != nil {
		return err
	}
	m.init()
	m.Opened = true
	m.OpenCount++
	m.Path = path
	return nil
}

func (m *MockDelegate) Close() error {
	if !m.Opened {
		return errors.New("not open")
	}
	m.Opened = false
	return nil
}

func (m *MockDelegate) Tables() (names []string, err error) {
	m.init()
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func (m *MockDelegate) lookup(name string) (*table, error) {
	m.init()
	if t, ok := m.tables[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("no such table: %s", name)
}

func (m *MockDelegate) Columns(name string) (columns []string, err error) {
	var t *table
	if t, err = m.lookup(name); err != nil {
		return
	}
	for _, column := range t.columns {
		columns = append(columns, column.Name)
	}
	return
}

func (m *MockDelegate) CreateTable(name string, columns []delegate.Column) error {
	if err := m.fail(m.FailCreate); err != nil {
		return err
	}
	m.init()
	if _, ok := m.tables[name]; ok {
		return fmt.Errorf("table %s already exists", name)
	}
	m.tables[name] = &table{columns: append([]delegate.Column(nil), columns...)}
	return nil
}

func (m *MockDelegate) RenameTable(from, to string) error {
	if err := m.fail(m.FailRename); err != nil {
		return err
	}
	t, err := m.lookup(from)
	if err != nil {
		return err
	}
	delete(m.tables, from)
	m.tables[to] = t
	return nil
}

func (m *MockDelegate) DropTable(name string) error {
	m.init()
	delete(m.tables, name)
	return nil
}

func (m *MockDelegate) AddColumn(name string, column delegate.Column) error {
	t, err := m.lookup(name)
	if err != nil {
		return err
	}
	t.columns = append(t.columns, column)
	for _, row := range t.rows {
		row[column.Name] = nil
	}
	return nil
}

func matches(row, where delegate.Row) bool {
	for key, value := range where {
		if !reflect.DeepEqual(row[key], value) {
			return false
		}
	}
	return true
}

func copyRow(row delegate.Row) delegate.Row {
	copied := make(delegate.Row, len(row))
	for key, value := range row {
		copied[key] = value
	}
	return copied
}

func (m *MockDelegate) Select(name string, columns []string, where delegate.Row) (rows []delegate.Row, err error) {
	var t *table
	if t, err = m.lookup(name); err != nil {
		return
	}
	all := len(columns) == 0 || (len(columns) == 1 && columns[0] == "*")
	for _, row := range t.rows {
		if !matches(row, where) {
			continue
		}
		if all {
			rows = append(rows, copyRow(row))
			continue
		}
		selected := make(delegate.Row, len(columns))
		for _, column := range columns {
			selected[column] = row[column]
		}
		rows = append(rows, selected)
	}
	return
}

func (m *MockDelegate) Insert(name string, row delegate.Row) error {
	if err := m.fail(m.FailInsert); err != nil {
		return err
	}
	t, err := m.lookup(name)
	if err != nil {
		return err
	}
	inserted := make(delegate.Row, len(t.columns))
	for _, column := range t.columns {
		inserted[column.Name] = nil
	}
	for key, value := range row {
		if _, ok := inserted[key]; !ok {
			return fmt.Errorf("table %s has no column named %s", name, key)
		}
		inserted[key] = value
	}
	t.rows = append(t.rows, inserted)
	return nil
}

func (m *MockDelegate) Update(name string, data, where delegate.Row) error {
	if err := m.fail(m.FailUpdate); err != nil {
		return err
	}
	t, err := m.lookup(name)
	if err != nil {
		return err
	}
	for _, row := range t.rows {
		if matches(row, where) {
			for key, value := range data {
				row[key] = value
			}
		}
	}
	return nil
}

func (m *MockDelegate) Delete(name string, where delegate.Row) error {
	t, err := m.lookup(name)
	if err != nil {
		return err
	}
	kept := t.rows[:0]
	for _, row := range t.rows {
		if !matches(row, where) {
			kept = append(kept, row)
		}
	}
	t.rows = kept
	return nil
}

func (m *MockDelegate) Transaction(fn func(tx delegate.DatabaseDelegate) error) error {
	return fn(m)
}
