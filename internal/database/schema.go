package database

import (
	_ "embed"
	"os"
	"strings"

	"gem.dev/launcher/internal/configstore"
	"gem.dev/launcher/internal/database/delegate"
	"gem.dev/launcher/internal/errors"
)

// DefaultSchema describes the tables the engine expects
//
//go:embed schema.conf
var DefaultSchema []byte

// Column types recognised in a schema file
const (
	TypeNull    = "NULL"
	TypeBool    = "BOOL"
	TypeInteger = "INTEGER"
	TypeReal    = "REAL"
	TypeText    = "TEXT"
	TypeBlob    = "BLOB"
)

var knownTypes = map[string]bool{
	TypeNull: true, TypeBool: true, TypeInteger: true,
	TypeReal: true, TypeText: true, TypeBlob: true,
}

// Table is one section of the schema file
type Table struct {
	Name    string
	Columns []delegate.Column
}

// ColumnNames returns the column names in declaration order
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		names = append(names, column.Name)
	}
	return names
}

// Column returns the declaration of name
func (t *Table) Column(name string) (delegate.Column, bool) {
	for _, column := range t.Columns {
		if column.Name == name {
			return column, true
		}
	}
	return delegate.Column{}, false
}

// Schema is the single source of truth for integrity checks and migrations
type Schema struct {
	Tables []*Table
}

// Table returns the declaration of the named table
func (s *Schema) Table(name string) (*Table, bool) {
	for _, table := range s.Tables {
		if table.Name == name {
			return table, true
		}
	}
	return nil, false
}

// InstallDefaultSchema writes DefaultSchema to path unless a file already exists
func InstallDefaultSchema(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, DefaultSchema, 0644)
}

// LoadSchema reads a schema file whose sections are tables and whose options
// are "column = TYPE [modifier...]"
func LoadSchema(path string) (*Schema, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.KindSchemaMissing, "load schema", path, err)
	}
	store, err := configstore.Load(path)
	if err != nil {
		return nil, err
	}
	return parseSchema(store, path)
}

// ParseSchema reads a schema from memory
func ParseSchema(data []byte) (*Schema, error) {
	store, err := configstore.Parse(data)
	if err != nil {
		return nil, err
	}
	return parseSchema(store, "")
}

func parseSchema(store *configstore.Store, source string) (*Schema, error) {
	schema := &Schema{}
	for _, name := range store.Sections() {
		table := &Table{Name: name}
		for _, option := range store.Options(name) {
			value, _ := store.Get(name, option)
			fields := strings.Fields(value)
			if len(fields) == 0 {
				return nil, errors.Newf(errors.KindConfigInvalid, "load schema", source, "column %s.%s has no type", name, option)
			}
			columnType := strings.ToUpper(fields[0])
			if !knownTypes[columnType] {
				return nil, errors.Newf(errors.KindConfigInvalid, "load schema", source, "column %s.%s has unknown type %s", name, option, fields[0])
			}
			table.Columns = append(table.Columns, delegate.Column{
				Name:      option,
				Type:      columnType,
				Modifiers: strings.Join(fields[1:], " "),
			})
		}
		schema.Tables = append(schema.Tables, table)
	}
	return schema, nil
}

// coerce converts a value read from the storage engine to the native type of
// the column: BOOL to bool, INTEGER to int64, REAL to float64, TEXT to string
// and BLOB to []byte.
func coerce(value interface{}, columnType string) interface{} {
	if value == nil {
		return nil
	}
	switch columnType {
	case TypeBool:
		switch v := value.(type) {
		case bool:
			return v
		case int64:
			return v != 0
		case int:
			return v != 0
		case float64:
			return v != 0
		case string:
			return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
		case []byte:
			return coerce(string(v), columnType)
		}
	case TypeInteger:
		switch v := value.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case int32:
			return int64(v)
		case float64:
			return int64(v)
		case bool:
			if v {
				return int64(1)
			}
			return int64(0)
		}
	case TypeReal:
		switch v := value.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int64:
			return float64(v)
		case int:
			return float64(v)
		}
	case TypeText:
		switch v := value.(type) {
		case string:
			return v
		case []byte:
			return string(v)
		}
	case TypeBlob:
		switch v := value.(type) {
		case []byte:
			return v
		case string:
			return []byte(v)
		}
	}
	return value
}
