// Package database implements the schema-driven metadata store. Tables and
// their columns are described by an INI schema file; the storage itself is
// handled by a delegate.
package database

import (
	"os"
	"reflect"
	"sort"

	"gem.dev/launcher/internal/database/delegate"
	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/utils"
	"github.com/sirupsen/logrus"
)

// Row is a database row keyed by column name
type Row = delegate.Row

const snapshotSuffix = ".backup"

type Database struct {
	path     string
	schema   *Schema
	delegate delegate.DatabaseDelegate
	log      logrus.FieldLogger
}

// Open loads the schema file and opens the database file through the delegate
func Open(path, schemaPath string, d delegate.DatabaseDelegate, log logrus.FieldLogger) (instance *Database, err error) {
	var schema *Schema
	if schema, err = LoadSchema(schemaPath); err != nil {
		return
	}
	return OpenWithSchema(path, schema, d, log)
}

// OpenWithSchema opens the database file with an already parsed schema
func OpenWithSchema(path string, schema *Schema, d delegate.DatabaseDelegate, log logrus.FieldLogger) (*Database, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log.Debugf("Connecting to database %s", path)
	if err := d.Open(path); err != nil {
		return nil, errors.Wrap(errors.KindDatabaseUnavailable, "open database", path, err)
	}
	return &Database{
		path:     path,
		schema:   schema,
		delegate: d,
		log:      log,
	}, nil
}

// Close releases the database file
func (d *Database) Close() error {
	return d.delegate.Close()
}

// Path returns the database file
func (d *Database) Path() string {
	return d.path
}

// Schema returns the schema the database is checked against
func (d *Database) Schema() *Schema {
	return d.schema
}

func (d *Database) table(name string) (*Table, error) {
	table, ok := d.schema.Table(name)
	if !ok {
		return nil, errors.New(errors.KindUnknownIdentifier, "lookup table", name)
	}
	return table, nil
}

func (d *Database) coerceRow(table *Table, row Row) Row {
	for key, value := range row {
		if column, ok := table.Column(key); ok {
			row[key] = coerce(value, column.Type)
		}
	}
	return row
}

// Select returns the rows of table matching where, restricted to columns.
// An empty columns slice or "*" selects everything. No match gives nil.
func (d *Database) Select(table string, columns []string, where Row) ([]Row, error) {
	declaration, err := d.table(table)
	if err != nil {
		return nil, err
	}
	rows, err := d.delegate.Select(table, columns, where)
	if err != nil {
		return nil, errors.Wrap(errors.KindDatabaseUnavailable, "select", table, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	for _, row := range rows {
		d.coerceRow(declaration, row)
	}
	return rows, nil
}

// SelectColumn returns the values of a single column. No match gives nil.
func (d *Database) SelectColumn(table, column string, where Row) ([]interface{}, error) {
	rows, err := d.Select(table, []string{column}, where)
	if err != nil || rows == nil {
		return nil, err
	}
	values := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, row[column])
	}
	return values, nil
}

// Get returns the first row matching where, or nil
func (d *Database) Get(table string, where Row) (Row, error) {
	rows, err := d.Select(table, nil, where)
	if err != nil || rows == nil {
		return nil, err
	}
	return rows[0], nil
}

// Modify updates the rows matching where with data, or inserts the union of
// data and where when nothing matches.
func (d *Database) Modify(table string, data, where Row) error {
	rows, err := d.Select(table, nil, where)
	if err != nil {
		return err
	}
	if rows == nil {
		inserted := make(Row, len(data)+len(where))
		for key, value := range where {
			inserted[key] = value
		}
		for key, value := range data {
			inserted[key] = value
		}
		return errors.Wrap(errors.KindDatabaseUnavailable, "insert", table, d.delegate.Insert(table, inserted))
	}
	return errors.Wrap(errors.KindDatabaseUnavailable, "update", table, d.delegate.Update(table, data, where))
}

// Remove deletes the rows matching where
func (d *Database) Remove(table string, where Row) error {
	if _, err := d.table(table); err != nil {
		return err
	}
	return errors.Wrap(errors.KindDatabaseUnavailable, "delete", table, d.delegate.Delete(table, where))
}

// Columns returns the columns of table as stored, in order
func (d *Database) Columns(table string) ([]string, error) {
	columns, err := d.delegate.Columns(table)
	return columns, errors.Wrap(errors.KindDatabaseUnavailable, "list columns", table, err)
}

// CreateTable creates table from its schema declaration
func (d *Database) CreateTable(table string) error {
	declaration, err := d.table(table)
	if err != nil {
		return err
	}
	return errors.Wrap(errors.KindDatabaseUnavailable, "create table", table,
		d.delegate.CreateTable(table, declaration.Columns))
}

func (d *Database) RenameTable(from, to string) error {
	return errors.Wrap(errors.KindDatabaseUnavailable, "rename table", from, d.delegate.RenameTable(from, to))
}

func (d *Database) RemoveTable(table string) error {
	return errors.Wrap(errors.KindDatabaseUnavailable, "remove table", table, d.delegate.DropTable(table))
}

// AddColumn appends the schema declaration of column to the stored table
func (d *Database) AddColumn(table, column string) error {
	declaration, err := d.table(table)
	if err != nil {
		return err
	}
	definition, ok := declaration.Column(column)
	if !ok {
		return errors.New(errors.KindUnknownIdentifier, "add column", table+"."+column)
	}
	return errors.Wrap(errors.KindDatabaseUnavailable, "add column", table+"."+column,
		d.delegate.AddColumn(table, definition))
}

// Check reports whether the stored tables and their columns match the
// schema exactly, column order included. A false result means the database
// needs a migration.
func (d *Database) Check() (bool, error) {
	tables, err := d.delegate.Tables()
	if err != nil {
		return false, errors.Wrap(errors.KindDatabaseUnavailable, "list tables", d.path, err)
	}
	expected := make([]string, 0, len(d.schema.Tables))
	for _, table := range d.schema.Tables {
		expected = append(expected, table.Name)
	}
	sort.Strings(expected)
	sort.Strings(tables)
	if !reflect.DeepEqual(expected, tables) {
		d.log.Debugf("Database tables %v differ from schema %v", tables, expected)
		return false, nil
	}
	for _, table := range d.schema.Tables {
		columns, err := d.Columns(table.Name)
		if err != nil {
			return false, err
		}
		if !reflect.DeepEqual(columns, table.ColumnNames()) {
			d.log.Debugf("Table %s columns %v differ from schema %v", table.Name, columns, table.ColumnNames())
			return false, nil
		}
	}
	return true, nil
}

// Transaction runs fn against a database bound to a single transaction
func (d *Database) Transaction(fn func(tx *Database) error) error {
	return d.delegate.Transaction(func(tx delegate.DatabaseDelegate) error {
		return fn(&Database{path: d.path, schema: d.schema, delegate: tx, log: d.log})
	})
}

// ReplaceValues rewrites column in every row of table whose value is a key
// of mapping to the associated value
func (d *Database) ReplaceValues(table, column string, mapping map[string]string) error {
	if _, err := d.table(table); err != nil {
		return err
	}
	for from, to := range mapping {
		if from == to {
			continue
		}
		if err := d.delegate.Update(table, Row{column: to}, Row{column: from}); err != nil {
			return errors.Wrap(errors.KindDatabaseUnavailable, "replace values", table+"."+column, err)
		}
	}
	return nil
}

// snapshot copies the database file aside. It reports false when there is no
// file to copy.
func (d *Database) snapshot() (bool, error) {
	if _, err := os.Stat(d.path); os.IsNotExist(err) {
		return false, nil
	}
	if err := utils.CopyFile(d.path, d.path+snapshotSuffix); err != nil {
		return false, errors.Wrap(errors.KindDatabaseUnavailable, "snapshot database", d.path, err)
	}
	return true, nil
}

func (d *Database) restore() error {
	if err := d.delegate.Close(); err != nil {
		d.log.Warnf("Cannot close database before restore: %v", err)
	}
	if err := utils.CopyFile(d.path+snapshotSuffix, d.path); err != nil {
		return err
	}
	if err := d.delegate.Open(d.path); err != nil {
		return err
	}
	return removeSnapshot(d.path)
}

func removeSnapshot(path string) error {
	return os.Remove(path + snapshotSuffix)
}
