package delegate

import "strings"

// Row is a database row keyed by column name
type Row = map[string]interface{}

// Column describes one column of a table as declared in the schema file
type Column struct {
	Name      string
	Type      string
	Modifiers string
}

// Definition returns the type and modifiers part of the column DDL
func (c Column) Definition() string {
	return strings.TrimSpace(c.Type + " " + c.Modifiers)
}

// DatabaseDelegate is the storage engine behind the metadata database. Every
// operation is expressed with column-keyed rows rather than positional tuples.
type DatabaseDelegate interface {
	Open(path string) error
	Close() error

	Tables() ([]string, error)
	Columns(table string) ([]string, error)
	CreateTable(table string, columns []Column) error
	RenameTable(from, to string) error
	DropTable(table string) error
	AddColumn(table string, column Column) error

	// Select returns every column when columns is empty or holds only "*"
	Select(table string, columns []string, where Row) ([]Row, error)
	Insert(table string, row Row) error
	// Update touches every row when where is empty
	Update(table string, data, where Row) error
	Delete(table string, where Row) error

	// Transaction runs fn against a delegate bound to a single transaction,
	// rolling back when fn returns an error.
	Transaction(fn func(tx DatabaseDelegate) error) error
}
