package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gem.dev/launcher/internal/database/delegate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var errNotOpen = errors.New("database is not open")

type SQLiteDelegate struct {
	// Debug turns on gorm statement logging
	Debug    bool
	database *gorm.DB
}

func (d *SQLiteDelegate) Open(path string) (err error) {
	if err = os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	logLevel := logger.Silent
	if d.Debug {
		logLevel = logger.Info
	}
	if d.database, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}); err != nil {
		return
	}
	var database *sql.DB
	if database, err = d.database.DB(); err != nil {
		return
	}
	// A single connection keeps the file-level snapshot consistent
	database.SetMaxOpenConns(1)
	return database.Ping()
}

func (d *SQLiteDelegate) Close() (err error) {
	if d.database == nil {
		return errNotOpen
	}
	var database *sql.DB
	if database, err = d.database.DB(); err != nil {
		return
	}
	if err = database.Close(); err != nil {
		return
	}
	d.database = nil
	return
}

func (d *SQLiteDelegate) Tables() (tables []string, err error) {
	if d.database == nil {
		return nil, errNotOpen
	}
	var names []string
	if names, err = d.database.Migrator().GetTables(); err != nil {
		return
	}
	for _, name := range names {
		if !strings.HasPrefix(name, "sqlite_") {
			tables = append(tables, name)
		}
	}
	sort.Strings(tables)
	return
}

type tableColumn struct {
	Cid  int
	Name string
}

func (d *SQLiteDelegate) Columns(table string) (columns []string, err error) {
	if d.database == nil {
		return nil, errNotOpen
	}
	var infos []tableColumn
	if result := d.database.Raw("PRAGMA table_info(" + d.quote(clause.Table{Name: table}) + ")").Scan(&infos); result.Error != nil {
		return nil, result.Error
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Cid < infos[j].Cid })
	for _, info := range infos {
		columns = append(columns, info.Name)
	}
	return
}

func (d *SQLiteDelegate) CreateTable(table string, columns []delegate.Column) error {
	if d.database == nil {
		return errNotOpen
	}
	definitions := make([]string, 0, len(columns))
	for _, column := range columns {
		definitions = append(definitions, d.quote(clause.Column{Name: column.Name})+" "+column.Definition())
	}
	return d.database.Exec("CREATE TABLE " + d.quote(clause.Table{Name: table}) +
		" (" + strings.Join(definitions, ", ") + ")").Error
}

func (d *SQLiteDelegate) RenameTable(from, to string) error {
	if d.database == nil {
		return errNotOpen
	}
	return d.database.Exec("ALTER TABLE ? RENAME TO ?", clause.Table{Name: from}, clause.Table{Name: to}).Error
}

func (d *SQLiteDelegate) DropTable(table string) error {
	if d.database == nil {
		return errNotOpen
	}
	return d.database.Exec("DROP TABLE IF EXISTS ?", clause.Table{Name: table}).Error
}

func (d *SQLiteDelegate) AddColumn(table string, column delegate.Column) error {
	if d.database == nil {
		return errNotOpen
	}
	return d.database.Exec("ALTER TABLE ? ADD COLUMN ? "+column.Definition(),
		clause.Table{Name: table}, clause.Column{Name: column.Name}).Error
}

func (d *SQLiteDelegate) Select(table string, columns []string, where delegate.Row) (rows []delegate.Row, err error) {
	if d.database == nil {
		return nil, errNotOpen
	}
	query := d.database.Table(table)
	if len(columns) > 0 && !(len(columns) == 1 && columns[0] == "*") {
		query = query.Select(columns)
	}
	if len(where) > 0 {
		query = query.Where(map[string]interface{}(where))
	}
	var results []map[string]interface{}
	if result := query.Order("rowid").Find(&results); result.Error != nil {
		return nil, result.Error
	}
	for _, result := range results {
		rows = append(rows, delegate.Row(result))
	}
	return
}

func (d *SQLiteDelegate) Insert(table string, row delegate.Row) error {
	if d.database == nil {
		return errNotOpen
	}
	if result := d.database.Table(table).Create(map[string]interface{}(row)); result.Error != nil {
		return result.Error
	}
	return nil
}

func (d *SQLiteDelegate) Update(table string, data, where delegate.Row) error {
	if d.database == nil {
		return errNotOpen
	}
	query := d.database.Table(table)
	if len(where) > 0 {
		query = query.Where(map[string]interface{}(where))
	} else {
		query = query.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	if result := query.Updates(map[string]interface{}(data)); result.Error != nil {
		return result.Error
	}
	return nil
}

func (d *SQLiteDelegate) Delete(table string, where delegate.Row) error {
	if d.database == nil {
		return errNotOpen
	}
	statement := "DELETE FROM " + d.quote(clause.Table{Name: table})
	keys := make([]string, 0, len(where))
	for key := range where {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	conditions := make([]string, 0, len(keys))
	values := make([]interface{}, 0, len(keys))
	for _, key := range keys {
		if where[key] == nil {
			conditions = append(conditions, d.quote(clause.Column{Name: key})+" IS NULL")
			continue
		}
		conditions = append(conditions, d.quote(clause.Column{Name: key})+" = ?")
		values = append(values, where[key])
	}
	if len(conditions) > 0 {
		statement += " WHERE " + strings.Join(conditions, " AND ")
	}
	return d.database.Exec(statement, values...).Error
}

func (d *SQLiteDelegate) Transaction(fn func(tx delegate.DatabaseDelegate) error) error {
	if d.database == nil {
		return errNotOpen
	}
	return d.database.Transaction(func(tx *gorm.DB) error {
		return fn(&SQLiteDelegate{Debug: d.Debug, database: tx})
	})
}

func (d *SQLiteDelegate) quote(value interface{}) string {
	return d.database.Statement.Quote(value)
}
