package database

import (
	"gem.dev/launcher/internal/errors"
)

// BackupPrefix is prepended to a table name while it is being migrated
const BackupPrefix = "_"

// Migrate rebuilds table from its schema declaration, keeping every value
// whose column survives. renamed maps a new column name to the old column
// it takes its values from.
func (d *Database) Migrate(table string, renamed map[string]string, progress Progress) error {
	if _, err := d.table(table); err != nil {
		return err
	}
	return d.withSnapshot(func() error {
		return d.migrateTable(table, renamed, progress)
	})
}

// MigrateAll brings every table in line with the schema: missing tables are
// created, differing ones migrated and tables the schema does not know
// dropped.
func (d *Database) MigrateAll(renamed map[string]string, progress Progress) error {
	return d.withSnapshot(func() error {
		stored, err := d.delegate.Tables()
		if err != nil {
			return err
		}
		existing := make(map[string]bool, len(stored))
		for _, name := range stored {
			existing[name] = true
		}
		for _, table := range d.schema.Tables {
			if !existing[table.Name] {
				d.log.Infof("Creating table %s", table.Name)
				if err = d.delegate.CreateTable(table.Name, table.Columns); err != nil {
					return err
				}
				continue
			}
			delete(existing, table.Name)
			columns, err := d.delegate.Columns(table.Name)
			if err != nil {
				return err
			}
			if equalColumns(columns, table.ColumnNames()) {
				continue
			}
			if err = d.migrateTable(table.Name, renamed, progress); err != nil {
				return err
			}
		}
		for name := range existing {
			d.log.Warnf("Dropping table %s which is not described by the schema", name)
			if err = d.delegate.DropTable(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *Database) withSnapshot(migration func() error) error {
	saved, err := d.snapshot()
	if err != nil {
		return err
	}
	if err = migration(); err != nil {
		d.log.Errorf("Migration failed: %v", err)
		if saved {
			if restoreErr := d.restore(); restoreErr != nil {
				err = errors.Join(err, restoreErr)
			} else {
				d.log.Info("Database restored from snapshot")
			}
		}
		return errors.Wrap(errors.KindMigrationFailed, "migrate database", d.path, err)
	}
	if saved {
		if err = removeSnapshot(d.path); err != nil {
			d.log.Warnf("Cannot remove database snapshot: %v", err)
		}
	}
	return nil
}

func (d *Database) migrateTable(name string, renamed map[string]string, progress Progress) (err error) {
	if progress == nil {
		progress = NopProgress{}
	}
	table, _ := d.schema.Table(name)

	var oldColumns []string
	if oldColumns, err = d.delegate.Columns(name); err != nil {
		return
	}
	old := make(map[string]bool, len(oldColumns))
	for _, column := range oldColumns {
		old[column] = true
	}
	var rows []Row
	if rows, err = d.delegate.Select(name, nil, nil); err != nil {
		return
	}

	backup := BackupPrefix + name
	d.log.Infof("Migrating table %s (%d rows)", name, len(rows))
	if err = d.delegate.RenameTable(name, backup); err != nil {
		return
	}
	if err = d.delegate.CreateTable(name, table.Columns); err != nil {
		return
	}

	progress.Init(len(rows))
	defer progress.Close()
	for index, row := range rows {
		migrated := make(Row, len(table.Columns))
		for _, column := range table.Columns {
			migrated[column.Name] = nil
			if old[column.Name] {
				migrated[column.Name] = row[column.Name]
			} else if previous, ok := renamed[column.Name]; ok && old[previous] {
				migrated[column.Name] = row[previous]
			}
		}
		if err = d.delegate.Insert(name, migrated); err != nil {
			return
		}
		progress.Update(index + 1)
	}
	return d.delegate.DropTable(backup)
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for index := range a {
		if a[index] != b[index] {
			return false
		}
	}
	return true
}
