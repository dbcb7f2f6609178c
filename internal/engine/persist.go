package engine

import (
	"os"
	"path/filepath"

	"gem.dev/launcher/internal/configstore"
	"gem.dev/launcher/internal/database"
	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/utils"
)

// BackupPrefix is prepended to the name of a configuration file to back it up
const BackupPrefix = "~"

type backup struct {
	path    string
	existed bool
}

func backupPath(path string) string {
	return filepath.Join(filepath.Dir(path), BackupPrefix+filepath.Base(path))
}

// PersistAll writes consoles, emulators and environments back to their files
// and rewrites the emulator of every game whose emulator was renamed, in a
// single database transaction. Each file is backed up first; on failure the
// backups are restored, the transaction rolled back and the pending renames
// kept.
func (e *Engine) PersistAll() (err error) {
	const op = "persist"
	log := e.logger("engine")
	stores := []*configstore.Store{e.consolesStore, e.emulatorsStore, e.environmentStore}
	backups := make([]backup, 0, len(stores))
	for _, store := range stores {
		saved := backup{path: store.Path()}
		if _, statErr := os.Stat(saved.path); statErr == nil {
			saved.existed = true
			if err = utils.CopyFile(saved.path, backupPath(saved.path)); err != nil {
				return errors.Wrap(errors.KindConfigInvalid, op, saved.path, err)
			}
		}
		backups = append(backups, saved)
	}

	e.writeConfiguration()
	renames := e.PendingRenames()
	err = e.database.Transaction(func(tx *database.Database) error {
		if err := tx.RenameEmulators(renames); err != nil {
			return err
		}
		for _, store := range stores {
			if err := store.Save(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Errorf("Cannot persist the configuration: %v", err)
		if restoreErr := restore(backups); restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
		return err
	}

	for old := range e.renames {
		delete(e.renames, old)
	}
	log.Info("Configuration persisted")
	return nil
}

// writeConfiguration replaces the consoles and emulators stores with the
// in-memory entities. Sections skipped at load are left for the user to fix.
func (e *Engine) writeConfiguration() {
	for _, section := range e.emulatorsStore.Sections() {
		if !e.skippedEmulators[section] {
			e.emulatorsStore.RemoveSection(section)
		}
	}
	for _, emulator := range e.Emulators() {
		emulator.WriteConfig(e.emulatorsStore)
	}
	for _, section := range e.consolesStore.Sections() {
		if !e.skippedConsoles[section] {
			e.consolesStore.RemoveSection(section)
		}
	}
	for _, console := range e.Consoles() {
		console.WriteConfig(e.consolesStore)
	}
}

// restore puts the backed up files back. The stores keep their in-memory
// state so that a later PersistAll writes it again.
func restore(backups []backup) error {
	var errs []error
	for _, saved := range backups {
		var err error
		if saved.existed {
			err = utils.CopyFile(backupPath(saved.path), saved.path)
		} else if err = os.Remove(saved.path); os.IsNotExist(err) {
			err = nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
