package engine

import (
	"sort"

	"gem.dev/launcher/internal/entity"
	"gem.dev/launcher/internal/errors"
)

// Emulators returns the emulators sorted by identifier
func (e *Engine) Emulators() []*entity.Emulator {
	emulators := make([]*entity.Emulator, 0, len(e.emulators))
	for _, emulator := range e.emulators {
		emulators = append(emulators, emulator)
	}
	sort.Slice(emulators, func(i, j int) bool { return emulators[i].ID() < emulators[j].ID() })
	return emulators
}

func (e *Engine) Emulator(id string) (*entity.Emulator, error) {
	emulator, ok := e.emulators[id]
	if !ok {
		return nil, errors.New(errors.KindUnknownIdentifier, "get emulator", id)
	}
	return emulator, nil
}

func (e *Engine) AddEmulator(emulator *entity.Emulator) error {
	const op = "add emulator"
	if emulator == nil {
		return errors.New(errors.KindMissingField, op, "emulator")
	}
	if err := emulator.Validate(); err != nil {
		return err
	}
	if _, ok := e.emulators[emulator.ID()]; ok {
		return errors.New(errors.KindDuplicateIdentifier, op, emulator.ID())
	}
	e.emulators[emulator.ID()] = emulator
	delete(e.skippedEmulators, emulator.Name)
	e.logger("engine").Infof("Added emulator %s", emulator.Name)
	return nil
}

// UpdateEmulator replaces the emulator with identifier id. Consoles and loaded
// games using it are updated at once; a changed identifier is recorded and
// rewritten in the database by PersistAll.
func (e *Engine) UpdateEmulator(id string, emulator *entity.Emulator) error {
	const op = "update emulator"
	previous, ok := e.emulators[id]
	if !ok {
		return errors.New(errors.KindUnknownIdentifier, op, id)
	}
	if emulator == nil {
		return errors.New(errors.KindMissingField, op, "emulator")
	}
	if err := emulator.Validate(); err != nil {
		return err
	}
	newID := emulator.ID()
	if _, ok = e.emulators[newID]; ok && newID != id {
		return errors.New(errors.KindDuplicateIdentifier, op, newID)
	}

	delete(e.emulators, id)
	e.emulators[newID] = emulator
	delete(e.skippedEmulators, emulator.Name)
	e.replaceEmulator(previous, emulator)
	for old, renamed := range e.renames {
		if renamed == previous {
			e.renames[old] = emulator
		}
	}
	if newID != id {
		e.renames[id] = emulator
		e.logger("engine").Infof("Renamed emulator %s to %s", id, newID)
	}
	return nil
}

// DeleteEmulator removes an emulator. Consoles and loaded games using it are
// left without emulator.
func (e *Engine) DeleteEmulator(id string) error {
	emulator, ok := e.emulators[id]
	if !ok {
		return errors.New(errors.KindUnknownIdentifier, "delete emulator", id)
	}
	delete(e.emulators, id)
	e.replaceEmulator(emulator, nil)
	for old, renamed := range e.renames {
		if renamed == emulator {
			delete(e.renames, old)
		}
	}
	e.logger("engine").Infof("Deleted emulator %s", id)
	return nil
}

// PendingRenames returns the emulator renames not yet persisted, as old
// identifier to new identifier
func (e *Engine) PendingRenames() map[string]string {
	renames := make(map[string]string, len(e.renames))
	for old, emulator := range e.renames {
		if old != emulator.ID() {
			renames[old] = emulator.ID()
		}
	}
	return renames
}

func (e *Engine) replaceEmulator(previous, emulator *entity.Emulator) {
	for _, console := range e.consoles {
		if console.Emulator == previous {
			console.Emulator = emulator
		}
		for _, game := range console.Games {
			if game.Emulator == previous {
				game.Emulator = emulator
			}
		}
	}
	for _, session := range e.sessions {
		if session.game.Emulator == previous {
			session.game.Emulator = emulator
		}
	}
}
