package engine

import (
	"context"
	"os"
	"sort"

	"gem.dev/launcher/internal/entity"
	"gem.dev/launcher/internal/errors"
)

// Consoles returns the consoles sorted by identifier
func (e *Engine) Consoles() []*entity.Console {
	consoles := make([]*entity.Console, 0, len(e.consoles))
	for _, console := range e.consoles {
		consoles = append(consoles, console)
	}
	sort.Slice(consoles, func(i, j int) bool { return consoles[i].ID() < consoles[j].ID() })
	return consoles
}

func (e *Engine) Console(id string) (*entity.Console, error) {
	console, ok := e.consoles[id]
	if !ok {
		return nil, errors.New(errors.KindUnknownIdentifier, "get console", id)
	}
	return console, nil
}

// validateConsole checks the fields of console and resolves its emulator
// against the known ones
func (e *Engine) validateConsole(op string, console *entity.Console) error {
	if console == nil {
		return errors.New(errors.KindMissingField, op, "console")
	}
	if err := console.Validate(); err != nil {
		return err
	}
	if console.Emulator != nil {
		if known, ok := e.emulators[console.Emulator.ID()]; !ok || known != console.Emulator {
			return errors.New(errors.KindUnknownIdentifier, op+" "+console.Name, console.Emulator.ID())
		}
	}
	return nil
}

// AddConsole registers a new console, creating its ROM directory if needed
func (e *Engine) AddConsole(console *entity.Console) error {
	const op = "add console"
	if err := e.validateConsole(op, console); err != nil {
		return err
	}
	if _, ok := e.consoles[console.ID()]; ok {
		return errors.New(errors.KindDuplicateIdentifier, op, console.ID())
	}
	if err := os.MkdirAll(console.Path, 0755); err != nil {
		return errors.Wrap(errors.KindConfigInvalid, op, console.Path, err)
	}
	if console.Games == nil {
		console.Games = make(map[string]*entity.Game)
	}
	e.consoles[console.ID()] = console
	delete(e.skippedConsoles, console.Name)
	e.logger("engine").Infof("Added console %s", console.Name)
	return nil
}

// UpdateConsole replaces the console with identifier id. The loaded games are
// kept when the ROM directory is unchanged.
func (e *Engine) UpdateConsole(id string, console *entity.Console) error {
	const op = "update console"
	previous, ok := e.consoles[id]
	if !ok {
		return errors.New(errors.KindUnknownIdentifier, op, id)
	}
	if err := e.validateConsole(op, console); err != nil {
		return err
	}
	if _, ok = e.consoles[console.ID()]; ok && console.ID() != id {
		return errors.New(errors.KindDuplicateIdentifier, op, console.ID())
	}
	if err := os.MkdirAll(console.Path, 0755); err != nil {
		return errors.Wrap(errors.KindConfigInvalid, op, console.Path, err)
	}
	if console.Games == nil {
		console.Games = make(map[string]*entity.Game)
		if previous.Path == console.Path {
			console.Games = previous.Games
		}
	}
	delete(e.consoles, id)
	e.consoles[console.ID()] = console
	delete(e.skippedConsoles, console.Name)
	return nil
}

func (e *Engine) DeleteConsole(id string) error {
	if _, ok := e.consoles[id]; !ok {
		return errors.New(errors.KindUnknownIdentifier, "delete console", id)
	}
	delete(e.consoles, id)
	e.logger("engine").Infof("Deleted console %s", id)
	return nil
}

// LoadConsole enumerates the games of a console. A newer load of any console
// makes the current one return library.ErrSuperseded.
func (e *Engine) LoadConsole(ctx context.Context, id string) error {
	console, err := e.Console(id)
	if err != nil {
		return err
	}
	return e.loader.Load(ctx, console, e.resolvableEmulators())
}

// resolvableEmulators maps identifiers to emulators, including the old
// identifiers of renames the database does not know yet
func (e *Engine) resolvableEmulators() map[string]*entity.Emulator {
	emulators := make(map[string]*entity.Emulator, len(e.emulators)+len(e.renames))
	for old, emulator := range e.renames {
		emulators[old] = emulator
	}
	for id, emulator := range e.emulators {
		emulators[id] = emulator
	}
	return emulators
}
