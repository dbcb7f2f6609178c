package engine

import (
	"os"

	"gem.dev/launcher/internal/entity"
	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/launcher"
)

// DeleteOptions selects the files removed along with a game
type DeleteOptions struct {
	File        bool
	Savestates  bool
	Screenshots bool
}

// Game returns a loaded game of a console
func (e *Engine) Game(consoleID, gameID string) (*entity.Console, *entity.Game, error) {
	console, err := e.Console(consoleID)
	if err != nil {
		return nil, nil, err
	}
	game, ok := console.Game(gameID)
	if !ok {
		return console, nil, errors.New(errors.KindUnknownIdentifier, "get game "+consoleID, gameID)
	}
	return console, game, nil
}

// UpdateGame stores the metadata of a loaded game. The environment section is
// updated in memory and written by PersistAll.
func (e *Engine) UpdateGame(consoleID string, game *entity.Game) error {
	const op = "update game"
	if game == nil {
		return errors.New(errors.KindMissingField, op, "game")
	}
	console, _, err := e.Game(consoleID, game.ID)
	if err != nil {
		return err
	}
	if game.Emulator != nil {
		if known, ok := e.emulators[game.Emulator.ID()]; !ok || known != game.Emulator {
			return errors.New(errors.KindUnknownIdentifier, op+" "+game.ID, game.Emulator.ID())
		}
	}
	if err = e.database.SaveGame(game.Filename, game.Row()); err != nil {
		return err
	}
	game.WriteEnvironment(e.environmentStore)
	console.Games[game.ID] = game
	e.GameUpdated.Emit(GameUpdated{Console: console, Game: game})
	return nil
}

// DeleteGame forgets a game: its row, its environment and optionally its
// files
func (e *Engine) DeleteGame(consoleID, gameID string, options DeleteOptions) error {
	const op = "delete game"
	console, game, err := e.Game(consoleID, gameID)
	if err != nil {
		return err
	}
	if _, running := e.supervisor.Session(console.ID(), gameID); running {
		return errors.Newf(errors.KindDuplicateIdentifier, op, gameID, "game is running")
	}
	var paths []string
	if options.Savestates {
		if paths, err = e.Savestates(consoleID, gameID); err != nil {
			return err
		}
	}
	if options.Screenshots {
		var screenshots []string
		if screenshots, err = e.Screenshots(consoleID, gameID); err != nil {
			return err
		}
		paths = append(paths, screenshots...)
	}
	if options.File {
		paths = append(paths, game.Path)
	}

	if err = e.database.RemoveGame(game.Filename); err != nil {
		return err
	}
	e.environmentStore.RemoveSection(game.ID)
	delete(console.Games, game.ID)
	e.invalidateArtifacts(console.EmulatorFor(game), game)

	log := e.logger("engine")
	for _, path := range paths {
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			log.Warnf("Cannot remove %s: %v", path, removeErr)
		}
	}
	log.Infof("Deleted game %s of %s", game.Filename, console.Name)
	return nil
}

// BuildCommand returns the argv launching a game
func (e *Engine) BuildCommand(consoleID, gameID string, fullscreen bool) ([]string, error) {
	console, game, err := e.Game(consoleID, gameID)
	if err != nil {
		return nil, err
	}
	return launcher.BuildCommand(console.EmulatorFor(game), game, fullscreen)
}

// LogPath returns the log file of the last session of a game
func (e *Engine) LogPath(game *entity.Game) string {
	return e.layout.LogPath(game.Filename)
}

// NotePath returns the notes file of a game
func (e *Engine) NotePath(game *entity.Game) string {
	return e.layout.NotePath(game.Filename)
}
