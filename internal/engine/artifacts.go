package engine

import (
	"path/filepath"
	"sort"
	"strings"

	"gem.dev/launcher/internal/entity"
	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/launcher"
	"gem.dev/launcher/internal/utils"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	screenshotsKind = "screenshots"
	savestatesKind  = "savestates"
)

// Artifacts lists the files an emulator produced for a game
type Artifacts struct {
	Screenshots []string
	Savestates  []string
}

// Screenshots lists the screenshots of a game by evaluating the screenshots
// template of its emulator
func (e *Engine) Screenshots(consoleID, gameID string) ([]string, error) {
	console, game, err := e.Game(consoleID, gameID)
	if err != nil {
		return nil, err
	}
	return e.artifactFiles(screenshotsKind, console.EmulatorFor(game), game)
}

// Savestates lists the savestates of a game
func (e *Engine) Savestates(consoleID, gameID string) ([]string, error) {
	console, game, err := e.Game(consoleID, gameID)
	if err != nil {
		return nil, err
	}
	return e.artifactFiles(savestatesKind, console.EmulatorFor(game), game)
}

// Artifacts evaluates both listings of a game concurrently
func (e *Engine) Artifacts(consoleID, gameID string) (artifacts Artifacts, err error) {
	console, game, err := e.Game(consoleID, gameID)
	if err != nil {
		return
	}
	emulator := console.EmulatorFor(game)
	var group errgroup.Group
	group.Go(func() (err error) {
		artifacts.Screenshots, err = e.artifactFiles(screenshotsKind, emulator, game)
		return
	})
	group.Go(func() (err error) {
		artifacts.Savestates, err = e.artifactFiles(savestatesKind, emulator, game)
		return
	})
	err = group.Wait()
	return
}

func artifactTemplate(kind string, emulator *entity.Emulator) string {
	if kind == savestatesKind {
		return emulator.Savestates
	}
	return emulator.Screenshots
}

// artifactKey changes with the emulator and its template so an edited
// emulator never serves a listing of the previous template
func artifactKey(kind string, emulator *entity.Emulator, game *entity.Game) string {
	return strings.Join([]string{kind, emulator.ID(), artifactTemplate(kind, emulator), game.Path}, "\x00")
}

func (e *Engine) artifactFiles(kind string, emulator *entity.Emulator, game *entity.Game) ([]string, error) {
	if emulator == nil {
		return nil, nil
	}
	key := artifactKey(kind, emulator, game)
	if files, ok := e.artifacts.Get(key); ok {
		return files.([]string), nil
	}
	var files []string
	if template := artifactTemplate(kind, emulator); template != "" {
		pattern := utils.ExpandPath(launcher.Substitute(template, emulator, game))
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrap(errors.KindConfigInvalid, "list "+kind, emulator.Name, err)
		}
		sort.Strings(matches)
		files = matches
	}
	e.artifacts.Set(key, files, cache.DefaultExpiration)
	return files, nil
}

func (e *Engine) invalidateArtifacts(emulator *entity.Emulator, game *entity.Game) {
	if emulator == nil {
		return
	}
	e.artifacts.Delete(artifactKey(screenshotsKind, emulator, game))
	e.artifacts.Delete(artifactKey(savestatesKind, emulator, game))
}
