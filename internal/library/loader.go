// Package library enumerates the ROM files of a console and hydrates them
// into games from the metadata database.
package library

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"sync/atomic"

	"gem.dev/launcher/internal/configstore"
	"gem.dev/launcher/internal/database"
	"gem.dev/launcher/internal/entity"
	"gem.dev/launcher/internal/utils"
	"github.com/sirupsen/logrus"
)

// DefaultChunkSize is the number of files handled between two yields
const DefaultChunkSize = 20

// ErrSuperseded is returned by Load when a newer enumeration was requested
var ErrSuperseded = stderrors.New("enumeration superseded")

// GameStore gives access to the stored metadata of a game
type GameStore interface {
	GetGame(filename string) (database.Row, error)
}

type Loader struct {
	store       GameStore
	environment *configstore.Store
	chunkSize   int
	log         logrus.FieldLogger

	generation atomic.Uint64
}

func NewLoader(store GameStore, environment *configstore.Store, chunkSize int, log logrus.FieldLogger) *Loader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		store:       store,
		environment: environment,
		chunkSize:   chunkSize,
		log:         log,
	}
}

// Invalidate makes every running enumeration stop at its next yield. It
// returns the new generation.
func (l *Loader) Invalidate() uint64 {
	return l.generation.Add(1)
}

type scan struct {
	loader     *Loader
	ctx        context.Context
	generation uint64
	console    *entity.Console
	emulators  map[string]*entity.Emulator
	patterns   []string
	ignores    []*regexp.Regexp
	games      map[string]*entity.Game
	seen       map[string]bool
	count      int
}

// Load enumerates the ROM files of console and replaces its games. Starting a
// load invalidates the previous ones. When ctx is done or the load is
// superseded the console is left untouched and the error is returned.
func (l *Loader) Load(ctx context.Context, console *entity.Console, emulators map[string]*entity.Emulator) error {
	s := &scan{
		loader:     l,
		ctx:        ctx,
		generation: l.Invalidate(),
		console:    console,
		emulators:  emulators,
		games:      make(map[string]*entity.Game),
		seen:       make(map[string]bool),
	}
	for _, extension := range console.Extensions {
		extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
		if extension != "" {
			s.patterns = append(s.patterns, "*."+utils.ExtensionGlob(extension))
		}
	}
	s.ignores = compileIgnores(console.Ignores, l.log)

	log := l.log.WithField("console", console.Name)
	log.Debugf("Scanning %s", console.Path)
	var err error
	if console.Recursive {
		err = s.walk()
	} else {
		err = s.list()
	}
	if err != nil {
		return err
	}
	if err = s.yield(); err != nil {
		return err
	}
	console.Games = s.games
	log.Debugf("Loaded %d games", len(s.games))
	return nil
}

func compileIgnores(patterns []string, log logrus.FieldLogger) (ignores []*regexp.Regexp) {
	for _, pattern := range patterns {
		expression, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			log.Debugf("Skipping malformed ignore pattern %q: %v", pattern, err)
			continue
		}
		ignores = append(ignores, expression)
	}
	return
}

func (s *scan) list() error {
	entries, err := os.ReadDir(s.console.Path)
	if err != nil {
		s.loader.log.Warnf("Cannot read ROM directory %s: %v", s.console.Path, err)
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err = s.visit(filepath.Join(s.console.Path, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (s *scan) walk() error {
	return filepath.WalkDir(s.console.Path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.loader.log.Debugf("Skipping %s: %v", path, err)
			if entry != nil && entry.IsDir() && path != s.console.Path {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if path != s.console.Path && hidden(entry.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		return s.visit(path)
	})
}

// visit handles one regular file. Only cancellation or supersession errors
// are returned.
func (s *scan) visit(path string) error {
	name := filepath.Base(path)
	if hidden(name) || s.seen[path] || !s.accepted(name) {
		return nil
	}
	s.seen[path] = true

	s.count++
	if s.count%s.loader.chunkSize == 0 {
		if err := s.yield(); err != nil {
			return err
		}
	}

	game := entity.NewGame(path)
	row, err := s.loader.store.GetGame(game.Filename)
	if err != nil {
		s.loader.log.Warnf("Cannot read metadata of %s: %v", game.Filename, err)
	} else if row != nil {
		game.Refresh(row, s.emulators)
	}
	for _, ignore := range s.ignores {
		if ignore.MatchString(game.Name) {
			s.loader.log.Debugf("Ignoring %s", path)
			return nil
		}
	}
	if s.loader.environment != nil {
		game.ReadEnvironment(s.loader.environment)
	}
	if previous, ok := s.games[game.ID]; ok {
		s.loader.log.Debugf("%s and %s share the identifier %s", previous.Path, path, game.ID)
	}
	s.games[game.ID] = game
	return nil
}

func (s *scan) accepted(name string) bool {
	for _, pattern := range s.patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func (s *scan) yield() error {
	runtime.Gosched()
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if s.loader.generation.Load() != s.generation {
		return ErrSuperseded
	}
	return nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
