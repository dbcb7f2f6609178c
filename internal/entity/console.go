package entity

import (
	"sort"
	"strings"

	"gem.dev/launcher/internal/configstore"
	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/utils"
)

// Options of a consoles.conf section
const (
	ConsoleRoms      = "roms"
	ConsoleExts      = "exts"
	ConsoleIgnores   = "ignores"
	ConsoleIcon      = "icon"
	ConsoleEmulator  = "emulator"
	ConsoleRecursive = "recursive"
	ConsoleFavorite  = "favorite"
)

// Console is a named collection of ROM files sharing extensions and a default
// emulator
type Console struct {
	Name string
	// ROM root directory
	Path       string
	Extensions []string
	// Regular expressions matched against the game names
	Ignores   []string
	Icon      string
	Recursive bool
	Favorite  bool
	Emulator  *Emulator

	// Populated by the library loader
	Games map[string]*Game
}

// ID returns the identifier of the console
func (console *Console) ID() string {
	return utils.Identifier(console.Name)
}

// Validate checks the required fields
func (console *Console) Validate() error {
	if console.ID() == "" {
		return errors.New(errors.KindMissingField, "validate console", "name")
	}
	if console.Path == "" {
		return errors.New(errors.KindMissingField, "validate console "+console.Name, ConsoleRoms)
	}
	return nil
}

// ConsoleFromConfig reads the section named after the console. The emulator
// reference is resolved against emulators, keyed by identifier; an unknown
// emulator leaves the console without one.
func ConsoleFromConfig(store *configstore.Store, section string, emulators map[string]*Emulator) (instance *Console, err error) {
	instance = &Console{
		Name:       section,
		Path:       utils.ExpandPath(option(store, section, ConsoleRoms)),
		Extensions: store.GetList(section, ConsoleExts),
		Ignores:    store.GetList(section, ConsoleIgnores),
		Icon:       option(store, section, ConsoleIcon),
		Recursive:  store.GetBool(section, ConsoleRecursive, false),
		Favorite:   store.GetBool(section, ConsoleFavorite, false),
		Games:      make(map[string]*Game),
	}
	if name := option(store, section, ConsoleEmulator); name != "" {
		instance.Emulator = emulators[utils.Identifier(name)]
	}
	if err = instance.Validate(); err != nil {
		instance = nil
	}
	return
}

// WriteConfig replaces the console section of store
func (console *Console) WriteConfig(store *configstore.Store) {
	store.RemoveSection(console.Name)
	store.Set(console.Name, ConsoleRoms, console.Path)
	if len(console.Extensions) > 0 {
		store.SetList(console.Name, ConsoleExts, console.Extensions)
	}
	if len(console.Ignores) > 0 {
		store.SetList(console.Name, ConsoleIgnores, console.Ignores)
	}
	setOption(store, console.Name, ConsoleIcon, console.Icon)
	if console.Emulator != nil {
		store.Set(console.Name, ConsoleEmulator, console.Emulator.Name)
	}
	store.SetBool(console.Name, ConsoleRecursive, console.Recursive)
	store.SetBool(console.Name, ConsoleFavorite, console.Favorite)
}

// Game returns the loaded game with the given identifier
func (console *Console) Game(id string) (*Game, bool) {
	game, ok := console.Games[id]
	return game, ok
}

// GameList returns the loaded games sorted by name
func (console *Console) GameList() []*Game {
	games := make([]*Game, 0, len(console.Games))
	for _, game := range console.Games {
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool {
		left, right := strings.ToLower(games[i].Name), strings.ToLower(games[j].Name)
		if left == right {
			return games[i].ID < games[j].ID
		}
		return left < right
	})
	return games
}

// EmulatorFor returns the emulator running game: its own override, or the
// console default
func (console *Console) EmulatorFor(game *Game) *Emulator {
	if game.Emulator != nil {
		return game.Emulator
	}
	return console.Emulator
}

func trim(value string) string {
	return strings.TrimSpace(value)
}
