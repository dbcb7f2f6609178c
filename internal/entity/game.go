package entity

import (
	"path/filepath"
	"strings"
	"time"

	"gem.dev/launcher/internal/configstore"
	"gem.dev/launcher/internal/database"
	"gem.dev/launcher/internal/utils"
)

// Game is one ROM file and its metadata
type Game struct {
	ID string
	// Derived from the file
	Path      string
	Filename  string
	Extension string

	Name        string
	Favorite    bool
	Multiplayer bool
	Finished    bool
	Score       int64
	Played      int64
	PlayTime    time.Duration
	// Duration of the last session
	LastLaunchTime time.Duration
	LastLaunchDate time.Time
	// Per-game overrides
	Emulator  *Emulator
	Arguments string
	Key       string
	Tags      []string
	Cover     string

	Environment map[string]string
}

// NewGame returns a game with only the fields derived from the file at path
func NewGame(path string) *Game {
	filename := filepath.Base(path)
	extension := filepath.Ext(filename)
	return &Game{
		ID:          utils.Identifier(filename),
		Path:        path,
		Filename:    filename,
		Extension:   strings.TrimPrefix(extension, "."),
		Name:        strings.TrimSuffix(filename, extension),
		Environment: make(map[string]string),
	}
}

// Stem returns the file basename without its extension
func (game *Game) Stem() string {
	return strings.TrimSuffix(game.Filename, filepath.Ext(game.Filename))
}

// Refresh applies a games row to the game. The emulator override is resolved
// against emulators, keyed by identifier, and dropped when unknown. Values
// that cannot be read keep their zero value.
func (game *Game) Refresh(row database.Row, emulators map[string]*Emulator) {
	if name := text(row[database.ColumnName]); name != "" {
		game.Name = name
	}
	game.Favorite = flag(row[database.ColumnFavorite])
	game.Multiplayer = flag(row[database.ColumnMultiplayer])
	game.Finished = flag(row[database.ColumnFinish])
	game.Score = number(row[database.ColumnScore])
	game.Played = number(row[database.ColumnPlayed])
	game.PlayTime, _ = utils.ParseDuration(text(row[database.ColumnPlayTime]))
	game.LastLaunchTime, _ = utils.ParseDuration(text(row[database.ColumnLastLaunchTime]))
	game.LastLaunchDate, _ = utils.ParseDate(text(row[database.ColumnLastLaunchDate]))
	game.Emulator = nil
	if id := text(row[database.ColumnEmulator]); id != "" {
		game.Emulator = emulators[utils.Identifier(id)]
	}
	game.Arguments = text(row[database.ColumnArguments])
	game.Key = text(row[database.ColumnKey])
	game.Cover = text(row[database.ColumnCover])
	game.Tags = nil
	for _, tag := range strings.Split(text(row[database.ColumnTags]), configstore.ListSeparator) {
		if tag = strings.TrimSpace(tag); tag != "" {
			game.Tags = append(game.Tags, tag)
		}
	}
}

// Row returns the persisted form of the game. Absent values are nil.
func (game *Game) Row() database.Row {
	row := database.Row{
		database.ColumnFilename:       game.Filename,
		database.ColumnName:           nullable(game.Name),
		database.ColumnFavorite:       game.Favorite,
		database.ColumnMultiplayer:    game.Multiplayer,
		database.ColumnFinish:         game.Finished,
		database.ColumnScore:          game.Score,
		database.ColumnPlayed:         game.Played,
		database.ColumnPlayTime:       utils.FormatDuration(game.PlayTime),
		database.ColumnLastLaunchDate: nullable(utils.FormatDate(game.LastLaunchDate)),
		database.ColumnLastLaunchTime: utils.FormatDuration(game.LastLaunchTime),
		database.ColumnEmulator:       nil,
		database.ColumnArguments:      nullable(game.Arguments),
		database.ColumnKey:            nullable(game.Key),
		database.ColumnTags:           nullable(strings.Join(game.Tags, configstore.ListSeparator)),
		database.ColumnCover:          nullable(game.Cover),
	}
	if game.Emulator != nil {
		row[database.ColumnEmulator] = game.Emulator.ID()
	}
	return row
}

// ReadEnvironment loads the variables of the environment section named after
// the game
func (game *Game) ReadEnvironment(store *configstore.Store) {
	game.Environment = make(map[string]string)
	for key, value := range store.Items(game.ID) {
		game.Environment[key] = value
	}
}

// WriteEnvironment replaces the environment section of the game. A game
// without variables has no section.
func (game *Game) WriteEnvironment(store *configstore.Store) {
	store.RemoveSection(game.ID)
	for key, value := range game.Environment {
		store.Set(game.ID, key, value)
	}
}

// Clone returns a copy of the game which shares no slice or map with it
func (game *Game) Clone() *Game {
	clone := *game
	clone.Tags = append([]string(nil), game.Tags...)
	clone.Environment = make(map[string]string, len(game.Environment))
	for key, value := range game.Environment {
		clone.Environment[key] = value
	}
	return &clone
}

func nullable(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func text(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	}
	return ""
}

func flag(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	}
	return false
}

func number(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
