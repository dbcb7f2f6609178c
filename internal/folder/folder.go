// Package folder describes where the engine keeps its files on disk
package folder

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Name of the application, used for the XDG sub-directories and the database file
const ApplicationName = "gem"

// Configuration files
const (
	ConsolesFile    = "consoles.conf"
	EmulatorsFile   = "emulators.conf"
	EnvironmentFile = "environment.conf"
	SchemaFile      = "database.conf"
	SettingsFile    = "settings.toml"
)

// Data sub-folders
const (
	ROMS             = "roms"
	LOGS             = "logs"
	NOTES            = "notes"
	ICONS            = "icons"
	ConsolesIcons    = "consoles"
	EmulatorsIcons   = "emulators"
	LogExtension     = ".log"
	NoteExtension    = ".txt"
	DatabaseFileName = ApplicationName + ".db"
)

// Layout roots every engine path under a configuration and a data directory
type Layout struct {
	ConfigDir string
	DataDir   string
}

// NewLayout returns a layout with the XDG base directories for any empty
// directory
func NewLayout(configDir, dataDir string) Layout {
	if configDir == "" {
		configDir = filepath.Join(xdg.ConfigHome, ApplicationName)
	}
	if dataDir == "" {
		dataDir = filepath.Join(xdg.DataHome, ApplicationName)
	}
	return Layout{ConfigDir: configDir, DataDir: dataDir}
}

// Create makes every directory of the layout
func (l Layout) Create() error {
	for _, directory := range []string{
		l.ConfigDir,
		l.DataDir,
		l.RomsDir(),
		l.LogsDir(),
		l.NotesDir(),
		filepath.Join(l.DataDir, ICONS, ConsolesIcons),
		filepath.Join(l.DataDir, ICONS, EmulatorsIcons),
	} {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return err
		}
	}
	return nil
}

func (l Layout) ConsolesPath() string    { return filepath.Join(l.ConfigDir, ConsolesFile) }
func (l Layout) EmulatorsPath() string   { return filepath.Join(l.ConfigDir, EmulatorsFile) }
func (l Layout) EnvironmentPath() string { return filepath.Join(l.ConfigDir, EnvironmentFile) }
func (l Layout) SchemaPath() string      { return filepath.Join(l.ConfigDir, SchemaFile) }
func (l Layout) SettingsPath() string    { return filepath.Join(l.ConfigDir, SettingsFile) }
func (l Layout) DatabasePath() string    { return filepath.Join(l.DataDir, DatabaseFileName) }
func (l Layout) RomsDir() string         { return filepath.Join(l.DataDir, ROMS) }
func (l Layout) LogsDir() string         { return filepath.Join(l.DataDir, LOGS) }
func (l Layout) NotesDir() string        { return filepath.Join(l.DataDir, NOTES) }

// ConsoleIconsDir and EmulatorIconsDir hold the icon assets referenced by name
func (l Layout) ConsoleIconsDir() string  { return filepath.Join(l.DataDir, ICONS, ConsolesIcons) }
func (l Layout) EmulatorIconsDir() string { return filepath.Join(l.DataDir, ICONS, EmulatorsIcons) }

// LogPath is the captured output file of the game stored under basename
func (l Layout) LogPath(basename string) string {
	return filepath.Join(l.LogsDir(), basename+LogExtension)
}

// NotePath is the free-form notes file of the game stored under basename
func (l Layout) NotePath(basename string) string {
	return filepath.Join(l.NotesDir(), basename+NoteExtension)
}
