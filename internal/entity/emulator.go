package entity

import (
	"gem.dev/launcher/internal/configstore"
	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/utils"
)

// Options of an emulators.conf section
const (
	EmulatorBinary        = "binary"
	EmulatorIcon          = "icon"
	EmulatorConfiguration = "configuration"
	EmulatorSavestates    = "savestates"
	EmulatorScreenshots   = "screenshots"
	EmulatorDefault       = "default"
	EmulatorWindowed      = "windowed"
	EmulatorFullscreen    = "fullscreen"
)

// Emulator is an external program able to run the games of a console. Empty
// optional fields are absent.
type Emulator struct {
	Name          string
	Binary        string
	Icon          string
	Configuration string
	// Templates evaluated against a game
	Savestates          string
	Screenshots         string
	DefaultArguments    string
	WindowedArguments   string
	FullscreenArguments string
}

// ID returns the identifier of the emulator
func (emulator *Emulator) ID() string {
	return utils.Identifier(emulator.Name)
}

// Validate checks the required fields
func (emulator *Emulator) Validate() error {
	if emulator.ID() == "" {
		return errors.New(errors.KindMissingField, "validate emulator", "name")
	}
	if emulator.Binary == "" {
		return errors.New(errors.KindMissingField, "validate emulator "+emulator.Name, EmulatorBinary)
	}
	return nil
}

// EmulatorFromConfig reads the section named after the emulator
func EmulatorFromConfig(store *configstore.Store, section string) (instance *Emulator, err error) {
	instance = &Emulator{
		Name:                section,
		Binary:              option(store, section, EmulatorBinary),
		Icon:                option(store, section, EmulatorIcon),
		Configuration:       option(store, section, EmulatorConfiguration),
		Savestates:          option(store, section, EmulatorSavestates),
		Screenshots:         option(store, section, EmulatorScreenshots),
		DefaultArguments:    option(store, section, EmulatorDefault),
		WindowedArguments:   option(store, section, EmulatorWindowed),
		FullscreenArguments: option(store, section, EmulatorFullscreen),
	}
	if err = instance.Validate(); err != nil {
		instance = nil
	}
	return
}

// WriteConfig replaces the emulator section of store. Absent fields are not
// written.
func (emulator *Emulator) WriteConfig(store *configstore.Store) {
	store.RemoveSection(emulator.Name)
	store.Set(emulator.Name, EmulatorBinary, emulator.Binary)
	setOption(store, emulator.Name, EmulatorIcon, emulator.Icon)
	setOption(store, emulator.Name, EmulatorConfiguration, emulator.Configuration)
	setOption(store, emulator.Name, EmulatorSavestates, emulator.Savestates)
	setOption(store, emulator.Name, EmulatorScreenshots, emulator.Screenshots)
	setOption(store, emulator.Name, EmulatorDefault, emulator.DefaultArguments)
	setOption(store, emulator.Name, EmulatorWindowed, emulator.WindowedArguments)
	setOption(store, emulator.Name, EmulatorFullscreen, emulator.FullscreenArguments)
}

func option(store *configstore.Store, section, key string) string {
	value, _ := store.Get(section, key)
	return trim(value)
}

func setOption(store *configstore.Store, section, key, value string) {
	if value != "" {
		store.Set(section, key, value)
	}
}
