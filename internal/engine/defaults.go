package engine

import (
	_ "embed"
	"os"

	"gem.dev/launcher/internal/configstore"
)

// Entries shipped with the engine
var (
	//go:embed defaults/emulators.conf
	DefaultEmulators []byte
	//go:embed defaults/consoles.conf
	DefaultConsoles []byte
)

// seedDefaults merges the defaults into store without touching what it
// holds. A store whose file does not exist yet receives every default
// section; an existing one only gets the options its own sections lack, so
// entries the user removed stay removed.
func seedDefaults(store *configstore.Store, data []byte) (merged int, err error) {
	defaults, err := configstore.Parse(data)
	if err != nil {
		return 0, err
	}
	if _, statErr := os.Stat(store.Path()); statErr == nil {
		for _, section := range defaults.Sections() {
			if !store.HasSection(section) {
				defaults.RemoveSection(section)
			}
		}
	}
	return store.MergeMissing(defaults), nil
}
