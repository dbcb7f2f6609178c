package folder_test

import (
	"os"
	"path/filepath"
	"testing"

	"gem.dev/launcher/internal/folder"
	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayoutFollowsXDG(t *testing.T) {
	// Registered first so it runs after the environment is restored
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	xdg.Reload()
	layout := folder.NewLayout("", "")
	assert.Equal(t, "/xdg/config/gem", layout.ConfigDir)
	assert.Equal(t, "/xdg/data/gem", layout.DataDir)
	assert.Equal(t, "/xdg/data/gem/gem.db", layout.DatabasePath())
	assert.Equal(t, "/xdg/config/gem/consoles.conf", layout.ConsolesPath())
	assert.Equal(t, "/xdg/data/gem/logs/x.nes.log", layout.LogPath("x.nes"))
	assert.Equal(t, "/xdg/data/gem/notes/x.nes.txt", layout.NotePath("x.nes"))
}

func TestCreate(t *testing.T) {
	root := t.TempDir()
	layout := folder.NewLayout(filepath.Join(root, "config"), filepath.Join(root, "data"))
	require.NoError(t, layout.Create())
	for _, directory := range []string{
		layout.ConfigDir, layout.RomsDir(), layout.LogsDir(), layout.NotesDir(),
		layout.ConsoleIconsDir(), layout.EmulatorIconsDir(),
	} {
		info, err := os.Stat(directory)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
