package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"gem.dev/launcher/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, directory, name string) string {
	t.Helper()
	path := filepath.Join(directory, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755))
	return path
}

func TestResolveBinaryOnPath(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	firstPath := writeExecutable(t, first, "fakeemu")
	secondPath := writeExecutable(t, second, "fakeemu")
	t.Setenv("PATH", first+string(os.PathListSeparator)+second)

	assert.Equal(t, []string{firstPath, secondPath}, utils.ResolveBinary("fakeemu"))
	assert.Empty(t, utils.ResolveBinary("not-installed-anywhere"))
	assert.Empty(t, utils.ResolveBinary(""))
}

func TestResolveBinaryLiteralPath(t *testing.T) {
	directory := t.TempDir()
	path := writeExecutable(t, directory, "emu")
	t.Setenv("PATH", "")
	t.Setenv("EMU_HOME", directory)

	assert.Equal(t, []string{path}, utils.ResolveBinary(path))
	assert.Equal(t, []string{path}, utils.ResolveBinary("$EMU_HOME/emu"))
	assert.Empty(t, utils.ResolveBinary(filepath.Join(directory, "missing")))
	assert.Empty(t, utils.ResolveBinary(directory))
}
