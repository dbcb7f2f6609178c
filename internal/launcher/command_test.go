package launcher_test

import (
	"os"
	"path/filepath"
	"testing"

	"gem.dev/launcher/internal/entity"
	gemerrors "gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installEmulator puts an executable named emu alone on PATH
func installEmulator(t *testing.T) {
	t.Helper()
	directory := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(directory, "emu"), []byte("#!/bin/sh\n"), 0755))
	t.Setenv("PATH", directory)
}

func TestBuildCommandWithRomPlaceholder(t *testing.T) {
	installEmulator(t)
	emulator := &entity.Emulator{Name: "Emu", Binary: "emu", DefaultArguments: "--rom <rom_file>", FullscreenArguments: "-f"}
	game := entity.NewGame("/r/games/x.nes")

	argv, err := launcher.BuildCommand(emulator, game, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"emu", "--rom", "/r/games/x.nes", "-f"}, argv)
}

func TestBuildCommandImplicitFile(t *testing.T) {
	installEmulator(t)
	emulator := &entity.Emulator{Name: "Emu", Binary: "emu", DefaultArguments: "-v", FullscreenArguments: "-f"}
	game := entity.NewGame("/r/games/x.nes")

	argv, err := launcher.BuildCommand(emulator, game, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"emu", "-v", "/r/games/x.nes"}, argv)
}

func TestBuildCommandOverridesAndPlaceholders(t *testing.T) {
	installEmulator(t)
	emulator := &entity.Emulator{
		Name:              "Emu",
		Binary:            "emu --portable",
		Configuration:     "/etc/emu.cfg",
		DefaultArguments:  "--ignored",
		WindowedArguments: "-w",
	}
	game := entity.NewGame("/r/my games/Super Game.NES")
	game.Arguments = `-c <conf_path> --dir "<rom_path>" --name '<rom_name>' <lname> <name> --key <key>`

	argv, err := launcher.BuildCommand(emulator, game, false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"emu", "--portable",
		"-c", "/etc/emu.cfg",
		"--dir", "/r/my games",
		"--name", "Super Game",
		"super game.nes", "Super Game.NES",
		"--key",
		"-w",
	}, argv, "an absent key drops its argument")
}

func TestBuildCommandKeepsExplicitEmptyArgument(t *testing.T) {
	installEmulator(t)
	emulator := &entity.Emulator{Name: "Emu", Binary: "emu", DefaultArguments: `--password "" --key <key> <rom_file>`}
	game := entity.NewGame("/r/x.nes")

	argv, err := launcher.BuildCommand(emulator, game, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"emu", "--password", "", "--key", "/r/x.nes"}, argv)
}

func TestBuildCommandMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	emulator := &entity.Emulator{Name: "Emu", Binary: "emu"}

	_, err := launcher.BuildCommand(emulator, entity.NewGame("/r/x.nes"), false)
	assert.True(t, gemerrors.Is(err, gemerrors.ErrEmulatorBinaryMissing))

	_, err = launcher.BuildCommand(nil, entity.NewGame("/r/x.nes"), false)
	assert.True(t, gemerrors.Is(err, gemerrors.ErrMissingField))
}

func TestBuildCommandInvalidTemplate(t *testing.T) {
	installEmulator(t)
	emulator := &entity.Emulator{Name: "Emu", Binary: "emu", DefaultArguments: `--title "unterminated`}

	_, err := launcher.BuildCommand(emulator, entity.NewGame("/r/x.nes"), false)
	assert.True(t, gemerrors.Is(err, gemerrors.ErrConfigInvalid))
}

func TestSubstitute(t *testing.T) {
	emulator := &entity.Emulator{Name: "Emu", Binary: "emu"}
	game := entity.NewGame("/r/x.nes")
	assert.Equal(t, "/snaps/x-*.png", launcher.Substitute("/snaps/<rom_name>-*.png", emulator, game))
	assert.Equal(t, "/r/x.nes.state", launcher.Substitute("<rom_path>/<name>.state", nil, game))
}

func TestTokenize(t *testing.T) {
	for input, expected := range map[string][]string{
		"":                          nil,
		"  -a   -b ":                {"-a", "-b"},
		`--title "Two words"`:       {"--title", "Two words"},
		`'single "kept"' x`:         {`single "kept"`, "x"},
		`a\ b`:                      {"a b"},
		`"escaped \" quote" "\n"`:   {`escaped " quote`, "n"},
		"-a # comment":              {"-a"},
		`""`:                        {""},
		`pre"fix"ed`:                {"prefixed"},
	} {
		tokens, err := launcher.Tokenize(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, tokens, input)
	}

	for _, input := range []string{`"open`, `'open`, `trailing\`} {
		_, err := launcher.Tokenize(input)
		assert.Error(t, err, input)
	}
}
