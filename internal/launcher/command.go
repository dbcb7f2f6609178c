// Package launcher builds emulator command lines and supervises the sessions
// running them.
package launcher

import (
	"path/filepath"
	"strings"

	"gem.dev/launcher/internal/entity"
	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/utils"
)

// Placeholders recognised in argument templates
const (
	PlaceholderConfPath = "<conf_path>"
	PlaceholderRomPath  = "<rom_path>"
	PlaceholderRomName  = "<rom_name>"
	PlaceholderRomFile  = "<rom_file>"
	PlaceholderKey      = "<key>"
	PlaceholderName     = "<name>"
	PlaceholderLName    = "<lname>"
)

// Substitution order matters: no replacement may produce a later placeholder
var placeholders = []string{
	PlaceholderConfPath,
	PlaceholderRomPath,
	PlaceholderRomName,
	PlaceholderRomFile,
	PlaceholderKey,
	PlaceholderName,
	PlaceholderLName,
}

// Substitute replaces the placeholders of template with the values of
// emulator and game. Absent values are replaced by an empty string.
func Substitute(template string, emulator *entity.Emulator, game *entity.Game) string {
	values := map[string]string{
		PlaceholderRomPath: filepath.Dir(game.Path),
		PlaceholderRomName: game.Stem(),
		PlaceholderRomFile: game.Path,
		PlaceholderKey:     game.Key,
		PlaceholderName:    game.Filename,
		PlaceholderLName:   strings.ToLower(game.Filename),
	}
	if emulator != nil {
		values[PlaceholderConfPath] = utils.ExpandPath(emulator.Configuration)
	}
	for _, placeholder := range placeholders {
		template = strings.ReplaceAll(template, placeholder, values[placeholder])
	}
	return template
}

// Arguments composes the argument template of a launch: the game override or
// the emulator default, followed by the mode arguments.
func Arguments(emulator *entity.Emulator, game *entity.Game, fullscreen bool) string {
	var parts []string
	if game.Arguments != "" {
		parts = append(parts, game.Arguments)
	} else if emulator.DefaultArguments != "" {
		parts = append(parts, emulator.DefaultArguments)
	}
	mode := emulator.WindowedArguments
	if fullscreen {
		mode = emulator.FullscreenArguments
	}
	if mode != "" {
		parts = append(parts, mode)
	}
	return strings.Join(parts, " ")
}

// BuildCommand returns the argv launching game with emulator. The ROM path is
// appended when the arguments reference no ROM placeholder.
func BuildCommand(emulator *entity.Emulator, game *entity.Game, fullscreen bool) (argv []string, err error) {
	const op = "build command"
	if emulator == nil {
		return nil, errors.New(errors.KindMissingField, op+" "+game.ID, "emulator")
	}
	var binary []string
	if binary, err = Tokenize(emulator.Binary); err != nil {
		return nil, errors.Wrap(errors.KindConfigInvalid, op, emulator.Name, err)
	}
	if len(binary) == 0 {
		return nil, errors.New(errors.KindMissingField, op+" "+emulator.Name, entity.EmulatorBinary)
	}
	if len(utils.ResolveBinary(binary[0])) == 0 {
		return nil, errors.New(errors.KindEmulatorBinaryMissing, op, binary[0])
	}

	template := Arguments(emulator, game, fullscreen)
	var arguments []string
	if arguments, err = Tokenize(template); err != nil {
		return nil, errors.Wrap(errors.KindConfigInvalid, op, emulator.Name, err)
	}
	argv = append(argv, binary...)
	for _, argument := range arguments {
		// Placeholders without a value vanish, an explicit "" stays
		substituted := Substitute(argument, emulator, game)
		if substituted == "" && argument != "" {
			continue
		}
		argv = append(argv, substituted)
	}
	if !referencesRom(template) {
		argv = append(argv, game.Path)
	}
	return
}

func referencesRom(template string) bool {
	return strings.Contains(template, PlaceholderRomPath) ||
		strings.Contains(template, PlaceholderRomName) ||
		strings.Contains(template, PlaceholderRomFile)
}
