package utils_test

import (
	"path/filepath"
	"strings"
	"testing"

	"gem.dev/launcher/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "double-dragon-iii-the-sacred-stones-europe",
		utils.Identifier("Double Dragon III - The Sacred Stones (Europe)"))
	assert.Equal(t, "it-s-an-unexistant-file-obvious",
		utils.Identifier("It's an unexistant_file!.obvious"))
	assert.Equal(t, "", utils.Identifier("  --!!  "))
	assert.Equal(t, "pokémon-rouge", utils.Identifier("Pokémon  Rouge"))
}

func TestIdentifierIdempotent(t *testing.T) {
	inputs := []string{
		"Super Mario Bros. 3 (USA) (Rev A).nes",
		"---leading and trailing---",
		"ÉCLAIR__Ünïcode  42",
		"İstanbul",
		"a.b.c",
		"",
	}
	for _, input := range inputs {
		once := utils.Identifier(input)
		assert.Equal(t, once, utils.Identifier(once), input)
	}
}

func TestExtensionGlob(t *testing.T) {
	assert.Equal(t, "[nN][eE][sS]", utils.ExtensionGlob("NES"))
	assert.Equal(t, ".[tT][aA][rR].[xX][zZ]", utils.ExtensionGlob(".tAr.Xz"))
	assert.Equal(t, "[gG][bB]2", utils.ExtensionGlob("gb2"))
}

func TestExtensionGlobMatchesCaseVariants(t *testing.T) {
	pattern := "*." + utils.ExtensionGlob("sfc")
	for _, name := range []string{"a.sfc", "a.SFC", "a.sFc", "a.SfC"} {
		matched, err := filepath.Match(pattern, name)
		assert.NoError(t, err)
		assert.True(t, matched, name)
	}
	for _, name := range []string{"a.smc", "a.sfcx", "a.sf", "a.sfc.zip"} {
		matched, err := filepath.Match(pattern, name)
		assert.NoError(t, err)
		assert.False(t, matched, name)
	}

	// Every case permutation of the extension matches, nothing else does
	extension := "gba"
	glob := utils.ExtensionGlob(extension)
	for mask := 0; mask < 1<<len(extension); mask++ {
		var builder strings.Builder
		for index, r := range extension {
			if mask&(1<<index) != 0 {
				builder.WriteString(strings.ToUpper(string(r)))
			} else {
				builder.WriteRune(r)
			}
		}
		matched, _ := filepath.Match(glob, builder.String())
		assert.True(t, matched, builder.String())
	}
}
