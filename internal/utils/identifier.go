// Package utils gathers the identifier, path and value conversion helpers
// shared by the configuration, database and launcher layers.
package utils

import (
	"strings"
	"unicode"
)

// Identifier folds s into its canonical key form: letters and digits are kept
// lowercased, every other run of characters becomes a single dash and
// leading or trailing dashes are trimmed.
func Identifier(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingDash = false
			builder.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return builder.String()
}

// ExtensionGlob returns a glob pattern matching s regardless of letter case.
// Every cased letter becomes a bracket class holding its lower and upper form,
// other characters are kept as is, so "tar.xz" gives "[tT][aA][rR].[xX][zZ]".
func ExtensionGlob(s string) string {
	var builder strings.Builder
	for _, r := range s {
		lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
		if unicode.IsLetter(r) && lower != upper {
			builder.WriteByte('[')
			builder.WriteRune(lower)
			builder.WriteRune(upper)
			builder.WriteByte(']')
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
