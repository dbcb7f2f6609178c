package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveBinary returns every existing absolute path the binary name can be
// found at. A name holding a path separator is checked as is (after ~ and
// environment expansion); a relative name is also checked against each PATH
// entry. An empty result means the binary is not installed.
func ResolveBinary(binary string) []string {
	binary = ExpandPath(strings.TrimSpace(binary))
	if binary == "" {
		return nil
	}

	var found []string
	seen := make(map[string]bool)
	check := func(candidate string) {
		absolute, err := filepath.Abs(candidate)
		if err != nil || seen[absolute] {
			return
		}
		if info, err := os.Stat(absolute); err == nil && !info.IsDir() {
			seen[absolute] = true
			found = append(found, absolute)
		}
	}

	if strings.ContainsRune(binary, filepath.Separator) || strings.ContainsRune(binary, '/') {
		check(binary)
	}
	if filepath.IsAbs(binary) {
		return found
	}
	for _, directory := range filepath.SplitList(os.Getenv("PATH")) {
		if directory == "" {
			continue
		}
		check(filepath.Join(directory, binary))
	}
	return found
}

// ExpandPath expands a leading ~ to the user home directory and any
// $VARIABLE reference from the environment.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
