package heuristics

import (
	"path/filepath"
	"strings"
)

const executableExt = ".exe"

// IsExecutableName reports whether a filename carries the .exe extension
// (case-insensitive). A bare ".exe" has no stem and is not an executable.
func IsExecutableName(name string) bool {
	ext := filepath.Ext(name)
	return len(name) > len(ext) && strings.EqualFold(ext, executableExt)
}

// stem returns the lowercased base name without its extension
func stem(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}
