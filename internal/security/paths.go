package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateDestPath prevents directory traversal when writing a relative
// name under targetDir
func ValidateDestPath(targetDir, name string) error {
	cleanPath := filepath.Clean(name)

	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path contains ..: %s", name)
	}

	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("absolute path not allowed: %s", name)
	}

	destPath := filepath.Join(targetDir, cleanPath)

	cleanDest, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to resolve target directory: %w", err)
	}

	cleanTarget, err := filepath.Abs(destPath)
	if err != nil {
		return fmt.Errorf("failed to resolve destination path: %w", err)
	}

	if !strings.HasPrefix(cleanTarget, cleanDest+string(filepath.Separator)) &&
		cleanTarget != cleanDest {
		return fmt.Errorf("path escapes destination directory: %s", name)
	}

	return nil
}

// ValidatePath performs general path validation
func ValidatePath(path string) error {
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains null bytes: %q", path)
	}

	if len(path) > 4096 {
		return fmt.Errorf("path too long: %d characters", len(path))
	}

	return nil
}
