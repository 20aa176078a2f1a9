package fsops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// SaveDirNames are the folder names games commonly keep saves in, in lookup order
var SaveDirNames = []string{"save", "savedata", "Save", "SaveData", "saves", "Saves", "data"}

// CheckWritable checks if a path is writable
func CheckWritable(fs afero.Fs, path string) error {
	testFile := filepath.Join(path, ".write_test")
	f, err := fs.Create(testFile)
	if err != nil {
		return fmt.Errorf("path not writable: %w", err)
	}
	f.Close()
	fs.Remove(testFile)
	return nil
}

// EnsureDir ensures a directory exists with the given permissions
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CopyFile copies a file from src to dst, replacing dst
func CopyFile(fs afero.Fs, src, dst string) (err error) {
	srcFile, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer func() {
		if cerr := dstFile.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close destination: %w", cerr)
		}
	}()

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}

	return nil
}

// FolderSize sums the sizes of the regular files under path. Entries that
// cannot be read are skipped.
func FolderSize(fs afero.Fs, path string) (int64, error) {
	if _, err := fs.Stat(path); err != nil {
		return 0, fmt.Errorf("folder size: %w", err)
	}

	var total int64
	_ = afero.Walk(fs, path, func(_ string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total, nil
}

// FindSaveDirectories returns the save folders directly under installPath.
// Names resolving to the same directory are reported once.
func FindSaveDirectories(fs afero.Fs, installPath string) []string {
	var (
		found []string
		infos []os.FileInfo
	)

	for _, name := range SaveDirNames {
		candidate := filepath.Join(installPath, name)
		info, err := fs.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}
		if seenBefore(infos, info) {
			continue
		}
		found = append(found, candidate)
		infos = append(infos, info)
	}

	return found
}

func seenBefore(infos []os.FileInfo, info os.FileInfo) bool {
	for _, prev := range infos {
		if os.SameFile(prev, info) {
			return true
		}
	}
	return false
}
