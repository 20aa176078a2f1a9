package security

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ValidateFileName checks that name is a single path element safe to
// create inside a media directory
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("file name cannot be empty")
	}

	if len(name) > 255 {
		return fmt.Errorf("file name too long (max 255 characters)")
	}

	if strings.Contains(name, "\x00") {
		return fmt.Errorf("file name contains null byte")
	}

	if name == "." || name == ".." {
		return fmt.Errorf("invalid file name: %s", name)
	}

	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("file name must not contain path separators: %s", name)
	}

	return nil
}

// ValidateDownloadURL accepts absolute http and https URLs only
func ValidateDownloadURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("URL has no host: %s", raw)
	}

	return u, nil
}
