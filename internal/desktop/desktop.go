// Package desktop reads and writes freedesktop.org launcher entries so a
// library game can be started from an application menu.
package desktop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/gamescan/internal/fsops"
	"github.com/quantmind-br/gamescan/internal/security"
	"github.com/spf13/afero"
)

// FilePrefix starts the name of every entry gamescan writes
const FilePrefix = "gamescan-"

// Entry is the [Desktop Entry] group of a .desktop file
type Entry struct {
	Type       string
	Name       string
	Exec       string
	Path       string
	Icon       string
	Comment    string
	Categories []string
	Terminal   bool
}

// NewGameEntry builds an entry that runs "<binary> launch <gameID>" from
// installPath. icon may be empty.
func NewGameEntry(binary, gameID, title, installPath, icon string) *Entry {
	exec := strings.Join([]string{
		escapeExecToken(binary),
		"launch",
		escapeExecToken(gameID),
	}, " ")

	return &Entry{
		Type:       "Application",
		Name:       title,
		Exec:       exec,
		Path:       installPath,
		Icon:       icon,
		Comment:    "Play " + title,
		Categories: []string{"Game"},
	}
}

// FileName returns the entry file name for a media base name
func FileName(base string) string {
	return FilePrefix + base + ".desktop"
}

// Parse parses a .desktop file from a reader
func Parse(r io.Reader) (*Entry, error) {
	de := &Entry{}
	scanner := bufio.NewScanner(r)
	inDesktopEntry := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			inDesktopEntry = line == "[Desktop Entry]"
			continue
		}

		if !inDesktopEntry {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = unescapeValue(strings.TrimSpace(value))

		switch key {
		case "Type":
			de.Type = value
		case "Name":
			de.Name = value
		case "Exec":
			de.Exec = value
		case "Path":
			de.Path = value
		case "Icon":
			de.Icon = value
		case "Comment":
			de.Comment = value
		case "Categories":
			de.Categories = parseSemicolonList(value)
		case "Terminal":
			de.Terminal = value == "true"
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan desktop file: %w", err)
	}

	return de, nil
}

// Write writes a .desktop file to a writer
func Write(w io.Writer, de *Entry) error {
	b := &strings.Builder{}
	fmt.Fprintln(b, "[Desktop Entry]")
	fmt.Fprintf(b, "Type=%s\n", de.Type)
	fmt.Fprintf(b, "Name=%s\n", escapeValue(de.Name))
	fmt.Fprintf(b, "Exec=%s\n", escapeValue(de.Exec))

	if de.Path != "" {
		fmt.Fprintf(b, "Path=%s\n", escapeValue(de.Path))
	}
	if de.Icon != "" {
		fmt.Fprintf(b, "Icon=%s\n", escapeValue(de.Icon))
	}
	if de.Comment != "" {
		fmt.Fprintf(b, "Comment=%s\n", escapeValue(de.Comment))
	}
	if len(de.Categories) > 0 {
		fmt.Fprintf(b, "Categories=%s\n", strings.Join(de.Categories, ";")+";")
	}
	fmt.Fprintf(b, "Terminal=%t\n", de.Terminal)

	_, err := io.WriteString(w, b.String())
	return err
}

// Validate checks if the desktop entry has required fields
func Validate(de *Entry) error {
	if de.Type == "" {
		return fmt.Errorf("Type field is required")
	}
	if de.Name == "" {
		return fmt.Errorf("Name field is required")
	}
	if de.Exec == "" {
		return fmt.Errorf("Exec field is required")
	}
	return nil
}

// Install writes de as dir/name, replacing an existing file, and returns
// the full path
func Install(fs afero.Fs, dir, name string, de *Entry) (string, error) {
	if err := Validate(de); err != nil {
		return "", fmt.Errorf("invalid desktop entry: %w", err)
	}
	if err := security.ValidateFileName(name); err != nil {
		return "", err
	}
	if err := fsops.EnsureDir(fs, dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create desktop file: %w", err)
	}
	defer file.Close()

	if err := Write(file, de); err != nil {
		return "", fmt.Errorf("write desktop file: %w", err)
	}
	return path, nil
}

// parseSemicolonList parses semicolon-separated list
func parseSemicolonList(value string) []string {
	value = strings.TrimSuffix(value, ";")
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// escapeValue keeps a string value on one line
func escapeValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	return strings.ReplaceAll(value, "\r", `\r`)
}

// unescapeValue reverses escapeValue and the \s and \t escapes
func unescapeValue(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c != '\\' || i+1 == len(value) {
			b.WriteByte(c)
			continue
		}
		i++
		switch value[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(value[i])
		}
	}
	return b.String()
}

// escapeExecToken quotes an Exec argument when it holds reserved characters
func escapeExecToken(token string) string {
	if token != "" && !strings.ContainsAny(token, " \t\"'\\$`;&|<>()*?#~=%") {
		return token
	}
	escaped := strings.ReplaceAll(token, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "`", "\\`")
	escaped = strings.ReplaceAll(escaped, `$`, `\$`)
	escaped = strings.ReplaceAll(escaped, `%`, `%%`)
	return `"` + escaped + `"`
}
