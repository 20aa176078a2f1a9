package ui

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Output destinations; commands point them at their own writers
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

// Color scheme for gamescan
var (
	// Primary actions
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow)
	Info    = color.New(color.FgCyan)

	// Secondary actions
	Highlight = color.New(color.FgHiCyan, color.Bold)
	Muted     = color.New(color.Faint)
	Bold      = color.New(color.Bold)

	// Status indicators
	CheckMark = "✓"
	CrossMark = "✗"
	Arrow     = "→"
	Bullet    = "•"

	// Engine names cycle through this palette
	enginePalette = []*color.Color{
		color.New(color.FgMagenta),
		color.New(color.FgBlue),
		color.New(color.FgYellow),
		color.New(color.FgCyan),
		color.New(color.FgRed),
		color.New(color.FgHiGreen),
		color.New(color.FgHiMagenta),
		color.New(color.FgHiBlue),
	}
)

// SetOutput redirects printed output. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		Out = out
	}
	if errOut != nil {
		Err = errOut
	}
}

// InitColors applies a color mode: "always", "never" or "auto". Auto
// respects NO_COLOR, TERM=dumb and terminal detection.
func InitColors(mode string) {
	switch mode {
	case "always":
		color.NoColor = false
		return
	case "never":
		color.NoColor = true
		return
	}

	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	if os.Getenv("TERM") == "dumb" {
		color.NoColor = true
	}
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Fprintf(Out, "%s %s\n", CheckMark, fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(Err, "%s Error: %s\n", CrossMark, fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Fprintf(Err, "Warning: %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Fprintf(Out, "%s %s\n", Arrow, fmt.Sprintf(format, args...))
}

// PrintKeyValue prints a key-value pair with color
func PrintKeyValue(key, value string) {
	Bold.Fprintf(Out, "%s: ", key)
	fmt.Fprintln(Out, value)
}

// PrintHeader prints a section header
func PrintHeader(text string) {
	fmt.Fprintln(Out)
	Bold.Fprintln(Out, text)
	Muted.Fprintln(Out, "────────────────────────────────────────")
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(Out, "  %s %s\n", Bullet, item)
	}
}

// ColorizeEngine returns the engine name in a color stable for that name.
// Unknown engines render as a muted dash.
func ColorizeEngine(engine string) string {
	if engine == "" {
		return Muted.Sprint("-")
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(engine))
	return enginePalette[h.Sum32()%uint32(len(enginePalette))].Sprint(engine)
}

// FormatPlaytime renders a play duration as hours and minutes
func FormatPlaytime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// FormatLastPlayed renders a relative time, or "never" for the zero time
func FormatLastPlayed(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatSize renders a byte count in SI units
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}

// AreColorsEnabled returns whether colors are currently enabled
func AreColorsEnabled() bool {
	return !color.NoColor
}
