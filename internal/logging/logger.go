package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level   string
	LogFile string
	NoColor bool
}

// NewLogger creates a new zerolog logger with dual output (console + file)
func NewLogger(cfg Config) *zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level := parseLevel(cfg.Level)

	noColor := cfg.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"

	// Console writer goes through progressSafeWriter so log lines do not
	// get glued onto a progress bar that is being redrawn on stderr
	consoleWriter := zerolog.ConsoleWriter{
		Out:        newProgressSafeWriter(os.Stderr),
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}

	writers := []io.Writer{consoleWriter}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    10, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)

	logger := zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &logger
}

// Component returns a child logger tagged with a component name.
// A nil parent yields a disabled logger.
func Component(parent *zerolog.Logger, name string) *zerolog.Logger {
	if parent == nil {
		nop := zerolog.Nop()
		return &nop
	}
	child := parent.With().Str("component", name).Logger()
	return &child
}

// parseLevel converts string level to zerolog.Level
func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewTestLogger creates a logger for testing that writes to a buffer
func NewTestLogger(w io.Writer) *zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &logger
}

// progressSafeWriter clears the current terminal line before each write
// and serializes writers, so a line never lands in the middle of a
// progress bar redraw.
type progressSafeWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func newProgressSafeWriter(out io.Writer) *progressSafeWriter {
	return &progressSafeWriter{out: out}
}

const clearLine = "\r\033[K"

func (w *progressSafeWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := io.WriteString(w.out, clearLine); err != nil {
		return 0, err
	}
	return w.out.Write(p)
}
