package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents a log level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format represents the console output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Rotation limits for the log file.
const (
	DefaultMaxSizeMB  = 25
	DefaultMaxBackups = 10
	DefaultMaxAgeDays = 14
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level Level

	// Format is the console output format (text or json).
	Format Format

	// Output is the console writer. Defaults to os.Stderr.
	Output io.Writer

	// File, when set, additionally writes JSON records to a rotating file.
	File string

	// AddSource adds source file and line to log entries.
	AddSource bool
}

// DefaultConfig returns the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// New creates a logger. With cfg.File set, records go to both the console
// and the rotating file; use Open to be able to close that file.
func New(cfg Config) *slog.Logger {
	log, _ := Open(cfg)
	return log
}

// Open creates a logger like New and returns a closer for the rotating file.
// The closer is a no-op when cfg.File is empty.
func Open(cfg Config) (*slog.Logger, io.Closer) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := RotatingFile(cfg.File)
		handler = NewMultiHandler(handler, slog.NewJSONHandler(file, opts))
		closer = file
	}

	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// RotatingFile returns a size-rotated, compressed log file writer. The file
// is created on first write.
func RotatingFile(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
		Compress:   true,
	}
}

// NewWithLevel creates a text logger on stderr.
func NewWithLevel(level Level) *slog.Logger {
	return New(Config{
		Level:  level,
		Format: FormatText,
		Output: os.Stderr,
	})
}

// Nop returns a logger that discards all output.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel parses a log level name, ignoring case.
// Valid values: "debug", "info", "warn", "warning", "error".
// Unrecognized values yield LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether s names a level.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// ParseFormat parses a log format name, ignoring case.
// Unrecognized values yield FormatText.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return FormatJSON
	}
	return FormatText
}
