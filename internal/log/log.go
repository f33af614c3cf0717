// Package log configures the zerolog loggers shared by the CoinLock
// front-ends.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the root logger. Component loggers derive from it.
var Logger zerolog.Logger

// Component loggers, re-derived whenever Logger changes.
var (
	RPC     zerolog.Logger
	Wallet  zerolog.Logger
	Lock    zerolog.Logger
	UI      zerolog.Logger
	Storage zerolog.Logger
)

var components = map[string]*zerolog.Logger{
	"rpc":     &RPC,
	"wallet":  &Wallet,
	"lock":    &Lock,
	"ui":      &UI,
	"storage": &Storage,
}

func init() {
	// stdout carries command output.
	setRoot(NewConsoleLogger(os.Stderr, "info"))
}

// Init logs to stderr, colored or as JSON. A non-empty file also receives
// every record as JSON.
func Init(level string, jsonOutput bool, file string) error {
	var console io.Writer = os.Stderr
	if !jsonOutput {
		console = consoleWriter(os.Stderr)
	}
	if file == "" {
		setRoot(newLogger(console, level))
		return nil
	}

	f, err := openLogFile(file)
	if err != nil {
		return err
	}
	setRoot(newLogger(zerolog.MultiLevelWriter(console, f), level))
	return nil
}

// InitFileOnly writes JSON to file and nothing to the terminal, for
// front-ends that draw on it. An empty file discards logs.
func InitFileOnly(level string, file string) error {
	var w io.Writer = io.Discard
	if file != "" {
		f, err := openLogFile(file)
		if err != nil {
			return err
		}
		w = f
	}
	setRoot(newLogger(w, level))
	return nil
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(consoleWriter(w), level)
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return newLogger(w, level)
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
}

// ParseLevel maps a config level name to a zerolog level. Unknown or empty
// names mean info; "warning" is accepted for warn.
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ValidLevel reports whether level names a zerolog level.
func ValidLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
		return nil
	}
	return fmt.Errorf("unknown log level %q", level)
}

func setRoot(l zerolog.Logger) {
	Logger = l
	for name, c := range components {
		*c = Logger.With().Str("component", name).Logger()
	}
}

func openLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
