// Package logger builds the root zerolog logger shared by all components.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates the root logger. Level is parsed from the given string
// ("debug", "info", "warn", "error"); anything unrecognized falls back to
// info. Output is console-formatted when attached to a terminal-style
// environment via LOG_PRETTY, JSON otherwise.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if os.Getenv("LOG_PRETTY") != "" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	} else {
		log = zerolog.New(os.Stderr)
	}

	return log.Level(lvl).With().Timestamp().Logger()
}
