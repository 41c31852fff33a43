// Package logger builds the zerolog logger used by the photosite commands.
//
// Verbosity is passed explicitly as a Config value; nothing in this package
// touches the zerolog global logger.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the log level and output format.
type Config struct {
	// Verbose enables debug messages, such as every skipped artifact.
	Verbose bool

	// Silent drops everything below errors. It wins over Verbose.
	Silent bool

	// JSON writes one JSON object per line instead of console output.
	JSON bool
}

// Level returns the minimum level the configuration lets through.
func (c Config) Level() zerolog.Level {
	switch {
	case c.Silent:
		return zerolog.ErrorLevel
	case c.Verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing to out.
func New(out io.Writer, cfg Config) zerolog.Logger {
	if !cfg.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(cfg.Level()).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
