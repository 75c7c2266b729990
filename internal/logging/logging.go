// Package logging builds the injected zerolog.Logger used across the
// engine. Every component takes a logger as a field rather than reaching
// for a package-level global, per spec.md §9's design note on avoiding a
// process-wide logging singleton.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a console-writer logger tagged with module, at Debug level
// when verbose is set and Info otherwise. Timestamps use RFC3339 to stay
// greppable in redirected output.
func New(module string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("module", module).
		Logger()
}

// NewTo is New but writing to an arbitrary io.Writer, used by tests to
// capture log output instead of writing to stderr.
func NewTo(w io.Writer, module string, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("module", module).
		Logger()
}
