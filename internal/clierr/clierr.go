// Package clierr defines the CLI exit-code contract of spec.md §6: each
// failure mode maps to a fixed process exit code so scripts driving the
// engine can branch on why it failed.
package clierr

import (
	"errors"
	"fmt"
	"os"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

// Exit codes per spec.md §6.
const (
	CodeSuccess        = 0
	CodeUnexpected     = 1
	CodeArgument       = 2
	CodeConfiguration  = 3
	CodeDesign         = 4
	CodeFileNotFound   = 5
	CodeOperational    = 6
)

// ExitError carries the process exit code alongside the underlying error,
// so cmd/taguchi's root command can os.Exit with the right code without
// re-deriving it from the error's type at the top level.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// New wraps err as an ExitError with the given code.
func New(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// Newf builds an ExitError from a format string.
func Newf(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// Classify maps a typed engine error to its exit code, defaulting to
// CodeUnexpected for anything it doesn't recognize. Used at the CLI
// boundary so internal packages never need to know about exit codes.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit
	}

	// A missing --config/--recover/state file path classifies as
	// CodeFileNotFound regardless of which typed error wraps it (a plain
	// fmt.Errorf from config.Load, or a model.PersistenceError from
	// statefile.Load) - checked ahead of the typed-error cases below so it
	// takes priority over the generic CodeOperational persistence mapping.
	if errors.Is(err, os.ErrNotExist) {
		return New(CodeFileNotFound, err)
	}

	var cfgErr *model.ConfigError
	if errors.As(err, &cfgErr) {
		return New(CodeConfiguration, err)
	}
	var designErr *model.DesignError
	if errors.As(err, &designErr) {
		return New(CodeDesign, err)
	}
	var persistErr *model.PersistenceError
	if errors.As(err, &persistErr) {
		return New(CodeOperational, err)
	}
	return New(CodeUnexpected, err)
}
