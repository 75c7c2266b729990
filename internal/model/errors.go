package model

import "fmt"

// ConfigError marks invalid configuration: unknown metric methods, duplicate
// factor names, missing mandatory fields, interactions on unknown/identical
// factors. Surfaced immediately; no state is written.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "configuration error: " + e.Msg }

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// DesignError marks a failure to recommend an OA or to place a factor or
// interaction onto one.
type DesignError struct {
	Msg string
}

func (e *DesignError) Error() string { return "design error: " + e.Msg }

// NewDesignError builds a DesignError with a formatted message.
func NewDesignError(format string, args ...any) *DesignError {
	return &DesignError{Msg: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failure to write or read experiment state.
type PersistenceError struct {
	Msg string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return "persistence error: " + e.Msg + ": " + e.Err.Error()
	}
	return "persistence error: " + e.Msg
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NewPersistenceError builds a PersistenceError wrapping the cause.
func NewPersistenceError(msg string, err error) *PersistenceError {
	return &PersistenceError{Msg: msg, Err: err}
}
