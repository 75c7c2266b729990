// Package runner implements the external Target Runner Contract (spec.md
// §6) and the Run Orchestrator that drives an experiment's OA rows and
// repetitions across it (spec.md §4.3).
package runner

import "context"

// ArgToken is one command-line argument token: a key whose Value may be nil
// for flag-style arguments, otherwise a key followed by a string/number
// token, per the target runner contract.
type ArgToken struct {
	Key   string
	Value *string
}

// Str builds a valued ArgToken.
func Str(key, value string) ArgToken {
	return ArgToken{Key: key, Value: &value}
}

// Flag builds a flag-only ArgToken (no value).
func Flag(key string) ArgToken {
	return ArgToken{Key: key}
}

// Target is the external collaborator spec.md §6 calls the "target
// runner": an async call taking an ordered argument sequence, an
// environment map, and a verbosity flag, returning observed metrics.
type Target interface {
	Invoke(ctx context.Context, args []ArgToken, env map[string]string, verbose bool) (map[string]float64, error)
}
