// Package model holds the data types shared across the design, run, and
// analysis stages of the Taguchi engine: factors, orthogonal-array designs,
// raw metrics, and the persisted experiment state.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Factor is a tunable parameter: an ordered list of level value-strings bound
// to OA symbols 1..K (the i-th value binds to symbol i).
type Factor struct {
	Name    string
	Values  []string
	CLIArg  string // optional; empty if unset
	EnvVar  string // optional; empty if unset
}

// LevelCount returns the number of levels (K) this factor carries.
func (f Factor) LevelCount() int {
	return len(f.Values)
}

// Validate checks the structural invariants a Factor must satisfy on its own
// (name present, at least 2 levels, at least one binding surface).
func (f Factor) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("factor: name must not be empty")
	}
	if len(f.Values) < 2 {
		return fmt.Errorf("factor %q: at least 2 levels required, got %d", f.Name, len(f.Values))
	}
	if f.CLIArg == "" && f.EnvVar == "" {
		return fmt.Errorf("factor %q: at least one of cliArg/envVar is required", f.Name)
	}
	return nil
}

// ValueAt returns the level value string bound to the given 1-based OA symbol.
func (f Factor) ValueAt(symbol int) (string, error) {
	if symbol < 1 || symbol > len(f.Values) {
		return "", fmt.Errorf("factor %q: symbol %d out of range [1,%d]", f.Name, symbol, len(f.Values))
	}
	return f.Values[symbol-1], nil
}

// NoiseFactor is a factor varied across repetitions rather than optimized.
// Its levels are cycled by repetition index, not assigned an OA column.
type NoiseFactor = Factor

// FactorSetting is one entry of a ParameterSettings map: the OA symbol chosen
// for a run together with the bound level value.
type FactorSetting struct {
	Symbol int
	Value  string
}

// ParameterSettings maps factor name to the chosen symbol/value for one OA row.
type ParameterSettings map[string]FactorSetting

// CanonicalKey returns the sorted-concatenation canonical form of the settings,
// suitable for deduplication or as a map key.
func (p ParameterSettings) CanonicalKey() string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%s=%s;", name, p[name].Value)
	}
	return sb.String()
}

// Interaction is an unordered pair of distinct factor names, always stored
// canonicalized (lexicographic order of operands).
type Interaction struct {
	First  string
	Second string
}

// NewInteraction canonicalizes a pair of factor names lexicographically.
func NewInteraction(a, b string) (Interaction, error) {
	if a == b {
		return Interaction{}, fmt.Errorf("interaction: factors must be distinct, got %q twice", a)
	}
	if a > b {
		a, b = b, a
	}
	return Interaction{First: a, Second: b}, nil
}

// Key returns the canonical "A*B" interaction key.
func (it Interaction) Key() string {
	return it.First + "*" + it.Second
}

// Comp2Key returns the canonical key for the second component of a 3x3
// interaction's two interaction columns.
func (it Interaction) Comp2Key() string {
	return it.Key() + "_comp2"
}
