// Package oa holds the static catalog of standard orthogonal arrays (L4
// through L36) together with their linear graphs, per spec.md §4.1. Small
// 2-level and 3-level/5-level arrays are built from compact generators
// (Hadamard/GF(p) constructions); arrays with no clean algebraic generator
// (L18, L36) are literal or best-effort-documented data.
package oa

import "github.com/marijaaleksic/taguchi-engine/internal/model"

// Entry is one catalogued orthogonal array: its shape, its matrix, and
// (where one exists in the literature) its linear graph.
type Entry struct {
	Info  model.OrthogonalArrayInfo
	Graph *model.LinearGraph // nil if no conventional linear graph exists
}

var catalog map[string]Entry

// matrices holds the literal/generated matrix data, kept apart from Entry so
// Catalog() callers don't have to copy large slices just to inspect shape.
var matrices map[string][][]int

func init() {
	matrices = map[string][][]int{
		"L4":          generateHadamard(2),
		"L8":          generateHadamard(3),
		"L9":          generatePrimeLevelArray(3, 2),
		"L12":         generateL12(),
		"L16":         generateHadamard(4),
		"L16(4^5)":    generateL16_4(),
		"L18":         l18Matrix,
		"L25":         generatePrimeLevelArray(5, 2),
		"L27":         generatePrimeLevelArray(3, 3),
		"L32":         generateHadamard(5),
		"L36(2^11 3^12)": generateL36_2_11_3_12(),
		"L36(2^3 3^13)":  generateL36_2_3_3_13(),
	}

	catalog = map[string]Entry{}
	for name, m := range matrices {
		catalog[name] = Entry{
			Info:  infoFor(name, m),
			Graph: graphFor(name),
		}
	}
}

// levelCounts derives the per-column level count directly from the matrix
// data (max symbol observed in that column).
func levelCounts(m [][]int) []int {
	if len(m) == 0 {
		return nil
	}
	out := make([]int, len(m[0]))
	for _, row := range m {
		for c, v := range row {
			if v > out[c] {
				out[c] = v
			}
		}
	}
	return out
}

func infoFor(name string, m [][]int) model.OrthogonalArrayInfo {
	lc := levelCounts(m)
	return model.OrthogonalArrayInfo{
		Designation: name,
		Runs:        len(m),
		MaxFactors:  len(lc),
		LevelCounts: lc,
		Strength:    2,
	}
}

func graphFor(name string) *model.LinearGraph {
	switch name {
	case "L4":
		return hadamardGraph(2)
	case "L8":
		return hadamardGraph(3)
	case "L9":
		return primeGraph(3, 2)
	case "L16":
		return hadamardGraph(4)
	case "L27":
		return primeGraph(3, 3)
	case "L32":
		return hadamardGraph(5)
	default:
		// L12, L16(4^5), L18, L36*: no conventional linear graph shipped.
		// L18 in particular is valued in practice precisely because it
		// doesn't confound main effects with interactions on any column,
		// so assigning interactions to it is intentionally unsupported.
		return nil
	}
}

func hadamardGraph(k int) *model.LinearGraph {
	return &model.LinearGraph{
		MainColumns:  hadamardMainColumns(k),
		Interactions: hadamardInteractions(k),
	}
}

func primeGraph(p, k int) *model.LinearGraph {
	return &model.LinearGraph{
		MainColumns:  primeBaseColumns(p, k),
		Interactions: primeInteractionColumns(p, k),
	}
}

// Lookup returns the catalogued design matrix and metadata for designation,
// or false if not catalogued.
func Lookup(designation string) (model.OADesign, Entry, bool) {
	e, ok := catalog[designation]
	if !ok {
		return model.OADesign{}, Entry{}, false
	}
	m := matrices[designation]
	cp := make([][]int, len(m))
	for i, row := range m {
		r := make([]int, len(row))
		copy(r, row)
		cp[i] = r
	}
	return model.OADesign{Designation: designation, Matrix: cp}, e, true
}

// All returns every catalogued designation's Entry (no matrix copy), for
// the Design Builder's recommendation search.
func All() map[string]Entry {
	return catalog
}
