package design

import (
	"sort"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"github.com/marijaaleksic/taguchi-engine/internal/oa"
)

// assignColumns implements spec.md §4.2 "Assign columns": pin main factors
// to the linear graph's preferred columns first, then fill remaining
// factors into any unused column of matching level count, then place each
// requested interaction (via the graph if it documents one, else
// symbolically for 2x2/3x3 pairs).
func assignColumns(design model.OADesign, entry oa.Entry, factors []model.Factor, interactions []model.Interaction) (map[string]int, error) {
	cols := design.Columns()
	used := make([]bool, cols)
	assignments := map[string]int{}

	byName := map[string]model.Factor{}
	for _, f := range factors {
		byName[f.Name] = f
	}

	// graphReserved marks columns the linear graph documents as carrying
	// some interaction, so step 2 prefers to leave them for step 3.
	graphReserved := map[int]bool{}
	if entry.Graph != nil && len(interactions) > 0 {
		for _, cols := range entry.Graph.Interactions {
			for _, c := range cols {
				graphReserved[c] = true
			}
		}
	}

	// Step 1: pin to linear-graph main columns, in priority order, skipping
	// columns already consumed and respecting level-count match.
	remaining := make([]model.Factor, len(factors))
	copy(remaining, factors)

	if entry.Graph != nil {
		var stillRemaining []model.Factor
		graphCols := append([]int(nil), entry.Graph.MainColumns...)
		gi := 0
		for _, f := range remaining {
			placed := false
			for gi < len(graphCols) {
				c := graphCols[gi]
				gi++
				if used[c] {
					continue
				}
				if design.LevelsInColumn(c) != f.LevelCount() {
					continue
				}
				assignments[f.Name] = c
				used[c] = true
				placed = true
				break
			}
			if !placed {
				stillRemaining = append(stillRemaining, f)
			}
		}
		remaining = stillRemaining
	}

	// Step 2: place remaining main factors in any unused column of matching
	// level count, preferring columns not reserved for requested
	// interactions by the graph.
	for _, f := range remaining {
		col, ok := pickUnusedColumn(design, used, f.LevelCount(), graphReserved)
		if !ok {
			return nil, model.NewDesignError(
				"no unused column of level count %d available for factor %q in %s",
				f.LevelCount(), f.Name, design.Designation)
		}
		assignments[f.Name] = col
		used[col] = true
	}

	// Step 3: place interactions.
	for _, it := range interactions {
		af, aok := byName[it.First]
		bf, bok := byName[it.Second]
		if !aok || !bok {
			return nil, model.NewDesignError("interaction %q references an unknown factor", it.Key())
		}
		colA, colB := assignments[it.First], assignments[it.Second]

		if entry.Graph != nil {
			if cols, ok := entry.Graph.Lookup(colA, colB); ok {
				if err := consumeGraphInteraction(design, used, assignments, it, cols); err != nil {
					return nil, err
				}
				continue
			}
		}

		if err := assignSymbolicInteraction(design, used, assignments, it, af, bf, colA, colB); err != nil {
			return nil, err
		}
	}

	return assignments, nil
}

func pickUnusedColumn(design model.OADesign, used []bool, levelCount int, avoid map[int]bool) (int, bool) {
	// First pass: avoid graph-reserved columns.
	for c := 0; c < design.Columns(); c++ {
		if used[c] || avoid[c] {
			continue
		}
		if design.LevelsInColumn(c) == levelCount {
			return c, true
		}
	}
	// Second pass: allow reserved columns if nothing else fits.
	for c := 0; c < design.Columns(); c++ {
		if used[c] {
			continue
		}
		if design.LevelsInColumn(c) == levelCount {
			return c, true
		}
	}
	return 0, false
}

func consumeGraphInteraction(design model.OADesign, used []bool, assignments map[string]int, it model.Interaction, cols []int) error {
	if len(cols) == 0 || used[cols[0]] {
		return model.NewDesignError("linear graph interaction column for %q is unavailable", it.Key())
	}
	assignments[it.Key()] = cols[0]
	used[cols[0]] = true
	if len(cols) > 1 {
		if used[cols[1]] {
			return model.NewDesignError("linear graph interaction comp2 column for %q is unavailable", it.Key())
		}
		assignments[it.Comp2Key()] = cols[1]
		used[cols[1]] = true
	}
	return nil
}

func assignSymbolicInteraction(design model.OADesign, used []bool, assignments map[string]int, it model.Interaction, af, bf model.Factor, colA, colB int) error {
	la, lb := af.LevelCount(), bf.LevelCount()
	switch {
	case la == 2 && lb == 2:
		pattern := make([]int, design.Runs())
		for r, row := range design.Matrix {
			if row[colA] == row[colB] {
				pattern[r] = 1
			} else {
				pattern[r] = 2
			}
		}
		col, ok := findMatchingColumn(design, used, pattern, 2)
		if !ok {
			return model.NewDesignError("no unused 2-level column realizes interaction %q in %s", it.Key(), design.Designation)
		}
		assignments[it.Key()] = col
		used[col] = true
		return nil

	case la == 3 && lb == 3:
		comp1 := make([]int, design.Runs())
		comp2 := make([]int, design.Runs())
		for r, row := range design.Matrix {
			a, b := row[colA]-1, row[colB]-1
			comp1[r] = (a+b)%3 + 1
			comp2[r] = (a+2*b)%3 + 1
		}
		c1, ok1 := findMatchingColumn(design, used, comp1, 3)
		if !ok1 {
			return model.NewDesignError("no unused 3-level column realizes interaction %q component 1 in %s", it.Key(), design.Designation)
		}
		used[c1] = true
		c2, ok2 := findMatchingColumn(design, used, comp2, 3)
		if !ok2 {
			used[c1] = false
			return model.NewDesignError("no unused 3-level column realizes interaction %q component 2 in %s", it.Key(), design.Designation)
		}
		assignments[it.Key()] = c1
		assignments[it.Comp2Key()] = c2
		used[c2] = true
		return nil

	default:
		return model.NewDesignError(
			"mixed-level interaction %q (%d x %d) requires an explicit linear-graph entry, none found in %s",
			it.Key(), la, lb, design.Designation)
	}
}

// findMatchingColumn searches unused columns of the given level count for
// one whose cell values exactly match pattern.
func findMatchingColumn(design model.OADesign, used []bool, pattern []int, levelCount int) (int, bool) {
	for c := 0; c < design.Columns(); c++ {
		if used[c] || design.LevelsInColumn(c) != levelCount {
			continue
		}
		match := true
		for r, row := range design.Matrix {
			if row[c] != pattern[r] {
				match = false
				break
			}
		}
		if match {
			return c, true
		}
	}
	return 0, false
}

// sortedNames is a small helper used by tests to get deterministic iteration
// over an assignment map.
func sortedNames(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
