// Package design implements the Design Builder: recommending a catalogued
// orthogonal array for a factor/interaction specification, assigning
// factors and interactions to columns, and generating per-run parameter
// settings (spec.md §4.2).
package design

import (
	"sort"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"github.com/marijaaleksic/taguchi-engine/internal/oa"
)

// dofMain returns Σ(k_i - 1) for the given factors.
func dofMain(factors []model.Factor) int {
	sum := 0
	for _, f := range factors {
		sum += f.LevelCount() - 1
	}
	return sum
}

// dofInteractions returns Σ(k_a-1)(k_b-1) for the requested interactions.
func dofInteractions(factors []model.Factor, interactions []model.Interaction) int {
	byName := map[string]int{}
	for _, f := range factors {
		byName[f.Name] = f.LevelCount()
	}
	sum := 0
	for _, it := range interactions {
		sum += (byName[it.First] - 1) * (byName[it.Second] - 1)
	}
	return sum
}

// candidate bundles a catalogued OA with the metrics used to rank it.
type candidate struct {
	designation string
	entry       oa.Entry
}

// levelCapacity reports whether the OA has enough columns of each level
// count a factor needs.
func levelCapacity(info model.OrthogonalArrayInfo, factors []model.Factor) bool {
	need := map[int]int{}
	for _, f := range factors {
		need[f.LevelCount()]++
	}
	have := map[int]int{}
	for _, lc := range info.LevelCounts {
		have[lc]++
	}
	for level, count := range need {
		if have[level] < count {
			return false
		}
	}
	return true
}

// Recommend selects the catalogued OA designation best suited to the given
// factors and (optional) interactions, per spec.md §4.2's ordered criteria:
// fewest runs, presence of a linear graph when interactions are requested,
// fewest surplus columns.
func Recommend(factors []model.Factor, interactions []model.Interaction) (string, error) {
	if len(factors) == 0 {
		return "", model.NewDesignError("at least one control factor is required")
	}
	dofTotal := dofMain(factors) + dofInteractions(factors, interactions)

	var candidates []candidate
	for name, entry := range oa.All() {
		if entry.Info.Runs-1 < dofTotal {
			continue
		}
		if !levelCapacity(entry.Info, factors) {
			continue
		}
		if len(interactions) > 0 && entry.Graph == nil {
			// Still a candidate (interactions may be computable
			// symbolically for 2x2/3x3), but ranked behind OAs that ship
			// a graph — handled in the sort comparator below.
		}
		candidates = append(candidates, candidate{designation: name, entry: entry})
	}
	if len(candidates) == 0 {
		return "", model.NewDesignError(
			"no catalogued orthogonal array accommodates %d degrees of freedom across %d factors",
			dofTotal, len(factors))
	}

	hasGraph := func(c candidate) bool { return c.entry.Graph != nil }
	surplus := func(c candidate) int { return c.entry.Info.Runs - 1 - dofTotal }

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.entry.Info.Runs != b.entry.Info.Runs {
			return a.entry.Info.Runs < b.entry.Info.Runs
		}
		if len(interactions) > 0 && hasGraph(a) != hasGraph(b) {
			return hasGraph(a)
		}
		if surplus(a) != surplus(b) {
			return surplus(a) < surplus(b)
		}
		return a.designation < b.designation // stable tie-break
	})
	return candidates[0].designation, nil
}

// Build recommends an OA and assigns every factor and requested interaction
// to a column, producing the frozen OADesign for the experiment.
func Build(factors []model.Factor, interactions []model.Interaction) (model.OADesign, error) {
	designation, err := Recommend(factors, interactions)
	if err != nil {
		return model.OADesign{}, err
	}
	design, entry, ok := oa.Lookup(designation)
	if !ok {
		return model.OADesign{}, model.NewDesignError("recommended OA %q not found in catalog", designation)
	}
	assignments, err := assignColumns(design, entry, factors, interactions)
	if err != nil {
		return model.OADesign{}, err
	}
	design.ColumnAssignments = assignments
	return design, nil
}
