package effects

import (
	"math"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

const optimalEpsilon = 1e-6

// searchOptimal implements spec.md §4.5 "Optimal configuration search":
// start from each factor's best-S/N level, then for each interaction score
// every observed (level_a, level_b) cell of its grid and swap in the pair
// with the largest combined interaction + main-effect delta, until a full
// pass makes no change or the iteration bound is hit.
func searchOptimal(design model.OADesign, factors []model.Factor, interactions []model.Interaction, byName map[string]model.Factor, snByLevel map[string][]float64, interactionSN map[string][][]float64) map[string]int {
	current := map[string]int{}
	for _, f := range factors {
		current[f.Name] = bestLevel(snByLevel[f.Name])
	}
	if len(interactions) == 0 {
		return current
	}

	maxPasses := 2 * len(factors)
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, it := range interactions {
			grid, ok := interactionSN[it.Key()]
			if !ok {
				continue
			}
			af, bf := byName[it.First], byName[it.Second]
			curA, curB := current[it.First], current[it.Second]
			bestA, bestB, bestScore := curA, curB, math.Inf(-1)

			for a := 0; a < af.LevelCount(); a++ {
				for b := 0; b < bf.LevelCount(); b++ {
					if a >= len(grid) || b >= len(grid[a]) || math.IsNaN(grid[a][b]) {
						continue
					}
					deltaInt := grid[a][b] - safeAt(grid, curA, curB)
					deltaMain := (safeAt1(snByLevel[it.First], a) - safeAt1(snByLevel[it.First], curA)) +
						(safeAt1(snByLevel[it.Second], b) - safeAt1(snByLevel[it.Second], curB))
					score := deltaInt + deltaMain
					if score > bestScore {
						bestScore = score
						bestA, bestB = a, b
					}
				}
			}
			if bestScore > optimalEpsilon && (bestA != curA || bestB != curB) {
				current[it.First] = bestA
				current[it.Second] = bestB
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return current
}

// bestLevel returns the index of the highest S/N level, tie-breaking on the
// lowest (0-based) index/symbol.
func bestLevel(sn []float64) int {
	best := 0
	bestVal := math.Inf(-1)
	for i, v := range sn {
		if math.IsNaN(v) {
			continue
		}
		if v > bestVal {
			bestVal = v
			best = i
		}
	}
	return best
}

func safeAt(grid [][]float64, a, b int) float64 {
	if a < 0 || a >= len(grid) || b < 0 || b >= len(grid[a]) {
		return 0
	}
	if math.IsNaN(grid[a][b]) {
		return 0
	}
	return grid[a][b]
}

func safeAt1(levels []float64, i int) float64 {
	if i < 0 || i >= len(levels) || math.IsNaN(levels[i]) {
		return 0
	}
	return levels[i]
}
