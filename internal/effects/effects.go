// Package effects computes main and interaction effect tables on the S/N
// and raw scales, and searches for the optimal factor-level combination
// under interactions (spec.md §4.5).
package effects

import (
	"math"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

// Analyze computes main effects (S/N and raw), interaction effects (S/N
// only), and the optimal configuration for one metric's per-row data.
func Analyze(design model.OADesign, factors []model.Factor, interactions []model.Interaction, snByRun, rawMeanByRun []float64) model.EffectsResult {
	result := model.EffectsResult{
		SNByLevel:     map[string][]float64{},
		RawByLevel:    map[string][]float64{},
		InteractionSN: map[string][][]float64{},
		OptimalLevels: map[string]int{},
	}

	for _, f := range factors {
		col, ok := design.ColumnAssignments[f.Name]
		if !ok {
			continue
		}
		result.SNByLevel[f.Name] = meansByLevel(design, col, f.LevelCount(), snByRun)
		result.RawByLevel[f.Name] = meansByLevel(design, col, f.LevelCount(), rawMeanByRun)
	}

	byName := map[string]model.Factor{}
	for _, f := range factors {
		byName[f.Name] = f
	}
	for _, it := range interactions {
		colA, okA := design.ColumnAssignments[it.First]
		colB, okB := design.ColumnAssignments[it.Second]
		if !okA || !okB {
			continue
		}
		la := byName[it.First].LevelCount()
		lb := byName[it.Second].LevelCount()
		result.InteractionSN[it.Key()] = interactionMeans(design, colA, colB, la, lb, snByRun)
	}

	result.OptimalLevels = searchOptimal(design, factors, interactions, byName, result.SNByLevel, result.InteractionSN)
	return result
}

// meansByLevel averages values over rows whose column cell equals each
// 1..levelCount symbol, returning a 0-indexed slice of level means. A level
// with no observing rows reports NaN.
func meansByLevel(design model.OADesign, col, levelCount int, values []float64) []float64 {
	sums := make([]float64, levelCount)
	counts := make([]int, levelCount)
	for r, row := range design.Matrix {
		if r >= len(values) || math.IsNaN(values[r]) {
			continue
		}
		symbol := row[col]
		if symbol < 1 || symbol > levelCount {
			continue
		}
		sums[symbol-1] += values[r]
		counts[symbol-1]++
	}
	out := make([]float64, levelCount)
	for i := range out {
		if counts[i] > 0 {
			out[i] = sums[i] / float64(counts[i])
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// interactionMeans returns a [levelA][levelB] grid of mean S/N for every
// observed (level_a, level_b) combination, NaN where unobserved.
func interactionMeans(design model.OADesign, colA, colB, la, lb int, snByRun []float64) [][]float64 {
	sums := make([][]float64, la)
	counts := make([][]int, la)
	for i := range sums {
		sums[i] = make([]float64, lb)
		counts[i] = make([]int, lb)
	}
	for r, row := range design.Matrix {
		if r >= len(snByRun) || math.IsNaN(snByRun[r]) {
			continue
		}
		a, b := row[colA]-1, row[colB]-1
		if a < 0 || a >= la || b < 0 || b >= lb {
			continue
		}
		sums[a][b] += snByRun[r]
		counts[a][b]++
	}
	out := make([][]float64, la)
	for a := range out {
		out[a] = make([]float64, lb)
		for b := range out[a] {
			if counts[a][b] > 0 {
				out[a][b] = sums[a][b] / float64(counts[a][b])
			} else {
				out[a][b] = math.NaN()
			}
		}
	}
	return out
}
