// Package anova implements the sum-of-squares decomposition, F/p tests,
// pooling strategy, and 2-level effect estimates of spec.md §4.6.
package anova

import (
	"math"
	"sort"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"gonum.org/v1/gonum/stat/distuv"
)

const negativeSSClamp = 1e-9
const zeroErrorVarianceThreshold = 1e-12
const significanceAlpha = 0.05

// source is the internal working representation of one ANOVA row before
// it's converted to model.ANOVASource (F/p require the error term, computed
// after every source's SS/DF is known).
type source struct {
	name string
	ss   float64
	df   int
}

// Build computes the initial ANOVA table for one metric's per-row S/N
// vector, given the factors and interactions assigned onto design's
// columns. NaN entries in sn are excluded when forming the correction
// factor and totals, matching the NaN-skip semantics spec.md mandates
// throughout.
func Build(design model.OADesign, factors []model.Factor, interactions []model.Interaction, sn []float64) (model.ANOVATable, []model.AnalysisWarning) {
	valid := validIndices(sn)
	nValid := len(valid)
	grandSum := 0.0
	for _, i := range valid {
		grandSum += sn[i]
	}
	var mean float64
	if nValid > 0 {
		mean = grandSum / float64(nValid)
	}

	ssTotal := 0.0
	for _, i := range valid {
		d := sn[i] - mean
		ssTotal += d * d
	}
	dfTotal := nValid - 1

	byName := map[string]model.Factor{}
	for _, f := range factors {
		byName[f.Name] = f
	}

	var sources []source
	for _, f := range factors {
		col, ok := design.ColumnAssignments[f.Name]
		if !ok {
			continue
		}
		ss := columnSS(design, col, f.LevelCount(), sn)
		sources = append(sources, source{name: f.Name, ss: ss, df: f.LevelCount() - 1})
	}
	for _, it := range interactions {
		colA, okA := design.ColumnAssignments[it.Key()]
		if !okA {
			continue // interaction wasn't assignable; skip silently, Design Builder already errored if required
		}
		la := byName[it.First].LevelCount()
		lb := byName[it.Second].LevelCount()
		ss := columnSS(design, colA, la, sn)
		if colB, okB := design.ColumnAssignments[it.Comp2Key()]; okB {
			ss += columnSS(design, colB, lb, sn)
		}
		sources = append(sources, source{name: it.Key(), ss: ss, df: (la - 1) * (lb - 1)})
	}

	ssSources := 0.0
	dfSources := 0
	for _, s := range sources {
		ssSources += s.ss
		dfSources += s.df
	}
	ssErr := ssTotal - ssSources
	dfErr := dfTotal - dfSources

	var warnings []model.AnalysisWarning
	if ssErr < 0 {
		if math.Abs(ssErr) < negativeSSClamp {
			ssErr = 0
		} else {
			warnings = append(warnings, model.AnalysisWarning{Message: "negative error sum of squares rounded to zero was too large to clamp safely"})
		}
	}

	msErr := math.NaN()
	saturated := dfErr <= 0
	if !saturated {
		msErr = ssErr / float64(dfErr)
	}
	zeroVariance := !saturated && msErr < zeroErrorVarianceThreshold
	if saturated {
		warnings = append(warnings, model.AnalysisWarning{Message: "saturated design: zero error degrees of freedom"})
	}
	if zeroVariance {
		warnings = append(warnings, model.AnalysisWarning{Message: "zero or near-zero error variance"})
	}

	rows := make([]model.ANOVASource, len(sources))
	for i, s := range sources {
		rows[i] = buildRow(s, msErr, dfErr, ssTotal, saturated, zeroVariance, &warnings)
	}

	errorRow := model.ANOVASource{Name: "Error", SS: ssErr, DF: dfErr, MS: msErr, F: math.NaN(), P: math.NaN()}
	totalRow := model.ANOVASource{Name: "Total", SS: ssTotal, DF: dfTotal, F: math.NaN(), P: math.NaN()}

	table := model.ANOVATable{Sources: rows, Error: errorRow, Total: totalRow}
	return table, warnings
}

func buildRow(s source, msErr float64, dfErr int, ssTotal float64, saturated, zeroVariance bool, warnings *[]model.AnalysisWarning) model.ANOVASource {
	ms := 0.0
	if s.df > 0 {
		ms = s.ss / float64(s.df)
	}
	row := model.ANOVASource{Name: s.name, SS: s.ss, DF: s.df, MS: ms, F: math.NaN(), P: math.NaN(), Contribution: math.NaN()}

	if ssTotal > 0 {
		row.Contribution = 100 * s.ss / ssTotal
	}

	if saturated || zeroVariance {
		return row
	}

	f := ms / msErr
	p := 1 - distuv.F{D1: float64(s.df), D2: float64(dfErr)}.CDF(f)
	row.F = f
	row.P = p
	row.Significant = p < significanceAlpha
	if math.IsNaN(p) {
		*warnings = append(*warnings, model.AnalysisWarning{Source: s.name, Message: "p-value is NaN due to an extreme F statistic"})
	}
	return row
}

func validIndices(sn []float64) []int {
	var out []int
	for i, v := range sn {
		if !math.IsNaN(v) {
			out = append(out, i)
		}
	}
	return out
}

// columnSS computes Σ_levels (sum_of_sn_in_rows_where_cell==level)^2/count -
// CF, with CF folded in at the caller via the overall mean subtraction: this
// helper instead directly computes the SS contribution of one column using
// the level-mean decomposition (equivalent to spec.md's CF form since both
// reduce to Σ count_l*(levelMean_l - grandMean)^2).
func columnSS(design model.OADesign, col, levelCount int, sn []float64) float64 {
	sums := make([]float64, levelCount)
	counts := make([]int, levelCount)
	grandSum, grandCount := 0.0, 0
	for r, row := range design.Matrix {
		if r >= len(sn) || math.IsNaN(sn[r]) {
			continue
		}
		symbol := row[col]
		if symbol < 1 || symbol > levelCount {
			continue
		}
		sums[symbol-1] += sn[r]
		counts[symbol-1]++
		grandSum += sn[r]
		grandCount++
	}
	if grandCount == 0 {
		return 0
	}
	grandMean := grandSum / float64(grandCount)
	ss := 0.0
	for l := 0; l < levelCount; l++ {
		if counts[l] == 0 {
			continue
		}
		d := sums[l]/float64(counts[l]) - grandMean
		ss += float64(counts[l]) * d * d
	}
	return ss
}

// EffectEstimates implements spec.md §4.6 "Effect estimates": for 2-level
// factors and 2x2 interactions only, effect = mean(SN|col=2) -
// mean(SN|col=1), sorted by descending absolute magnitude.
func EffectEstimates(design model.OADesign, factors []model.Factor, interactions []model.Interaction, sn []float64) []model.EffectEstimate {
	byName := map[string]model.Factor{}
	for _, f := range factors {
		byName[f.Name] = f
	}

	var out []model.EffectEstimate
	for _, f := range factors {
		if f.LevelCount() != 2 {
			continue
		}
		col := design.ColumnAssignments[f.Name]
		out = append(out, model.EffectEstimate{Name: f.Name, Effect: twoLevelEffect(design, col, sn)})
	}
	for _, it := range interactions {
		if byName[it.First].LevelCount() != 2 || byName[it.Second].LevelCount() != 2 {
			continue
		}
		col, ok := design.ColumnAssignments[it.Key()]
		if !ok {
			continue
		}
		out = append(out, model.EffectEstimate{Name: it.Key(), Effect: twoLevelEffect(design, col, sn)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Effect) > math.Abs(out[j].Effect)
	})
	return out
}

func twoLevelEffect(design model.OADesign, col int, sn []float64) float64 {
	means := [2]float64{}
	counts := [2]int{}
	for r, row := range design.Matrix {
		if r >= len(sn) || math.IsNaN(sn[r]) {
			continue
		}
		symbol := row[col]
		if symbol < 1 || symbol > 2 {
			continue
		}
		means[symbol-1] += sn[r]
		counts[symbol-1]++
	}
	for i := range means {
		if counts[i] > 0 {
			means[i] /= float64(counts[i])
		}
	}
	return means[1] - means[0]
}
