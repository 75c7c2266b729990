package anova

import (
	"math"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultPoolingThresholdPercent is the 5% contribution ceiling spec.md §4.6
// uses when no explicit configuration overrides it.
const DefaultPoolingThresholdPercent = 5.0

// Pool implements spec.md §4.6 "Pooled ANOVA": if no source is initially
// significant, pool only the single smallest-F (or smallest-contribution,
// when the error term is saturated) source into error; otherwise pool every
// non-significant source whose contribution is strictly below
// thresholdPercent. Returns (nil, nil) if nothing meets either criterion.
func Pool(initial model.ANOVATable, thresholdPercent float64) (*model.ANOVATable, []model.AnalysisWarning) {
	anySignificant := false
	for _, s := range initial.Sources {
		if s.Significant {
			anySignificant = true
			break
		}
	}

	var toPool []model.ANOVASource
	var kept []model.ANOVASource

	if !anySignificant {
		victim := smallestSource(initial.Sources, initial.Error.MS > 0 && !math.IsNaN(initial.Error.MS))
		for _, s := range initial.Sources {
			if s.Name == victim.Name {
				toPool = append(toPool, s)
			} else {
				kept = append(kept, s)
			}
		}
	} else {
		for _, s := range initial.Sources {
			if !s.Significant && s.Contribution < thresholdPercent {
				toPool = append(toPool, s)
			} else {
				kept = append(kept, s)
			}
		}
	}

	if len(toPool) == 0 {
		return nil, nil
	}

	pooledSS := initial.Error.SS
	pooledDF := initial.Error.DF
	for _, s := range toPool {
		pooledSS += s.SS
		pooledDF += s.DF
	}

	pooledErr := model.ANOVASource{Name: "Error (Pooled)", SS: pooledSS, DF: pooledDF}
	var warnings []model.AnalysisWarning
	saturated := pooledDF <= 0
	var msErr float64
	if saturated {
		msErr = math.NaN()
		warnings = append(warnings, model.AnalysisWarning{Message: "pooled error term is still saturated"})
	} else {
		msErr = pooledSS / float64(pooledDF)
	}
	pooledErr.MS = msErr

	rows := make([]model.ANOVASource, len(kept))
	for i, s := range kept {
		row := s
		if !saturated && !math.IsNaN(msErr) && msErr >= zeroErrorVarianceThreshold {
			row.F = s.MS / msErr
			row.P = 1 - distuv.F{D1: float64(s.DF), D2: float64(pooledDF)}.CDF(row.F)
			row.Significant = row.P < significanceAlpha
		} else {
			row.F = math.NaN()
			row.P = math.NaN()
			row.Significant = false
		}
		rows[i] = row
	}
	for _, s := range toPool {
		marked := s
		marked.Pooled = true
		marked.F = math.NaN()
		marked.P = math.NaN()
		marked.Significant = false
		rows = append(rows, marked)
	}

	pooledTable := model.ANOVATable{
		Sources: rows,
		Error:   pooledErr,
		Total:   initial.Total,
		Pooled:  true,
	}
	return &pooledTable, warnings
}

// smallestSource picks the source with smallest F (byF true) or smallest
// contribution (byF false, used when error is saturated and F is
// meaningless).
func smallestSource(sources []model.ANOVASource, byF bool) model.ANOVASource {
	if len(sources) == 0 {
		return model.ANOVASource{}
	}
	best := sources[0]
	bestKey := rankKey(best, byF)
	for _, s := range sources[1:] {
		k := rankKey(s, byF)
		if k < bestKey {
			best = s
			bestKey = k
		}
	}
	return best
}

func rankKey(s model.ANOVASource, byF bool) float64 {
	if byF && !math.IsNaN(s.F) {
		return s.F
	}
	return s.Contribution
}
