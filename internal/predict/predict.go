// Package predict implements the Taguchi additive prediction of optimal
// configuration performance with a t-based confidence interval, and the
// inverse S/N transform back to the metric's original scale (spec.md §4.7).
package predict

import (
	"math"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"github.com/marijaaleksic/taguchi-engine/internal/snr"
	"gonum.org/v1/gonum/stat/distuv"
)

const confidenceAlpha = 0.05

// Inputs bundles everything the Predictor needs for one metric.
type Inputs struct {
	Metric        model.MetricDefinition
	Design        model.OADesign
	Factors       []model.Factor
	Interactions  []model.Interaction
	OptimalLevels map[string]int
	SNByRun       []float64
	RawMeanByRun  []float64
	SNByLevel     map[string][]float64
	InteractionSN map[string][][]float64
	ANOVA         model.ANOVATable // the pooled table if one exists, else the initial table
}

// Predict implements spec.md §4.7 steps 1-8.
func Predict(in Inputs) model.PredictionResult {
	valid := nonNaNValues(in.SNByRun)
	if len(valid) == 0 {
		return fallback(in, "no valid S/N values: falling back to raw-value means")
	}

	mu := mean(valid)
	sn := mu
	dfModel := 1
	var notes []string

	byName := map[string]model.Factor{}
	for _, f := range in.Factors {
		byName[f.Name] = f
	}

	significantInteractions := map[string]bool{}
	for _, src := range in.ANOVA.Sources {
		if !src.Significant || src.Pooled {
			continue
		}
		if grid, ok := in.InteractionSN[src.Name]; ok {
			it := splitInteractionKey(src.Name)
			if it == nil {
				continue
			}
			a, b := in.OptimalLevels[it.First], in.OptimalLevels[it.Second]
			if a < len(grid) && b < len(grid[a]) && !math.IsNaN(grid[a][b]) {
				sn += grid[a][b] - mu
				dfModel += src.DF
				significantInteractions[src.Name] = true
			}
			continue
		}
		levels, ok := in.SNByLevel[src.Name]
		if !ok {
			continue
		}
		level := in.OptimalLevels[src.Name]
		if level < len(levels) && !math.IsNaN(levels[level]) {
			sn += levels[level] - mu
			dfModel += src.DF
		}
	}

	dfErr := in.ANOVA.Error.DF
	msErr := in.ANOVA.Error.MS
	if dfErr <= 0 || math.IsNaN(msErr) || msErr <= 0 {
		return fallbackWithPoint(in, sn, "no valid error term available for a confidence interval")
	}

	nEff := float64(len(in.Design.Matrix)) / float64(dfModel)
	tCrit := invertT(1-confidenceAlpha/2, float64(dfErr))
	margin := tCrit * math.Sqrt(msErr/nEff)

	result := model.PredictionResult{
		PredictedSN: sn,
		SNLower:     sn - margin,
		SNUpper:     sn + margin,
		DFModel:     dfModel,
		DFError:     dfErr,
		NEff:        nEff,
		Notes:       notes,
	}
	invertToRawScale(&result, in.Metric)
	return result
}

func invertToRawScale(result *model.PredictionResult, metric model.MetricDefinition) {
	switch metric.Mode {
	case model.LargerIsBetter:
		result.PredictedRaw = snr.InvertLargerIsBetter(result.PredictedSN)
		result.RawLower = snr.InvertLargerIsBetter(result.SNLower)
		result.RawUpper = snr.InvertLargerIsBetter(result.SNUpper)
	case model.SmallerIsBetter:
		result.PredictedRaw = snr.InvertSmallerIsBetter(result.PredictedSN)
		// Inversion reverses bound ordering for smaller-is-better: the
		// optimistic (lower raw) side corresponds to the higher S/N bound.
		result.RawLower = snr.InvertSmallerIsBetter(result.SNUpper)
		result.RawUpper = snr.InvertSmallerIsBetter(result.SNLower)
		result.Notes = append(result.Notes, "original-scale bounds re-sorted after inversion; lower corresponds to the optimistic (high-S/N) side")
	case model.Nominal:
		result.PredictedRaw = metric.Target
		scale := snr.InvertNominalScale(result.PredictedSN)
		result.RawLower = metric.Target - scale
		result.RawUpper = metric.Target + scale
	}
}

func fallback(in Inputs, note string) model.PredictionResult {
	return fallbackWithPoint(in, math.NaN(), note)
}

// fallbackWithPoint implements spec.md §4.7 step 8: when no valid error
// term/ANOVA/S.N exists, predict from (a) the mean of raw values of runs
// matching the optimal configuration, or (b) the grand mean of raw values.
func fallbackWithPoint(in Inputs, sn float64, note string) model.PredictionResult {
	matching := rawMeansAtOptimal(in)
	var predictedRaw float64
	var notes []string
	if len(matching) > 0 {
		predictedRaw = mean(matching)
		notes = append(notes, note, "predicted from raw values of runs matching the optimal configuration")
	} else {
		predictedRaw = mean(nonNaNValues(in.RawMeanByRun))
		notes = append(notes, note, "predicted from the grand mean of raw values (no run matched the optimal configuration)")
	}
	return model.PredictionResult{
		PredictedSN:  sn,
		SNLower:      math.NaN(),
		SNUpper:      math.NaN(),
		PredictedRaw: predictedRaw,
		RawLower:     predictedRaw,
		RawUpper:     predictedRaw,
		DFModel:      0,
		DFError:      0,
		NEff:         math.NaN(),
		Notes:        notes,
	}
}

func rawMeansAtOptimal(in Inputs) []float64 {
	var out []float64
	for r, row := range in.Design.Matrix {
		if r >= len(in.RawMeanByRun) || math.IsNaN(in.RawMeanByRun[r]) {
			continue
		}
		match := true
		for name, level := range in.OptimalLevels {
			col, ok := in.Design.ColumnAssignments[name]
			if !ok {
				continue
			}
			f, ok := lookupFactor(in.Factors, name)
			if !ok {
				continue
			}
			if level < 0 || level >= f.LevelCount() {
				match = false
				break
			}
			if row[col] != level+1 {
				match = false
				break
			}
		}
		if match {
			out = append(out, in.RawMeanByRun[r])
		}
	}
	return out
}

func lookupFactor(factors []model.Factor, name string) (model.Factor, bool) {
	for _, f := range factors {
		if f.Name == name {
			return f, true
		}
	}
	return model.Factor{}, false
}

func nonNaNValues(v []float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// invertT finds the t critical value by bisecting distuv.StudentsT's CDF,
// per SPEC_FULL.md §4.6/4.7 (distuv exposes no closed-form quantile).
func invertT(p, dfErr float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dfErr}
	lo, hi := 0.0, 1000.0
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if dist.CDF(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

type interactionKey struct{ First, Second string }

// splitInteractionKey parses an "A*B" canonical key back into operand
// names; returns nil for a plain main-factor name (no "*").
func splitInteractionKey(key string) *interactionKey {
	for i := 0; i < len(key); i++ {
		if key[i] == '*' {
			return &interactionKey{First: key[:i], Second: key[i+1:]}
		}
	}
	return nil
}
