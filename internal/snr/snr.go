// Package snr computes Signal-to-Noise ratios under the three Taguchi
// optimization modes (spec.md §4.4).
package snr

import (
	"math"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

// Saturation is the dB value returned for degenerate (near-zero-error)
// inputs, clamping what would otherwise diverge to +/-Inf.
const Saturation = 200.0

// clampEpsilon is the floor applied to near-zero raw values before they're
// squared or reciprocated.
const clampEpsilon = 1e-9

// Calculate dispatches to the S/N formula for metric.Mode over the non-NaN
// values in y. Returns NaN if every value is NaN (or y is empty).
func Calculate(metric model.MetricDefinition, y []float64) float64 {
	values := nonNaN(y)
	if len(values) == 0 {
		return math.NaN()
	}
	switch metric.Mode {
	case model.LargerIsBetter:
		return largerIsBetter(values)
	case model.SmallerIsBetter:
		return smallerIsBetter(values)
	case model.Nominal:
		return nominal(values, metric.Target)
	default:
		return math.NaN()
	}
}

func nonNaN(y []float64) []float64 {
	out := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// largerIsBetter: SN = -10*log10( mean(1/y_i^2) ), near-zero y clamped.
func largerIsBetter(y []float64) float64 {
	sum := 0.0
	for _, v := range y {
		v = clamp(v)
		sum += 1 / (v * v)
	}
	msd := sum / float64(len(y))
	if msd <= 0 {
		return Saturation
	}
	sn := -10 * math.Log10(msd)
	return saturate(sn)
}

// smallerIsBetter: SN = -10*log10( mean(y_i^2) ).
func smallerIsBetter(y []float64) float64 {
	sum := 0.0
	for _, v := range y {
		sum += v * v
	}
	msd := sum / float64(len(y))
	if msd <= 1e-18 {
		return Saturation
	}
	sn := -10 * math.Log10(msd)
	return saturate(sn)
}

// nominal: SN = -10*log10( mean((y_i-target)^2) ), per the documented
// open-question resolution (spec.md §9): MSD-form, not the classical
// 10*log10(mu^2/sigma^2).
func nominal(y []float64, target float64) float64 {
	sum := 0.0
	for _, v := range y {
		d := v - target
		sum += d * d
	}
	msd := sum / float64(len(y))
	if msd <= 1e-18 {
		return Saturation
	}
	sn := -10 * math.Log10(msd)
	return saturate(sn)
}

func clamp(v float64) float64 {
	if v >= 0 && v < clampEpsilon {
		return clampEpsilon
	}
	if v < 0 && v > -clampEpsilon {
		return -clampEpsilon
	}
	return v
}

func saturate(sn float64) float64 {
	if sn > Saturation {
		return Saturation
	}
	if sn < -Saturation {
		return -Saturation
	}
	return sn
}

// InvertLargerIsBetter converts an S/N ratio back to the original scale for
// a larger-is-better metric: y = 10^(SN/20).
func InvertLargerIsBetter(sn float64) float64 {
	return math.Pow(10, sn/20)
}

// InvertSmallerIsBetter converts an S/N ratio back to the original scale for
// a smaller-is-better metric: y = 10^(-SN/20).
func InvertSmallerIsBetter(sn float64) float64 {
	return math.Pow(10, -sn/20)
}

// InvertNominalScale inverts a margin (not a point value) on the S/N scale
// back to raw units for a nominal-is-best metric, per spec.md §4.7 step 6:
// sqrt(10^(-SN/10)).
func InvertNominalScale(sn float64) float64 {
	return math.Sqrt(math.Pow(10, -sn/10))
}
