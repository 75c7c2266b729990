package config

import (
	"math"
	"strconv"
)

// expandLevels implements spec.md §6's range-expansion rule: floatRange ->
// 3 equidistant levels for control factors, 2 for noise; intRange the same,
// rounded, reduced when the integer span can't supply the desired count.
func expandLevels(fc FactorConfig, isNoise bool) ([]string, error) {
	if len(fc.Levels) > 0 {
		return fc.Levels, nil
	}
	desired := 3
	if isNoise {
		desired = 2
	}
	if len(fc.FloatRange) == 2 {
		return expandFloatRange(fc.FloatRange[0], fc.FloatRange[1], desired), nil
	}
	if len(fc.IntRange) == 2 {
		return expandIntRange(fc.IntRange[0], fc.IntRange[1], desired), nil
	}
	return nil, nil // caller (Validate) reports the "none supplied" error
}

func expandFloatRange(min, max float64, desired int) []string {
	out := make([]string, desired)
	if desired == 1 {
		out[0] = formatFloat(min)
		return out
	}
	step := (max - min) / float64(desired-1)
	for i := 0; i < desired; i++ {
		out[i] = formatFloat(min + step*float64(i))
	}
	return out
}

func expandIntRange(min, max, desired int) []string {
	available := max - min + 1
	if available < desired {
		desired = available
	}
	if desired < 1 {
		desired = 1
	}
	out := make([]string, desired)
	if desired == 1 {
		out[0] = strconv.Itoa(min)
		return out
	}
	step := float64(max-min) / float64(desired-1)
	for i := 0; i < desired; i++ {
		v := int(math.Round(float64(min) + step*float64(i)))
		out[i] = strconv.Itoa(v)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
