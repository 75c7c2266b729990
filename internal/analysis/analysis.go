// Package analysis orchestrates the per-metric pipeline (S/N, effects,
// ANOVA, prediction) over a completed RawMetricsStore, producing the
// MetricReport union described in spec.md §2's data-flow summary. The four
// stages are pure over the store and may run in any order per metric,
// parallelized with a bounded worker pool per SPEC_FULL.md §5.
package analysis

import (
	"math"
	"strconv"
	"sync"

	"github.com/marijaaleksic/taguchi-engine/internal/anova"
	"github.com/marijaaleksic/taguchi-engine/internal/effects"
	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"github.com/marijaaleksic/taguchi-engine/internal/predict"
	"github.com/marijaaleksic/taguchi-engine/internal/snr"
)

// DefaultWorkerLimit bounds how many metric analyses run concurrently.
const DefaultWorkerLimit = 4

// Run computes a MetricReport for every configured metric, using a bounded
// semaphore so large metric counts don't spawn unbounded goroutines — the
// same pattern the pack's grid-search optimizer uses for parallel backtests.
func Run(design model.OADesign, factors []model.Factor, interactions []model.Interaction, metrics []model.MetricDefinition, raw model.RawMetricsStore, poolingThresholdPercent float64, workerLimit int) []model.MetricReport {
	if workerLimit <= 0 {
		workerLimit = DefaultWorkerLimit
	}
	reports := make([]model.MetricReport, len(metrics))
	sem := make(chan struct{}, workerLimit)
	var wg sync.WaitGroup

	for i, m := range metrics {
		wg.Add(1)
		go func(i int, m model.MetricDefinition) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			reports[i] = AnalyzeMetric(design, factors, interactions, m, raw, poolingThresholdPercent)
		}(i, m)
	}
	wg.Wait()
	return reports
}

// AnalyzeMetric runs the full S/N -> effects -> ANOVA -> pooling ->
// prediction pipeline for a single metric.
func AnalyzeMetric(design model.OADesign, factors []model.Factor, interactions []model.Interaction, metric model.MetricDefinition, raw model.RawMetricsStore, poolingThresholdPercent float64) model.MetricReport {
	runs := design.Runs()
	snByRun := make([]float64, runs)
	rawMeanByRun := make([]float64, runs)
	var warnings []model.AnalysisWarning

	for r := 0; r < runs; r++ {
		values := raw.Values(r, metric.Name)
		snByRun[r] = snr.Calculate(metric, values)
		rawMeanByRun[r] = meanOf(values)
		if len(values) == 0 {
			warnings = append(warnings, model.AnalysisWarning{Message: "run " + strconv.Itoa(r) + " produced no usable observations for this metric"})
		}
	}

	effectsResult := effects.Analyze(design, factors, interactions, snByRun, rawMeanByRun)

	initial, initWarnings := anova.Build(design, factors, interactions, snByRun)
	warnings = append(warnings, initWarnings...)

	threshold := poolingThresholdPercent
	if threshold <= 0 {
		threshold = anova.DefaultPoolingThresholdPercent
	}
	pooled, poolWarnings := anova.Pool(initial, threshold)
	warnings = append(warnings, poolWarnings...)

	chosen := initial
	if pooled != nil {
		chosen = *pooled
	}

	effectEstimates := anova.EffectEstimates(design, factors, interactions, snByRun)

	prediction := predict.Predict(predict.Inputs{
		Metric:        metric,
		Design:        design,
		Factors:       factors,
		Interactions:  interactions,
		OptimalLevels: effectsResult.OptimalLevels,
		SNByRun:       snByRun,
		RawMeanByRun:  rawMeanByRun,
		SNByLevel:     effectsResult.SNByLevel,
		InteractionSN: effectsResult.InteractionSN,
		ANOVA:         chosen,
	})

	return model.MetricReport{
		Metric:          metric,
		SNByRun:         snByRun,
		RawMeanByRun:    rawMeanByRun,
		Effects:         effectsResult,
		InitialANOVA:    initial,
		PooledANOVA:     pooled,
		EffectEstimates: effectEstimates,
		Prediction:      prediction,
		Warnings:        warnings,
	}
}

func meanOf(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
