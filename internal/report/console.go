// Package report renders a completed ExperimentState to HTML, Markdown,
// and a terminal summary, per spec.md §4's Report Renderers component.
package report

import (
	"fmt"
	"io"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

// PrintConsoleSummary writes a terse, multi-metric summary to w, the console
// generalization of the teacher's PrintAnalysisReport: one section per
// MetricReport instead of a single implicit metric.
func PrintConsoleSummary(w io.Writer, state model.ExperimentState) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "        TAGUCHI ANALYSIS REPORT")
	fmt.Fprintln(w, "========================================")

	for _, report := range state.Reports {
		printMetricSummary(w, report)
	}
}

func printMetricSummary(w io.Writer, r model.MetricReport) {
	fmt.Fprintf(w, "\nMetric: %s (%s)\n", r.Metric.Name, r.Metric.Mode)
	fmt.Fprintln(w, "----------------------------------------")

	fmt.Fprintln(w, "1. Optimal Factor Levels")
	for factor, idx := range r.Effects.OptimalLevels {
		fmt.Fprintf(w, "  - %s: level %d\n", factor, idx+1)
	}

	fmt.Fprintln(w, "2. Main Effects (mean S/N per level)")
	for factor, levels := range r.Effects.SNByLevel {
		fmt.Fprintf(w, "  %s:\n", factor)
		for i, val := range levels {
			fmt.Fprintf(w, "    Level %d: %.4f\n", i+1, val)
		}
	}

	fmt.Fprintln(w, "3. ANOVA")
	table := r.InitialANOVA
	if r.PooledANOVA != nil {
		table = *r.PooledANOVA
	}
	fmt.Fprintf(w, "%-15s %-12s %-6s %-10s %-10s %-8s %-8s\n", "Source", "SS", "DF", "MS", "F", "P", "Contrib%")
	for _, s := range table.Sources {
		pooledTag := ""
		if s.Pooled {
			pooledTag = " (pooled)"
		}
		fmt.Fprintf(w, "%-15s %-12.4f %-6d %-10.4f %-10.4f %-8.4f %-8.2f%s\n",
			s.Name, s.SS, s.DF, s.MS, s.F, s.P, s.Contribution, pooledTag)
	}
	fmt.Fprintf(w, "%-15s %-12.4f %-6d %-10.4f\n", "Error", table.Error.SS, table.Error.DF, table.Error.MS)
	fmt.Fprintf(w, "%-15s %-12.4f %-6d\n", "Total", table.Total.SS, table.Total.DF)

	fmt.Fprintln(w, "4. Prediction at Optimal Configuration")
	p := r.Prediction
	fmt.Fprintf(w, "  Predicted S/N: %.4f  [%.4f, %.4f]\n", p.PredictedSN, p.SNLower, p.SNUpper)
	fmt.Fprintf(w, "  Predicted raw: %.4f  [%.4f, %.4f]\n", p.PredictedRaw, p.RawLower, p.RawUpper)
	for _, note := range p.Notes {
		fmt.Fprintf(w, "  note: %s\n", note)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "5. Warnings")
		for _, warn := range r.Warnings {
			if warn.Source != "" {
				fmt.Fprintf(w, "  [%s] %s\n", warn.Source, warn.Message)
			} else {
				fmt.Fprintf(w, "  %s\n", warn.Message)
			}
		}
	}
}
