package analysis

import (
	"testing"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

func l4DesignWithA() model.OADesign {
	return model.OADesign{
		Designation:       "L4",
		Matrix:            [][]int{{1}, {1}, {2}, {2}},
		ColumnAssignments: map[string]int{"A": 0},
	}
}

func oneFactor() []model.Factor {
	return []model.Factor{{Name: "A", Values: []string{"lo", "hi"}, CLIArg: "--a"}}
}

func TestAnalyzeMetric_ProducesAFullReport(t *testing.T) {
	design := l4DesignWithA()
	factors := oneFactor()
	metric := model.MetricDefinition{Name: "Time", Mode: model.SmallerIsBetter}

	var raw model.RawMetricsStore
	raw.AppendRep(0, map[string]float64{"Time": 5})
	raw.AppendRep(1, map[string]float64{"Time": 5})
	raw.AppendRep(2, map[string]float64{"Time": 1})
	raw.AppendRep(3, map[string]float64{"Time": 1})

	report := AnalyzeMetric(design, factors, nil, metric, raw, 0)
	if report.Metric.Name != "Time" {
		t.Errorf("Metric.Name = %q, want Time", report.Metric.Name)
	}
	if len(report.SNByRun) != 4 {
		t.Fatalf("SNByRun = %v, want 4 entries", report.SNByRun)
	}
	if report.Effects.OptimalLevels["A"] != 1 {
		t.Errorf("OptimalLevels[A] = %d, want 1 (A=2 gives lower, better, Time)", report.Effects.OptimalLevels["A"])
	}
}

func TestAnalyzeMetric_MissingRunWarns(t *testing.T) {
	design := l4DesignWithA()
	factors := oneFactor()
	metric := model.MetricDefinition{Name: "Time", Mode: model.SmallerIsBetter}

	var raw model.RawMetricsStore
	raw.AppendRep(0, map[string]float64{"Time": 5})
	// runs 1,2,3 left entirely unobserved

	report := AnalyzeMetric(design, factors, nil, metric, raw, 0)
	if len(report.Warnings) == 0 {
		t.Error("expected at least one warning for runs with no usable observations")
	}
}

func TestRun_ProducesOneReportPerMetricInOrder(t *testing.T) {
	design := l4DesignWithA()
	factors := oneFactor()
	metrics := []model.MetricDefinition{
		{Name: "Time", Mode: model.SmallerIsBetter},
		{Name: "Throughput", Mode: model.LargerIsBetter},
	}
	var raw model.RawMetricsStore
	for r := 0; r < 4; r++ {
		raw.AppendRep(r, map[string]float64{"Time": float64(r + 1), "Throughput": float64(r + 1)})
	}

	reports := Run(design, factors, nil, metrics, raw, 0, 0)
	if len(reports) != 2 {
		t.Fatalf("Run returned %d reports, want 2", len(reports))
	}
	if reports[0].Metric.Name != "Time" || reports[1].Metric.Name != "Throughput" {
		t.Errorf("reports out of order: %q, %q", reports[0].Metric.Name, reports[1].Metric.Name)
	}
}
