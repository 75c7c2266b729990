package snr

import (
	"math"
	"testing"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
	"github.com/marijaaleksic/taguchi-engine/internal/testutil"
)

func almostEqual(a, b, tol float64) bool {
	return testutil.AlmostEqual(a, b, tol)
}

func TestCalculate_SmallerIsBetterPenalizesLargerValues(t *testing.T) {
	metric := model.MetricDefinition{Name: "Time", Mode: model.SmallerIsBetter}
	fast := Calculate(metric, []float64{1.0, 1.0})
	slow := Calculate(metric, []float64{10.0, 10.0})
	if fast <= slow {
		t.Errorf("smaller-is-better: fast S/N (%v) should exceed slow S/N (%v)", fast, slow)
	}
}

func TestCalculate_LargerIsBetterRewardsLargerValues(t *testing.T) {
	metric := model.MetricDefinition{Name: "Throughput", Mode: model.LargerIsBetter}
	hi := Calculate(metric, []float64{100, 100})
	lo := Calculate(metric, []float64{1, 1})
	if hi <= lo {
		t.Errorf("larger-is-better: high S/N (%v) should exceed low S/N (%v)", hi, lo)
	}
}

func TestCalculate_NominalRewardsProximityToTarget(t *testing.T) {
	metric := model.MetricDefinition{Name: "Voltage", Mode: model.Nominal, Target: 5.0}
	onTarget := Calculate(metric, []float64{5.0, 5.0})
	offTarget := Calculate(metric, []float64{3.0, 7.0})
	if onTarget <= offTarget {
		t.Errorf("nominal: on-target S/N (%v) should exceed off-target S/N (%v)", onTarget, offTarget)
	}
}

func TestCalculate_AllNaNYieldsNaN(t *testing.T) {
	metric := model.MetricDefinition{Name: "Time", Mode: model.SmallerIsBetter}
	got := Calculate(metric, []float64{math.NaN(), math.NaN()})
	if !math.IsNaN(got) {
		t.Errorf("Calculate with all-NaN input = %v, want NaN", got)
	}
}

func TestCalculate_SkipsNaNRepsAmongValidOnes(t *testing.T) {
	metric := model.MetricDefinition{Name: "Time", Mode: model.SmallerIsBetter}
	withNaN := Calculate(metric, []float64{2.0, math.NaN(), 2.0})
	withoutNaN := Calculate(metric, []float64{2.0, 2.0})
	if !almostEqual(withNaN, withoutNaN, 1e-9) {
		t.Errorf("Calculate with an interleaved NaN = %v, want %v (NaN rep skipped)", withNaN, withoutNaN)
	}
}

func TestCalculate_DegenerateZeroInputsSaturate(t *testing.T) {
	metric := model.MetricDefinition{Name: "Time", Mode: model.SmallerIsBetter}
	got := Calculate(metric, []float64{0, 0})
	if got != Saturation {
		t.Errorf("Calculate(0,0) = %v, want saturation value %v", got, Saturation)
	}
}

func TestInvertLargerIsBetter_RoundTripsThroughCalculate(t *testing.T) {
	sn := Calculate(model.MetricDefinition{Mode: model.LargerIsBetter}, []float64{50, 50})
	got := InvertLargerIsBetter(sn)
	if !almostEqual(got, 50, 1e-6) {
		t.Errorf("InvertLargerIsBetter(Calculate(50,50)) = %v, want ~50", got)
	}
}

func TestInvertSmallerIsBetter_RoundTripsThroughCalculate(t *testing.T) {
	sn := Calculate(model.MetricDefinition{Mode: model.SmallerIsBetter}, []float64{4, 4})
	got := InvertSmallerIsBetter(sn)
	if !almostEqual(got, 4, 1e-6) {
		t.Errorf("InvertSmallerIsBetter(Calculate(4,4)) = %v, want ~4", got)
	}
}
