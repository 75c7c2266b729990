package anova

import (
	"math"
	"testing"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

// l8Design gives three 2-level factors full orthogonal columns across 8 runs
// (standard 1/2-coded Hadamard array), leaving the other four columns (4 DF)
// for error.
func l8Design() model.OADesign {
	matrix := [][]int{
		{1, 1, 1, 1, 1, 1, 1},
		{1, 1, 1, 2, 2, 2, 2},
		{1, 2, 2, 1, 1, 2, 2},
		{1, 2, 2, 2, 2, 1, 1},
		{2, 1, 2, 1, 2, 1, 2},
		{2, 1, 2, 2, 1, 2, 1},
		{2, 2, 1, 1, 2, 2, 1},
		{2, 2, 1, 2, 1, 1, 2},
	}
	return model.OADesign{
		Designation: "L8",
		Matrix:      matrix,
		ColumnAssignments: map[string]int{
			"A": 0,
			"B": 1,
			"C": 2,
		},
	}
}

func threeTwoLevelFactors() []model.Factor {
	return []model.Factor{
		{Name: "A", Values: []string{"lo", "hi"}, CLIArg: "--a"},
		{Name: "B", Values: []string{"lo", "hi"}, CLIArg: "--b"},
		{Name: "C", Values: []string{"lo", "hi"}, CLIArg: "--c"},
	}
}

func TestBuild_SumOfSquaresDecomposeExactlyForAFullySignalDesign(t *testing.T) {
	design := l8Design()
	factors := threeTwoLevelFactors()
	sn := []float64{10, 10, 20, 20, 30, 30, 40, 40} // driven entirely by columns A and B (indices 0 and 1)
	table, _ := Build(design, factors, nil, sn)

	ssSum := 0.0
	for _, s := range table.Sources {
		ssSum += s.SS
	}
	ssSum += table.Error.SS
	if diff := math.Abs(ssSum - table.Total.SS); diff > 1e-6 {
		t.Errorf("sum of source SS + error SS = %v, want total SS %v (diff %v)", ssSum, table.Total.SS, diff)
	}
}

func TestBuild_SaturatedDesignWarnsAndSkipsFTest(t *testing.T) {
	design := l8Design()
	// Assign factors D..G to the four spare columns so there is nothing left
	// for the error term: 7 factors * (2-1) = 7 DOF = 8 runs - 1.
	design.ColumnAssignments["D"] = 3
	factors := append(threeTwoLevelFactors(), model.Factor{Name: "D", Values: []string{"lo", "hi"}, CLIArg: "--d"})
	design.ColumnAssignments["E"] = 4
	design.ColumnAssignments["F"] = 5
	design.ColumnAssignments["G"] = 6
	factors = append(factors,
		model.Factor{Name: "E", Values: []string{"lo", "hi"}, CLIArg: "--e"},
		model.Factor{Name: "F", Values: []string{"lo", "hi"}, CLIArg: "--f"},
		model.Factor{Name: "G", Values: []string{"lo", "hi"}, CLIArg: "--g"},
	)
	sn := []float64{10, 12, 20, 18, 30, 28, 40, 38}
	table, warnings := Build(design, factors, nil, sn)

	foundSaturationWarning := false
	for _, w := range warnings {
		if w.Message == "saturated design: zero error degrees of freedom" {
			foundSaturationWarning = true
		}
	}
	if !foundSaturationWarning {
		t.Errorf("warnings = %v, want a saturated-design warning", warnings)
	}
	for _, s := range table.Sources {
		if !math.IsNaN(s.F) {
			t.Errorf("source %q F = %v, want NaN in a saturated design", s.Name, s.F)
		}
	}
}

func TestBuild_NaNRunsAreExcludedFromTotals(t *testing.T) {
	design := l8Design()
	factors := threeTwoLevelFactors()
	withNaN := []float64{10, 10, 20, 20, 30, 30, math.NaN(), 40}
	withoutRow := []float64{10, 10, 20, 20, 30, 30, 40}

	tableA, _ := Build(design, factors, nil, withNaN)
	if tableA.Total.DF != len(withoutRow)-1 {
		t.Errorf("Total.DF = %d, want %d (one NaN run excluded)", tableA.Total.DF, len(withoutRow)-1)
	}
}

func TestEffectEstimates_SortedByDescendingAbsoluteMagnitude(t *testing.T) {
	design := l8Design()
	factors := threeTwoLevelFactors()
	sn := []float64{10, 10, 20, 20, 30, 30, 40, 40}
	out := EffectEstimates(design, factors, nil, sn)

	for i := 1; i < len(out); i++ {
		if math.Abs(out[i-1].Effect) < math.Abs(out[i].Effect) {
			t.Errorf("EffectEstimates not sorted by descending |effect|: %v", out)
		}
	}
}

func TestPool_NoSignificantSourcesPoolsTheSmallest(t *testing.T) {
	initial := model.ANOVATable{
		Sources: []model.ANOVASource{
			{Name: "A", SS: 1, DF: 1, MS: 1, F: 0.5, Contribution: 5},
			{Name: "B", SS: 2, DF: 1, MS: 2, F: 1.0, Contribution: 10},
		},
		Error: model.ANOVASource{SS: 10, DF: 5, MS: 2},
		Total: model.ANOVASource{SS: 13, DF: 7},
	}
	pooled, _ := Pool(initial, DefaultPoolingThresholdPercent)
	if pooled == nil {
		t.Fatal("Pool: expected a pooled table when no source is significant")
	}
	foundPooledA := false
	for _, s := range pooled.Sources {
		if s.Name == "A" && s.Pooled {
			foundPooledA = true
		}
	}
	if !foundPooledA {
		t.Errorf("Pool: expected source A (smallest F) to be pooled, got %+v", pooled.Sources)
	}
}

func TestPool_SignificantSourceIsNeverPooled(t *testing.T) {
	initial := model.ANOVATable{
		Sources: []model.ANOVASource{
			{Name: "A", SS: 100, DF: 1, MS: 100, F: 50, Contribution: 90, Significant: true},
			{Name: "B", SS: 1, DF: 1, MS: 1, F: 0.1, Contribution: 1},
		},
		Error: model.ANOVASource{SS: 5, DF: 5, MS: 1},
		Total: model.ANOVASource{SS: 106, DF: 7},
	}
	pooled, _ := Pool(initial, DefaultPoolingThresholdPercent)
	if pooled == nil {
		t.Fatal("Pool: expected B (below threshold, non-significant) to be pooled")
	}
	for _, s := range pooled.Sources {
		if s.Name == "A" && s.Pooled {
			t.Error("Pool: significant source A must never be pooled")
		}
	}
}

func TestPool_NothingMeetsCriterionReturnsNil(t *testing.T) {
	initial := model.ANOVATable{
		Sources: []model.ANOVASource{
			{Name: "A", SS: 100, DF: 1, MS: 100, F: 50, Contribution: 95, Significant: true},
		},
		Error: model.ANOVASource{SS: 5, DF: 5, MS: 1},
		Total: model.ANOVASource{SS: 105, DF: 6},
	}
	pooled, warnings := Pool(initial, DefaultPoolingThresholdPercent)
	if pooled != nil {
		t.Errorf("Pool = %+v, want nil (the only source is significant)", pooled)
	}
	if warnings != nil {
		t.Errorf("warnings = %v, want nil", warnings)
	}
}
