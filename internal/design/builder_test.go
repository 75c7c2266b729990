package design

import (
	"testing"

	"github.com/marijaaleksic/taguchi-engine/internal/model"
)

func twoLevelFactor(name string) model.Factor {
	return model.Factor{Name: name, Values: []string{"low", "high"}, CLIArg: "--" + name}
}

func threeLevelFactor(name string) model.Factor {
	return model.Factor{Name: name, Values: []string{"a", "b", "c"}, CLIArg: "--" + name}
}

func TestRecommend_PicksSmallestArrayThatFits(t *testing.T) {
	factors := []model.Factor{twoLevelFactor("A"), twoLevelFactor("B"), twoLevelFactor("C")}
	got, err := Recommend(factors, nil)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if got != "L4" {
		t.Errorf("Recommend = %q, want L4 (3 DOF fits in an L4's 3 columns)", got)
	}
}

func TestRecommend_PrefersArrayWithLinearGraphWhenInteractionsRequested(t *testing.T) {
	factors := []model.Factor{twoLevelFactor("A"), twoLevelFactor("B")}
	it, err := model.NewInteraction("A", "B")
	if err != nil {
		t.Fatalf("NewInteraction: %v", err)
	}
	got, err := Recommend(factors, []model.Interaction{it})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// 2 main DOF + 1 interaction DOF = 3, fits L4 (3 columns) exactly, and L4
	// ships a linear graph.
	if got != "L4" {
		t.Errorf("Recommend = %q, want L4", got)
	}
}

func TestRecommend_NoFactorsIsADesignError(t *testing.T) {
	if _, err := Recommend(nil, nil); err == nil {
		t.Error("Recommend(nil, nil): expected a design error")
	}
}

func TestRecommend_TooManyDegreesOfFreedomIsADesignError(t *testing.T) {
	factors := make([]model.Factor, 0, 40)
	for i := 0; i < 40; i++ {
		factors = append(factors, twoLevelFactor(string(rune('A'+i%26))+string(rune('0'+i/26))))
	}
	if _, err := Recommend(factors, nil); err == nil {
		t.Error("Recommend: expected a design error when no catalogued array has enough columns")
	}
}

func TestBuild_AssignsEveryFactorToAColumn(t *testing.T) {
	factors := []model.Factor{twoLevelFactor("A"), twoLevelFactor("B"), twoLevelFactor("C")}
	d, err := Build(factors, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, f := range factors {
		if _, ok := d.ColumnAssignments[f.Name]; !ok {
			t.Errorf("ColumnAssignments missing factor %q", f.Name)
		}
	}
}

func TestBuild_ThreeLevelFactorsUseL9(t *testing.T) {
	factors := []model.Factor{threeLevelFactor("A"), threeLevelFactor("B")}
	d, err := Build(factors, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if d.Designation != "L9" {
		t.Errorf("Designation = %q, want L9", d.Designation)
	}
	names := sortedNames(d.ColumnAssignments)
	if len(names) != 2 {
		t.Errorf("ColumnAssignments = %v, want 2 entries", names)
	}
}

func TestBuild_InteractionGetsItsOwnColumn(t *testing.T) {
	factors := []model.Factor{twoLevelFactor("A"), twoLevelFactor("B")}
	it, _ := model.NewInteraction("A", "B")
	d, err := Build(factors, []model.Interaction{it})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	colA, colB := d.ColumnAssignments["A"], d.ColumnAssignments["B"]
	interCol, ok := d.ColumnAssignments[it.Key()]
	if !ok {
		t.Fatal("ColumnAssignments missing the A*B interaction column")
	}
	if interCol == colA || interCol == colB {
		t.Error("interaction column must not coincide with either main factor's column")
	}
}
