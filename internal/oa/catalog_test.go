package oa

import "testing"

func TestLookup_KnownDesignationsExist(t *testing.T) {
	for _, name := range []string{"L4", "L8", "L9", "L12", "L16", "L16(4^5)", "L18", "L25", "L27", "L32", "L36(2^11 3^12)", "L36(2^3 3^13)"} {
		if _, _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found in catalog", name)
		}
	}
}

func TestLookup_UnknownDesignationReturnsFalse(t *testing.T) {
	if _, _, ok := Lookup("L99"); ok {
		t.Error("Lookup(L99) should not be found")
	}
}

func TestLookup_RunCountsMatchLiterature(t *testing.T) {
	want := map[string]int{
		"L4": 4, "L8": 8, "L9": 9, "L12": 12, "L16": 16, "L16(4^5)": 16,
		"L18": 18, "L25": 25, "L27": 27, "L32": 32,
		"L36(2^11 3^12)": 36, "L36(2^3 3^13)": 36,
	}
	for name, runs := range want {
		design, _, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", name)
		}
		if design.Runs() != runs {
			t.Errorf("%s: Runs() = %d, want %d", name, design.Runs(), runs)
		}
	}
}

func TestLookup_ReturnsIndependentMatrixCopies(t *testing.T) {
	d1, _, _ := Lookup("L4")
	d2, _, _ := Lookup("L4")
	d1.Matrix[0][0] = 999
	if d2.Matrix[0][0] == 999 {
		t.Error("Lookup should return an independent copy of the matrix, not shared storage")
	}
}

// columnBalanced reports whether every symbol value in a column occurs the
// same number of times, the defining property of an orthogonal array.
func columnBalanced(m [][]int, col int) bool {
	counts := map[int]int{}
	for _, row := range m {
		counts[row[col]]++
	}
	var want int
	first := true
	for _, c := range counts {
		if first {
			want = c
			first = false
		} else if c != want {
			return false
		}
	}
	return true
}

func TestHadamardArrays_ColumnsAreBalanced(t *testing.T) {
	for _, name := range []string{"L4", "L8", "L16", "L32"} {
		design, _, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", name)
		}
		for c := 0; c < design.Columns(); c++ {
			if !columnBalanced(design.Matrix, c) {
				t.Errorf("%s column %d is not balanced", name, c)
			}
		}
	}
}

func TestPrimeLevelArrays_ColumnsAreBalanced(t *testing.T) {
	for _, name := range []string{"L9", "L25", "L27"} {
		design, _, ok := Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) not found", name)
		}
		for c := 0; c < design.Columns(); c++ {
			if !columnBalanced(design.Matrix, c) {
				t.Errorf("%s column %d is not balanced", name, c)
			}
		}
	}
}

func TestHadamardArrays_AllValuesAreOneOrTwo(t *testing.T) {
	design, _, _ := Lookup("L8")
	for _, row := range design.Matrix {
		for _, v := range row {
			if v != 1 && v != 2 {
				t.Fatalf("L8 cell = %d, want 1 or 2", v)
			}
		}
	}
}

func TestGraphFor_L18HasNoLinearGraph(t *testing.T) {
	_, entry, ok := Lookup("L18")
	if !ok {
		t.Fatal("Lookup(L18) not found")
	}
	if entry.Graph != nil {
		t.Error("L18 should ship no linear graph: it is valued for not confounding interactions with any main-effect column")
	}
}

func TestGraphFor_L8HasMainColumnsAndInteractions(t *testing.T) {
	_, entry, ok := Lookup("L8")
	if !ok {
		t.Fatal("Lookup(L8) not found")
	}
	if entry.Graph == nil {
		t.Fatal("L8 should ship a linear graph")
	}
	if len(entry.Graph.MainColumns) != 3 {
		t.Errorf("L8 MainColumns = %v, want 3 entries", entry.Graph.MainColumns)
	}
	a, b := entry.Graph.MainColumns[0], entry.Graph.MainColumns[1]
	if cols, ok := entry.Graph.Lookup(a, b); !ok || len(cols) != 1 {
		t.Errorf("L8 Lookup(%d,%d) = %v, %v, want one interaction column", a, b, cols, ok)
	}
}

func TestAll_ReturnsEveryDesignation(t *testing.T) {
	all := All()
	if len(all) != 12 {
		t.Errorf("All() returned %d designations, want 12", len(all))
	}
}
