package mathkernel

import "testing"

func TestNormalizeDegrees(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{359, 359},
		{360, 0},
		{361, 1},
		{-1, 359},
		{-360, 0},
		{720 + 10, 10},
	}
	for _, c := range cases {
		if got := NormalizeDegrees(c.in); got != c.want {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestShortestArc(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{0, 180, 180},
		{359, 1, 2},
		{1, 359, 2},
		{10, 350, 20},
		{90, 270, 180},
	}
	for _, c := range cases {
		if got := ShortestArc(c.a, c.b); got != c.want {
			t.Errorf("ShortestArc(%v, %v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestShortestArcBoundary(t *testing.T) {
	// A conjunction between a body at 359° and another at 1° must read as
	// separation 2°, not 358°.
	if got := ShortestArc(359, 1); got != 2 {
		t.Errorf("wrap-around separation = %v, want 2", got)
	}
}

func TestWindowExtrema(t *testing.T) {
	if !(Window{Previous: 1, Current: 2, Next: 1}).IsMaximum() {
		t.Error("expected strict maximum")
	}
	if (Window{Previous: 1, Current: 2, Next: 2}).IsMaximum() {
		t.Error("plateau must not count as a maximum")
	}
	if !(Window{Previous: 2, Current: 1, Next: 2}).IsMinimum() {
		t.Error("expected strict minimum")
	}
	if (Window{Previous: 1, Current: 1, Next: 2}).IsMinimum() {
		t.Error("plateau must not count as a minimum")
	}
}

func TestNormalizeForComparison(t *testing.T) {
	if got := NormalizeForComparison(359, 1); got != -1 {
		t.Errorf("NormalizeForComparison(359, 1) = %v, want -1", got)
	}
	if got := NormalizeForComparison(1, 359); got != 361 {
		t.Errorf("NormalizeForComparison(1, 359) = %v, want 361", got)
	}
}

func TestCombinations(t *testing.T) {
	got := Combinations([]int{1, 2, 3, 4}, 2)
	want := [][]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}
	if len(got) != len(want) {
		t.Fatalf("got %d combinations, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i][0] != want[i][0] || got[i][1] != want[i][1] {
			t.Errorf("combo %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCombinationsEdgeCases(t *testing.T) {
	if got := Combinations([]int{1, 2, 3}, 0); len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("k=0 should yield one empty combination, got %v", got)
	}
	if got := Combinations([]int{1, 2, 3}, 4); got != nil {
		t.Errorf("k>n should yield nil, got %v", got)
	}
}
