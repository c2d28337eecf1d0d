package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := NewRect(3, 4, 10, 2)
	if r.Right() != 13 || r.Bottom() != 6 {
		t.Errorf("Right/Bottom = %d/%d, expected 13/6", r.Right(), r.Bottom())
	}
	if r.Empty() {
		t.Error("10x2 rect should not be empty")
	}
	if !NewRect(0, 0, 0, 5).Empty() || !NewRect(0, 0, 5, -1).Empty() {
		t.Error("zero or negative size should be empty")
	}
}

func TestBoxOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{"overlapping", BoxAt(0, 0, 10, 10), BoxAt(5, 5, 10, 10), true},
		{"touching edges", BoxAt(0, 0, 10, 10), BoxAt(10, 0, 10, 10), false},
		{"fractional overlap", BoxAt(0, 0, 10, 10), BoxAt(9.9, 9.9, 1, 1), true},
		{"apart vertically", BoxAt(0, 0, 10, 10), BoxAt(0, 20, 10, 10), false},
		{"contained", BoxAt(0, 0, 100, 100), BoxAt(40, 40, 2, 2), true},
		{"negative coords", BoxAt(-50, -50, 30, 43), BoxAt(-30, -20, 5, 5), true},
		// Bus against a car straight ahead of it
		{"vehicle boxes", BoxAt(183, 500, 46, 80), BoxAt(198, 458, 32, 43), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.expected {
				t.Errorf("Overlaps() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		v, lo, hi, expected float64
	}{
		{5, 0, 10, 5},
		{-1.5, 0, 10, 0},
		{10.01, 0, 10, 10},
		{60, 60, 310, 60},
		{311, 60, 310, 310},
	}
	for _, tc := range tests {
		if got := ClampF(tc.v, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("ClampF(%v, %v, %v) = %v, expected %v", tc.v, tc.lo, tc.hi, got, tc.expected)
		}
	}
}

func TestAbsF(t *testing.T) {
	for in, expected := range map[float64]float64{-3.5: 3.5, 3.5: 3.5, 0: 0} {
		if got := AbsF(in); got != expected {
			t.Errorf("AbsF(%v) = %v, expected %v", in, got, expected)
		}
	}
}
