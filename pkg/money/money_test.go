package money

import "testing"

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.344, 2.34},
		{2.346, 2.35},
		{0.1 + 0.2, 0.3},
		{111.0, 111.0},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGTE(t *testing.T) {
	if !GTE(100, 100) {
		t.Error("GTE(100, 100) should hold")
	}
	// float noise just under the threshold still counts as paid
	if !GTE(99.9999999, 100) {
		t.Error("GTE should tolerate sub-epsilon noise")
	}
	if GTE(99.99, 100) {
		t.Error("GTE(99.99, 100) should not hold")
	}
}

func TestEq(t *testing.T) {
	if !Eq(0.1+0.2, 0.3) {
		t.Error("Eq should absorb float addition error")
	}
	if Eq(0.3, 0.31) {
		t.Error("Eq(0.3, 0.31) should not hold")
	}
}
