package core

import (
	"errors"
	"testing"
)

func TestNextFleetCount(t *testing.T) {
	cases := []struct {
		name   string
		count  int
		s      GrowthStrategy
		useMax bool
		want   int
	}{
		{"conservative min doubles", 100, StrategyConservative, false, 200},
		{"conservative max triples", 100, StrategyConservative, true, 300},
		{"aggressive min quadruples", 100, StrategyAggressive, false, 400},
		{"aggressive max sextuples", 100, StrategyAggressive, true, 600},
		{"empty fleet stays empty", 0, StrategyConservative, true, 0},
		{"negative clamps to zero", -5, StrategyAggressive, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextFleetCount(tc.count, tc.s, tc.useMax)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("NextFleetCount(%d) = %d, want %d", tc.count, got, tc.want)
			}
		})
	}
}

func TestNextFleetCount_UnknownStrategy(t *testing.T) {
	_, err := NextFleetCount(10, GrowthStrategy("reckless"), false)
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestProjectFleet_MonotoneIncreasing(t *testing.T) {
	seq, err := ProjectFleet(3, StrategyConservative, false, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq) != 9 {
		t.Fatalf("sequence length = %d, want 9", len(seq))
	}
	if seq[0] != 3 {
		t.Fatalf("sequence starts at %d, want 3", seq[0])
	}
	for i := 1; i < len(seq); i++ {
		if seq[i] < seq[i-1] {
			t.Fatalf("sequence decreased at index %d: %v", i, seq)
		}
	}
}

func TestProjectFleet_UnknownStrategy(t *testing.T) {
	if _, err := ProjectFleet(3, GrowthStrategy(""), false, 2); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}
