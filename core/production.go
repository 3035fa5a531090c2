package core

import (
	"errors"
	"fmt"
	"math"
)

// GrowthStrategy selects the multiplicative bounds of the satellite
// production law.
type GrowthStrategy string

const (
	StrategyConservative GrowthStrategy = "conservative"
	StrategyAggressive   GrowthStrategy = "aggressive"
)

var ErrUnknownStrategy = errors.New("unknown growth strategy")

// growthBounds returns the per-year fleet multiplier range for a
// strategy: conservative doubles to triples, aggressive quadruples to
// sextuples.
func growthBounds(s GrowthStrategy) (lo, hi float64, err error) {
	switch s {
	case StrategyConservative:
		return 2, 3, nil
	case StrategyAggressive:
		return 4, 6, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// NextFleetCount applies the bounded multiplicative growth law once:
// the current count times the strategy's minimum (or maximum, per
// useMax) multiplier, floored to an integer.
func NextFleetCount(count int, s GrowthStrategy, useMax bool) (int, error) {
	lo, hi, err := growthBounds(s)
	if err != nil {
		return 0, err
	}
	m := lo
	if useMax {
		m = hi
	}
	if count < 0 {
		count = 0
	}
	return int(math.Floor(float64(count) * m)), nil
}

// ProjectFleet applies the growth law iteratively, returning the
// sequence starting at the initial count with one entry per projected
// year. For multipliers above 1 the sequence is monotone increasing.
func ProjectFleet(count int, s GrowthStrategy, useMax bool, years int) ([]int, error) {
	if _, _, err := growthBounds(s); err != nil {
		return nil, err
	}
	out := make([]int, 0, years+1)
	out = append(out, count)
	for i := 0; i < years; i++ {
		next, err := NextFleetCount(out[len(out)-1], s, useMax)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
	}
	return out, nil
}
