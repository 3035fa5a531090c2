package core

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

// ErrValidationFatal marks an inconsistency that survived the repair
// pass. It signals a structural bug in the stepping logic, not numeric
// drift, and must stop the simulation; callers must never downgrade it
// to a warning.
var ErrValidationFatal = errors.New("simulation state unrepairable")

// MinPlausibleLatencyMs is the physical floor on average latency: no
// deployment mix can respond faster than short-haul fiber round trip.
const MinPlausibleLatencyMs = 1.0

// computeTolerance is the allowed absolute drift in the compute
// conservation check.
const computeTolerance = 0.01

// utilizationWarnFraction is where per-shell utilization starts
// warning, before it becomes a violation at capacity.
const utilizationWarnFraction = 0.9

// Violation identifies one failed invariant check.
type Violation struct {
	Code   string
	Detail string
}

func (v Violation) String() string { return v.Code + ": " + v.Detail }

// ValidationResult reports the outcome of a validate-and-repair pass.
// Repaired is false when the input was already valid; Violations lists
// what was fixed when it was not.
type ValidationResult struct {
	State      model.SimulationState
	Violations []Violation
	Warnings   []Violation
	Repaired   bool
}

// ValidateAndRepair checks the snapshot's invariants in order (compute
// conservation, non-negative costs, latency floor, orbital share,
// per-shell utilization), attempts a local repair if any fail, and
// re-checks. A state that still fails after repair returns an error
// wrapping ErrValidationFatal.
func ValidateAndRepair(s model.SimulationState) (ValidationResult, error) {
	violations, warnings := checkInvariants(s)
	if len(violations) == 0 {
		return ValidationResult{State: s, Warnings: warnings}, nil
	}

	repaired := repairState(s)
	remaining, warnings := checkInvariants(repaired)
	if len(remaining) > 0 {
		return ValidationResult{}, fmt.Errorf("%w: year %d: %d violation(s) remain after repair, first: %s",
			ErrValidationFatal, s.Year, len(remaining), remaining[0])
	}

	return ValidationResult{
		State:      repaired,
		Violations: violations,
		Warnings:   warnings,
		Repaired:   true,
	}, nil
}

func checkInvariants(s model.SimulationState) (violations, warnings []Violation) {
	// 1) Compute conservation.
	drift := math.Abs(s.OrbitalComputeGW + s.GroundComputeGW - s.TotalComputeGW)
	if !(drift <= computeTolerance) { // NaN-safe: NaN fails
		violations = append(violations, Violation{
			Code:   "compute-conservation",
			Detail: fmt.Sprintf("orbital %.4f + ground %.4f != total %.4f", s.OrbitalComputeGW, s.GroundComputeGW, s.TotalComputeGW),
		})
	}

	// 2) Costs are non-negative.
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"total", s.TotalCostB},
		{"orbital", s.OrbitalCostB},
		{"ground", s.GroundCostB},
	} {
		if !(c.value >= 0) {
			violations = append(violations, Violation{
				Code:   "negative-cost",
				Detail: fmt.Sprintf("%s cost %.4f", c.name, c.value),
			})
		}
	}

	// 3) Latency floor.
	if !(s.AvgLatencyMs >= MinPlausibleLatencyMs) {
		violations = append(violations, Violation{
			Code:   "latency-floor",
			Detail: fmt.Sprintf("average latency %.4f ms below %.1f ms", s.AvgLatencyMs, MinPlausibleLatencyMs),
		})
	}

	// 4) Orbital share.
	if !(s.OrbitalShare <= 1.0) {
		violations = append(violations, Violation{
			Code:   "orbital-share",
			Detail: fmt.Sprintf("share %.4f exceeds 1.0", s.OrbitalShare),
		})
	}

	// 5) Per-shell utilization vs capacity. Deterministic order so
	// violation lists are stable for a given state.
	ids := make([]model.ShellID, 0, len(s.ShellUtilization))
	for id := range s.ShellUtilization {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		util := s.ShellUtilization[id]
		cap := s.ShellCapacity[id]
		switch {
		case util > cap:
			violations = append(violations, Violation{
				Code:   "shell-overflow",
				Detail: fmt.Sprintf("shell %q utilization %d exceeds capacity %d", id, util, cap),
			})
		case cap > 0 && float64(util) > utilizationWarnFraction*float64(cap):
			warnings = append(warnings, Violation{
				Code:   "shell-near-capacity",
				Detail: fmt.Sprintf("shell %q utilization %d above 90%% of capacity %d", id, util, cap),
			})
		}
	}

	return violations, warnings
}

// repairState applies the local clamps: costs up to zero, latency up to
// the floor, orbital share down to one, shell utilization down to
// capacity, and total compute recomputed from its parts.
func repairState(s model.SimulationState) model.SimulationState {
	out := s.Clone()

	if out.TotalCostB < 0 {
		out.TotalCostB = 0
	}
	if out.OrbitalCostB < 0 {
		out.OrbitalCostB = 0
	}
	if out.GroundCostB < 0 {
		out.GroundCostB = 0
	}
	if out.AvgLatencyMs < MinPlausibleLatencyMs {
		out.AvgLatencyMs = MinPlausibleLatencyMs
	}
	if out.OrbitalShare > 1.0 {
		out.OrbitalShare = 1.0
	}
	for id, util := range out.ShellUtilization {
		if cap := out.ShellCapacity[id]; util > cap {
			out.ShellUtilization[id] = cap
		}
	}
	out.TotalComputeGW = out.OrbitalComputeGW + out.GroundComputeGW

	return out
}
