package core

import (
	"math"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

// HazardScenario scales the baseline annual failure rate. Unknown kinds
// fall back to the nominal baseline; the survival model clamps, it never
// rejects.
type HazardScenario string

const (
	HazardBaseline    HazardScenario = "baseline"
	HazardOptimistic  HazardScenario = "optimistic"
	HazardPessimistic HazardScenario = "pessimistic"
)

// MaxAnnualFailureRate caps the hazard model's output.
const MaxAnnualFailureRate = 0.5

const (
	// radiationCoupling blends the shell flux ratio with a floor of 1.
	radiationCoupling = 0.6
	// shieldingGain scales how strongly shielding mass fraction
	// suppresses the radiation term.
	shieldingGain = 2.0

	thermalLinearWeight = 0.7
	thermalExpWeight    = 0.3
	thermalLinearPerC   = 0.02
	thermalExpPerC      = 0.03
	radiatorPenalty     = 0.1
)

// SurvivalInputs is the per-year environment and fleet state the hazard
// model evaluates. All fields are clamped defensively; no combination
// of inputs produces an error.
type SurvivalInputs struct {
	// OrbitalFluxRatio is the radiation flux of the fleet's shell mix
	// relative to the baseline shell (1.0 = baseline).
	OrbitalFluxRatio float64

	// ShieldingMassFraction in [0, 1]; more shielding lowers the
	// radiation contribution.
	ShieldingMassFraction float64

	CoreTempC   float64
	DesignTempC float64

	// RadiatorUtilization relative to design; values above 1.0 incur a
	// secondary penalty.
	RadiatorUtilization float64

	// RepairCapacity is the number of satellites the maintenance fleet
	// can service per year.
	RepairCapacity float64
	AliveCount     int
}

func baseFailureRate(kind HazardScenario) float64 {
	switch kind {
	case HazardOptimistic:
		return 0.01
	case HazardPessimistic:
		return 0.04
	default:
		return 0.02
	}
}

// ComputeAnnualFailureRate returns the fleet's annual failure rate,
// base(scenario) × radiation × thermal × maintenance, clamped to
// [0, MaxAnnualFailureRate].
func ComputeAnnualFailureRate(in SurvivalInputs, kind HazardScenario) float64 {
	rate := baseFailureRate(kind) * radiationFactor(in) * thermalFactor(in) * maintenanceFactor(in)
	if rate < 0 || math.IsNaN(rate) {
		return 0
	}
	if rate > MaxAnnualFailureRate {
		return MaxAnnualFailureRate
	}
	return rate
}

// radiationFactor blends the orbital flux ratio toward 1 with the
// coupling constant, then divides by a shielding effectiveness term
// that grows with shielding mass fraction.
func radiationFactor(in SurvivalInputs) float64 {
	flux := in.OrbitalFluxRatio
	if flux < 0 {
		flux = 0
	}
	shield := in.ShieldingMassFraction
	if shield < 0 {
		shield = 0
	} else if shield > 1 {
		shield = 1
	}

	blended := (1 - radiationCoupling) + radiationCoupling*flux
	effectiveness := 1 + shieldingGain*shield
	return blended / effectiveness
}

// thermalFactor blends a linear and an exponential response to core
// temperature above the design threshold (70/30), plus a smaller
// penalty once radiator utilization passes 100% of design.
func thermalFactor(in SurvivalInputs) float64 {
	excess := in.CoreTempC - in.DesignTempC
	if excess < 0 {
		excess = 0
	}

	linear := 1 + thermalLinearPerC*excess
	exponential := math.Exp(thermalExpPerC * excess)
	factor := thermalLinearWeight*linear + thermalExpWeight*exponential

	if over := in.RadiatorUtilization - 1; over > 0 {
		factor += radiatorPenalty * over
	}
	return factor
}

// maintenanceFactor halves the failure rate at full repair coverage and
// leaves it untouched when nothing is alive to repair.
func maintenanceFactor(in SurvivalInputs) float64 {
	if in.AliveCount <= 0 {
		return 1
	}
	repair := in.RepairCapacity
	if repair < 0 {
		repair = 0
	}
	coverage := repair / float64(in.AliveCount)
	if coverage > 1 {
		coverage = 1
	}
	return 1 - 0.5*coverage
}

// CumulativeSurvival converts a running sum of annual hazards into a
// survival probability via constant-hazard-per-period compounding.
func CumulativeSurvival(cumulativeHazard float64) float64 {
	if cumulativeHazard < 0 || math.IsNaN(cumulativeHazard) {
		cumulativeHazard = 0
	}
	return math.Exp(-cumulativeHazard)
}

// FluxRatioForShell is the radiation flux of a shell relative to the
// LEO baseline, a coarse Van Allen weighting used by the engine when it
// aggregates per-fleet survival inputs.
func FluxRatioForShell(id model.ShellID) float64 {
	switch id {
	case model.ShellMEO:
		return 3.5 // inner/outer belt exposure
	case model.ShellGEO:
		return 2.0
	case model.ShellSSO:
		return 1.3 // polar horns
	default:
		return 1.0
	}
}
