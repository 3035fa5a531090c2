package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

func nominalInputs() SurvivalInputs {
	return SurvivalInputs{
		OrbitalFluxRatio:      1.0,
		ShieldingMassFraction: 0.15,
		CoreTempC:             40,
		DesignTempC:           40,
		RadiatorUtilization:   0.9,
		AliveCount:            100,
	}
}

func TestComputeAnnualFailureRate_Bounds(t *testing.T) {
	extreme := SurvivalInputs{
		OrbitalFluxRatio:    100,
		CoreTempC:           500,
		DesignTempC:         40,
		RadiatorUtilization: 5,
		AliveCount:          10,
	}
	for _, kind := range []HazardScenario{HazardOptimistic, HazardBaseline, HazardPessimistic} {
		nominal := ComputeAnnualFailureRate(nominalInputs(), kind)
		if nominal < 0 || nominal > MaxAnnualFailureRate {
			t.Fatalf("%s: nominal rate %v outside [0, %v]", kind, nominal, MaxAnnualFailureRate)
		}
		if got := ComputeAnnualFailureRate(extreme, kind); got != MaxAnnualFailureRate {
			t.Fatalf("%s: extreme rate %v, want clamp at %v", kind, got, MaxAnnualFailureRate)
		}
	}
}

func TestComputeAnnualFailureRate_ScenarioOrdering(t *testing.T) {
	in := nominalInputs()
	opt := ComputeAnnualFailureRate(in, HazardOptimistic)
	base := ComputeAnnualFailureRate(in, HazardBaseline)
	pess := ComputeAnnualFailureRate(in, HazardPessimistic)

	if !(opt < base && base < pess) {
		t.Fatalf("scenario rates not ordered: optimistic %v, baseline %v, pessimistic %v", opt, base, pess)
	}
}

func TestComputeAnnualFailureRate_ShieldingHelps(t *testing.T) {
	bare := nominalInputs()
	bare.ShieldingMassFraction = 0
	shielded := nominalInputs()
	shielded.ShieldingMassFraction = 1

	if ComputeAnnualFailureRate(shielded, HazardBaseline) >= ComputeAnnualFailureRate(bare, HazardBaseline) {
		t.Fatal("full shielding did not lower the failure rate")
	}
}

func TestComputeAnnualFailureRate_ThermalExcessHurts(t *testing.T) {
	cool := nominalInputs()
	hot := nominalInputs()
	hot.CoreTempC = hot.DesignTempC + 20

	if ComputeAnnualFailureRate(hot, HazardBaseline) <= ComputeAnnualFailureRate(cool, HazardBaseline) {
		t.Fatal("thermal excess did not raise the failure rate")
	}
}

func TestComputeAnnualFailureRate_MaintenanceHalvesAtFullCoverage(t *testing.T) {
	unserviced := nominalInputs()
	serviced := nominalInputs()
	serviced.RepairCapacity = float64(serviced.AliveCount)

	a := ComputeAnnualFailureRate(unserviced, HazardBaseline)
	b := ComputeAnnualFailureRate(serviced, HazardBaseline)
	if math.Abs(b-a/2) > 1e-12 {
		t.Fatalf("full repair coverage rate %v, want half of %v", b, a)
	}

	// Coverage beyond the fleet size cannot overshoot the halving.
	over := serviced
	over.RepairCapacity = 10 * float64(over.AliveCount)
	if got := ComputeAnnualFailureRate(over, HazardBaseline); math.Abs(got-b) > 1e-12 {
		t.Fatalf("excess repair capacity changed the rate: %v vs %v", got, b)
	}
}

func TestComputeAnnualFailureRate_NaNInputsYieldZero(t *testing.T) {
	in := nominalInputs()
	in.OrbitalFluxRatio = math.NaN()
	if got := ComputeAnnualFailureRate(in, HazardBaseline); got != 0 {
		t.Fatalf("NaN input produced rate %v, want 0", got)
	}
}

func TestCumulativeSurvival(t *testing.T) {
	if got := CumulativeSurvival(0); got != 1 {
		t.Fatalf("survival at zero hazard = %v, want 1", got)
	}
	prev := 1.0
	for _, h := range []float64{0.1, 0.5, 1, 3} {
		got := CumulativeSurvival(h)
		if got <= 0 || got >= prev {
			t.Fatalf("survival(%v) = %v, want in (0, %v)", h, got, prev)
		}
		prev = got
	}
	if got := CumulativeSurvival(-1); got != 1 {
		t.Fatalf("negative hazard survival = %v, want 1", got)
	}
}

func TestFluxRatioForShell(t *testing.T) {
	leo := FluxRatioForShell(model.ShellLEO)
	if leo != 1.0 {
		t.Fatalf("LEO flux ratio = %v, want baseline 1.0", leo)
	}
	for _, id := range []model.ShellID{model.ShellSSO, model.ShellGEO, model.ShellMEO} {
		if FluxRatioForShell(id) <= leo {
			t.Fatalf("shell %q flux ratio not above LEO baseline", id)
		}
	}
}
