package core

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

func shellByID(t *testing.T, id model.ShellID) model.Shell {
	t.Helper()
	for _, s := range DefaultShellSet() {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("no shell %q in default set", id)
	return model.Shell{}
}

func TestGeneratePosition_RespectsBandAndSeparation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	shell := shellByID(t, model.ShellLEO)
	cfg := DefaultPlacementConfig()

	var placed []model.GeodeticPosition
	for i := 0; i < 50; i++ {
		geo, cart, err := GeneratePosition(rng, shell, placed, cfg)
		if err != nil {
			t.Fatalf("placement %d: %v", i, err)
		}
		if math.Abs(geo.LatDeg) > shell.LatBandDeg {
			t.Fatalf("placement %d: latitude %v outside band %v", i, geo.LatDeg, shell.LatBandDeg)
		}
		if geo.LonDeg < -180 || geo.LonDeg > 180 {
			t.Fatalf("placement %d: longitude %v out of range", i, geo.LonDeg)
		}
		if geo.AltKm < shell.AltMinKm || geo.AltKm > shell.AltMaxKm {
			t.Fatalf("placement %d: altitude %v outside [%v, %v]", i, geo.AltKm, shell.AltMinKm, shell.AltMaxKm)
		}

		wantRadius := 1 + geo.AltKm/EarthRadiusKm
		if math.Abs(Norm(cart)-wantRadius) > 1e-9 {
			t.Fatalf("placement %d: cartesian radius %v, want %v", i, Norm(cart), wantRadius)
		}

		for j, other := range placed {
			if d := AngularDistanceDeg(geo, other); d < shell.MinSeparationDeg {
				t.Fatalf("placements %d and %d only %v deg apart, want >= %v", i, j, d, shell.MinSeparationDeg)
			}
		}
		placed = append(placed, geo)
	}
}

func TestGeneratePosition_SunSynchronousBound(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	shell := shellByID(t, model.ShellSSO)

	// Retrograde 97.6 deg inclination folds to an 82.4 deg latitude reach.
	bound := 180 - shell.InclinationDeg
	for i := 0; i < 200; i++ {
		geo, _, err := GeneratePosition(rng, shell, nil, DefaultPlacementConfig())
		if err != nil {
			t.Fatalf("placement %d: %v", i, err)
		}
		if math.Abs(geo.LatDeg) > bound+1e-9 {
			t.Fatalf("placement %d: latitude %v beyond inclination reach %v", i, geo.LatDeg, bound)
		}
	}
}

func TestGeneratePosition_FixedAltitudeShell(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	shell := shellByID(t, model.ShellGEO)

	geo, _, err := GeneratePosition(rng, shell, nil, DefaultPlacementConfig())
	if err != nil {
		t.Fatalf("placement: %v", err)
	}
	if geo.AltKm != shell.AltMinKm {
		t.Fatalf("altitude %v, want pinned %v", geo.AltKm, shell.AltMinKm)
	}
}

func TestGeneratePosition_ExhaustsAttemptBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	// A 180 degree separation requirement rejects every candidate once
	// anything is placed.
	shell := model.Shell{
		ID: "crowded", LatBandDeg: 60, AltMinKm: 500, AltMaxKm: 600,
		MinSeparationDeg: 180, Capacity: 10,
	}
	existing := []model.GeodeticPosition{{LatDeg: 0, LonDeg: 0, AltKm: 550}}

	_, _, err := GeneratePosition(rng, shell, existing, PlacementConfig{MaxAttempts: 16})
	if !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition, got %v", err)
	}
}

func TestGeneratePosition_Deterministic(t *testing.T) {
	shell := shellByID(t, model.ShellLEO)
	cfg := DefaultPlacementConfig()

	a, _, err := GeneratePosition(rand.New(rand.NewSource(42)), shell, nil, cfg)
	if err != nil {
		t.Fatalf("first placement: %v", err)
	}
	b, _, err := GeneratePosition(rand.New(rand.NewSource(42)), shell, nil, cfg)
	if err != nil {
		t.Fatalf("second placement: %v", err)
	}
	if a != b {
		t.Fatalf("same seed produced different positions: %+v vs %+v", a, b)
	}
}
