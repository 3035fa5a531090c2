package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

func TestToCartesian(t *testing.T) {
	cases := []struct {
		name string
		in   model.GeodeticPosition
		want model.Position
	}{
		{"origin on surface", model.GeodeticPosition{}, model.Position{X: 1}},
		{"north pole", model.GeodeticPosition{LatDeg: 90}, model.Position{Z: 1}},
		{"antimeridian", model.GeodeticPosition{LonDeg: 180}, model.Position{X: -1}},
		{"one radius up", model.GeodeticPosition{AltKm: EarthRadiusKm}, model.Position{X: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToCartesian(tc.in)
			if math.Abs(got.X-tc.want.X) > 1e-12 ||
				math.Abs(got.Y-tc.want.Y) > 1e-12 ||
				math.Abs(got.Z-tc.want.Z) > 1e-12 {
				t.Fatalf("ToCartesian(%+v) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestToCartesian_PreservesRadius(t *testing.T) {
	p := model.GeodeticPosition{LatDeg: 37.4, LonDeg: -122.1, AltKm: 550}
	want := 1 + 550/EarthRadiusKm
	if got := Norm(ToCartesian(p)); math.Abs(got-want) > 1e-12 {
		t.Fatalf("radius = %v, want %v", got, want)
	}
}

func TestAngularDistanceDeg(t *testing.T) {
	equator := model.GeodeticPosition{}
	pole := model.GeodeticPosition{LatDeg: 90}
	if got := AngularDistanceDeg(equator, pole); math.Abs(got-90) > 1e-9 {
		t.Fatalf("equator to pole = %v deg, want 90", got)
	}

	antipode := model.GeodeticPosition{LonDeg: 180}
	if got := AngularDistanceDeg(equator, antipode); math.Abs(got-180) > 1e-9 {
		t.Fatalf("antipodal distance = %v deg, want 180", got)
	}

	if got := AngularDistanceDeg(pole, pole); got != 0 {
		t.Fatalf("self distance = %v, want 0", got)
	}
}

func TestOrbitalPeriodSeconds(t *testing.T) {
	// A 550 km orbit takes roughly 95 minutes.
	r := 1 + 550/EarthRadiusKm
	period := OrbitalPeriodSeconds(r)
	if period < 90*60 || period > 100*60 {
		t.Fatalf("550 km period = %v s, want roughly 95 minutes", period)
	}

	// Period grows with radius.
	if OrbitalPeriodSeconds(2) <= period {
		t.Fatal("higher orbit should have a longer period")
	}

	if got := OrbitalPeriodSeconds(0); got != 0 {
		t.Fatalf("degenerate radius period = %v, want 0", got)
	}
}
