package core

import (
	"errors"
	"math"
	"math/rand"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

// ErrNoPosition reports that rejection sampling exhausted its attempt
// budget without finding a valid position. This is a soft condition:
// callers skip the satellite and continue the batch.
var ErrNoPosition = errors.New("no valid position found within attempt budget")

// PlacementConfig makes the rejection-sampling bounds explicit rather
// than burying them in constants.
type PlacementConfig struct {
	// MaxAttempts bounds the sampling loop so an over-constrained
	// shell terminates instead of spinning.
	MaxAttempts int

	// SkipOnExhaustion tells the deployment loop to drop a satellite
	// whose placement failed rather than aborting the batch.
	SkipOnExhaustion bool
}

// DefaultPlacementConfig allows 64 attempts and skips on exhaustion.
func DefaultPlacementConfig() PlacementConfig {
	return PlacementConfig{MaxAttempts: 64, SkipOnExhaustion: true}
}

// GeneratePosition samples a physically valid position within the
// shell, rejecting candidates closer than the shell's minimum angular
// separation to any already-placed satellite in the same shell. The
// rng is owned by the simulation run, keeping placement reproducible
// for a given seed.
//
// Latitude sampling is equator-weighted: lat = asin(sin(band) × u) for
// u uniform in [−1, 1], which concentrates density near the equator
// and never leaves the band. Sun-synchronous shells use the same form
// with the orbit inclination in place of the band half-width. See
// DESIGN.md for why this law was chosen over a uniform band.
func GeneratePosition(rng *rand.Rand, shell model.Shell, existing []model.GeodeticPosition, cfg PlacementConfig) (model.GeodeticPosition, model.Position, error) {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultPlacementConfig().MaxAttempts
	}

	for i := 0; i < attempts; i++ {
		lon := -180.0 + 360.0*rng.Float64()
		lat := sampleLatitude(rng, shell)

		candidate := model.GeodeticPosition{LatDeg: lat, LonDeg: lon}
		if tooClose(candidate, existing, shell.MinSeparationDeg) {
			continue
		}

		candidate.AltKm = sampleAltitude(rng, shell)
		return candidate, ToCartesian(candidate), nil
	}
	return model.GeodeticPosition{}, model.Position{}, ErrNoPosition
}

func sampleLatitude(rng *rand.Rand, shell model.Shell) float64 {
	band := shell.LatBandDeg
	if shell.SunSynchronous {
		band = shell.InclinationDeg
		// Retrograde inclinations reach |90° − (incl − 90°)| latitude;
		// fold into [0°, 90°].
		if band > 90 {
			band = 180 - band
		}
	}

	u := 2.0*rng.Float64() - 1.0
	lat := math.Asin(math.Sin(band*degToRad)*u) * radToDeg

	// The sampler cannot leave the band, but clamp anyway so the
	// invariant survives future sampler changes.
	if lat > shell.LatBandDeg {
		lat = shell.LatBandDeg
	} else if lat < -shell.LatBandDeg {
		lat = -shell.LatBandDeg
	}
	return lat
}

func sampleAltitude(rng *rand.Rand, shell model.Shell) float64 {
	if shell.AltMinKm == shell.AltMaxKm {
		// Geostationary-equivalent shells pin the altitude.
		return shell.AltMinKm
	}
	return shell.AltMinKm + (shell.AltMaxKm-shell.AltMinKm)*rng.Float64()
}

func tooClose(candidate model.GeodeticPosition, existing []model.GeodeticPosition, minSepDeg float64) bool {
	if minSepDeg <= 0 {
		return false
	}
	for _, other := range existing {
		if AngularDistanceDeg(candidate, other) < minSepDeg {
			return true
		}
	}
	return false
}
