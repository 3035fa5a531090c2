package core

import (
	"math"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

// EarthRadiusKm is the mean Earth radius used for all simple geometry
// in the engine (kilometres). Cartesian positions are normalized to
// this radius, so a satellite at altitude h sits at radius 1 + h/R.
const EarthRadiusKm = 6371.0

// earthMuKm3 is the standard gravitational parameter of Earth in km³/s².
const earthMuKm3 = 398600.4418

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// ToCartesian converts a geodetic position to the normalized Cartesian
// frame. This is the single spherical-to-Cartesian transform used
// everywhere; positioning, propagation, and tests must all go through it.
func ToCartesian(p model.GeodeticPosition) model.Position {
	r := 1.0 + p.AltKm/EarthRadiusKm
	lat := p.LatDeg * degToRad
	lon := p.LonDeg * degToRad
	return model.Position{
		X: r * math.Cos(lat) * math.Cos(lon),
		Y: r * math.Cos(lat) * math.Sin(lon),
		Z: r * math.Sin(lat),
	}
}

// AngularDistanceDeg returns the great-circle central angle between two
// geodetic positions in degrees, ignoring altitude.
func AngularDistanceDeg(a, b model.GeodeticPosition) float64 {
	latA := a.LatDeg * degToRad
	latB := b.LatDeg * degToRad
	dLon := (a.LonDeg - b.LonDeg) * degToRad

	cosd := math.Sin(latA)*math.Sin(latB) + math.Cos(latA)*math.Cos(latB)*math.Cos(dLon)
	if cosd > 1 {
		cosd = 1
	} else if cosd < -1 {
		cosd = -1
	}
	return math.Acos(cosd) * radToDeg
}

// OrbitalPeriodSeconds returns the circular-orbit period for a radius
// given in Earth radii (Kepler's third law).
func OrbitalPeriodSeconds(radiusEarths float64) float64 {
	if radiusEarths <= 0 {
		return 0
	}
	aKm := radiusEarths * EarthRadiusKm
	return 2 * math.Pi * math.Sqrt(aKm*aKm*aKm/earthMuKm3)
}

// Norm returns the Euclidean norm of a normalized Cartesian position.
func Norm(p model.Position) float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}
