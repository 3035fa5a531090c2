package model

// SatelliteClass differentiates satellites visually and behaviorally in
// consumers; it has no effect on physics.
type SatelliteClass string

const (
	SatClassCompute     SatelliteClass = "compute"
	SatClassRelay       SatelliteClass = "relay"
	SatClassObservation SatelliteClass = "observation"
)

// GeodeticPosition is a latitude/longitude/altitude triple.
// Latitude and longitude are degrees, altitude is kilometres above the
// mean Earth surface.
type GeodeticPosition struct {
	LatDeg float64
	LonDeg float64
	AltKm  float64
}

// Position is a Cartesian position normalized to Earth radius = 1.
type Position struct {
	X float64
	Y float64
	Z float64
}

// OrbitState carries the simplified propagation state of a satellite.
// The model is circular-orbit phase advance, not a full propagator.
type OrbitState struct {
	// RadiusEarths = 1 + altitude/EarthRadius.
	RadiusEarths   float64
	InclinationDeg float64
	PhaseRad       float64
	PeriodSeconds  float64
	LaunchedYear   int
}

// Satellite is one member of the orbital compute fleet. The engine owns
// the canonical fleet list; consumers only ever see value copies.
type Satellite struct {
	ID    string
	Shell ShellID
	Class SatelliteClass

	Geodetic  GeodeticPosition
	Cartesian Position

	Orbit OrbitState
}
