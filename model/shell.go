package model

// ShellID names an orbital shell.
type ShellID string

const (
	ShellLEO ShellID = "leo"
	ShellMEO ShellID = "meo"
	ShellGEO ShellID = "geo"
	ShellSSO ShellID = "sso" // sun-synchronous
)

// Shell is a named orbital altitude/inclination band with capacity and
// spacing constraints for satellite placement.
type Shell struct {
	ID   ShellID
	Name string

	// LatBandDeg is the half-width of the latitude band, in degrees.
	LatBandDeg float64

	AltMinKm float64
	AltMaxKm float64

	// MinSeparationDeg is the minimum great-circle angular distance
	// enforced between satellites assigned to this shell.
	MinSeparationDeg float64

	// InclinationDeg constrains latitude sampling for sun-synchronous
	// shells; ignored otherwise.
	InclinationDeg float64
	SunSynchronous bool

	Capacity int

	// Priority is the deterministic tie-break order for assignment
	// scoring; lower wins.
	Priority int
}
