package model

// SimulationState is the aggregate per-year snapshot handed to consumers
// (dashboards, rendering) after validation. Compute in GW, costs in
// billions, latency in milliseconds, carbon in tonnes per year.
type SimulationState struct {
	Year int

	TotalComputeGW   float64
	OrbitalComputeGW float64
	GroundComputeGW  float64

	TotalCostB   float64
	OrbitalCostB float64
	GroundCostB  float64

	AvgLatencyMs float64
	CarbonTonnes float64

	// OrbitalShare is the orbital fraction of total compute, in [0, 1].
	OrbitalShare float64

	ShellCapacity    map[ShellID]int
	ShellUtilization map[ShellID]int
}

// Clone returns a deep copy so validation repairs never mutate the
// caller's snapshot.
func (s SimulationState) Clone() SimulationState {
	out := s
	out.ShellCapacity = make(map[ShellID]int, len(s.ShellCapacity))
	for k, v := range s.ShellCapacity {
		out.ShellCapacity[k] = v
	}
	out.ShellUtilization = make(map[ShellID]int, len(s.ShellUtilization))
	for k, v := range s.ShellUtilization {
		out.ShellUtilization[k] = v
	}
	return out
}
