package model

// YearState is one point of the mobilization trajectory. Values are
// immutable once produced; the trajectory is an ordered, append-only
// sequence of these.
type YearState struct {
	Year int

	DemandGW      float64
	DemandDeltaGW float64
	BuildRateGW   float64
	CapacityGW    float64
	PipelineGW    float64
	BacklogGW     float64

	// AvgWaitYears is backlog divided by build rate.
	AvgWaitYears float64

	// Diagnostics: the exponential growth rate of the active demand
	// segment and the smoothed/unsmoothed build-rate ratio that
	// produced this state.
	GrowthRate      float64
	SmoothingFactor float64
}
