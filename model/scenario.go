package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedDemandCurve = errors.New("unsupported demand curve kind")
	ErrBadAnchorOrder         = errors.New("anchor years must be strictly increasing")
	ErrBadAnchorValue         = errors.New("anchor values must be strictly positive")
	ErrBadPipeline            = errors.New("invalid pipeline configuration")
	ErrBadSmoothing           = errors.New("invalid smoothing window")
)

// DemandCurveKind selects the functional form of the demand trajectory.
// Only the piecewise exponential form is supported; anything else is a
// configuration error at construction time, never at simulation time.
type DemandCurveKind string

const DemandCurvePiecewiseExponential DemandCurveKind = "piecewise-exponential"

// DemandAnchor is a (year, GW) control point the demand curve passes through.
type DemandAnchor struct {
	Year int
	GW   float64
}

// BuildAnchor is a (year, GW/year) control point for the buildout rate curve.
type BuildAnchor struct {
	Year      int
	GWPerYear float64
}

// ScenarioParams holds every knob of the mobilization model. All fields are
// required and validated once, when the scenario is constructed.
type ScenarioParams struct {
	// DemandAnchors are the start / middle / end control points, in
	// strictly increasing year order.
	DemandAnchors [3]DemandAnchor

	DemandCurve DemandCurveKind

	// DemandIsFacilityLoad indicates the anchors already include power
	// usage overhead. When false, demand is IT load and a PUE factor is
	// applied on top.
	DemandIsFacilityLoad bool

	// BuildAnchors hold at least two (year, GW/year) points, strictly
	// increasing in year.
	BuildAnchors []BuildAnchor

	// SmoothingWindowYears is the width of the centered moving average
	// applied to the buildout rate. Zero disables smoothing.
	SmoothingWindowYears int

	PipelineLeadYears    float64
	PipelineFillFraction float64

	// StrictMode enables the demand-curve self-checks (middle anchor
	// reproduction, final-anchor floor). Verification only; it is never
	// consulted on the production stepping path.
	StrictMode bool
}

// Validate enforces the construction-time invariants of the scenario.
func (p *ScenarioParams) Validate() error {
	if p.DemandCurve != DemandCurvePiecewiseExponential {
		return fmt.Errorf("%w: %q", ErrUnsupportedDemandCurve, p.DemandCurve)
	}
	for i, a := range p.DemandAnchors {
		if a.GW <= 0 {
			return fmt.Errorf("%w: demand anchor %d is %v GW", ErrBadAnchorValue, i, a.GW)
		}
		if i > 0 && a.Year <= p.DemandAnchors[i-1].Year {
			return fmt.Errorf("%w: demand anchor years %d then %d", ErrBadAnchorOrder, p.DemandAnchors[i-1].Year, a.Year)
		}
	}
	if len(p.BuildAnchors) < 2 {
		return fmt.Errorf("%w: need at least two buildout anchors, got %d", ErrBadAnchorOrder, len(p.BuildAnchors))
	}
	for i, a := range p.BuildAnchors {
		if a.GWPerYear <= 0 {
			return fmt.Errorf("%w: buildout anchor %d is %v GW/yr", ErrBadAnchorValue, i, a.GWPerYear)
		}
		if i > 0 && a.Year <= p.BuildAnchors[i-1].Year {
			return fmt.Errorf("%w: buildout anchor years %d then %d", ErrBadAnchorOrder, p.BuildAnchors[i-1].Year, a.Year)
		}
	}
	if p.PipelineLeadYears < 0 {
		return fmt.Errorf("%w: lead time %v years", ErrBadPipeline, p.PipelineLeadYears)
	}
	if p.PipelineFillFraction < 0 || p.PipelineFillFraction > 1 {
		return fmt.Errorf("%w: fill fraction %v", ErrBadPipeline, p.PipelineFillFraction)
	}
	if p.SmoothingWindowYears < 0 {
		return fmt.Errorf("%w: %d years", ErrBadSmoothing, p.SmoothingWindowYears)
	}
	return nil
}
