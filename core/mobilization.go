package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

// DefaultPUE converts IT load into facility load when the scenario's
// demand anchors do not already include power usage overhead.
const DefaultPUE = 1.3

// waitEpsilon guards the backlog/build-rate division when the build
// rate collapses to zero.
const waitEpsilon = 1e-9

// Demand evaluates the two-segment piecewise-exponential demand curve
// at the given year, in GW of facility load. Years before the first
// anchor return the first anchor's value; there is no backward
// extrapolation. Callers pass pue <= 0 to get the default overhead
// factor for IT-load scenarios.
func Demand(year int, p *model.ScenarioParams, pue float64) float64 {
	d, _ := demandWithRate(year, p, pue)
	return d
}

// demandWithRate also reports the exponential growth rate of the
// segment that produced the value, for trajectory diagnostics.
func demandWithRate(year int, p *model.ScenarioParams, pue float64) (float64, float64) {
	a0, a1, a2 := p.DemandAnchors[0], p.DemandAnchors[1], p.DemandAnchors[2]

	r1 := math.Log(a1.GW/a0.GW) / float64(a1.Year-a0.Year)
	r2 := math.Log(a2.GW/a1.GW) / float64(a2.Year-a1.Year)

	var d, rate float64
	switch {
	case year <= a0.Year:
		d, rate = a0.GW, r1
	case year <= a1.Year:
		d, rate = a0.GW*math.Exp(r1*float64(year-a0.Year)), r1
	default:
		d, rate = a1.GW*math.Exp(r2*float64(year-a1.Year)), r2
	}

	if !p.DemandIsFacilityLoad {
		if pue <= 0 {
			pue = DefaultPUE
		}
		d *= pue
	}
	return d, rate
}

// VerifyDemandCurve runs the strict-mode self-checks: the curve must
// reproduce the middle anchor within 3% and clear a sanity floor of
// two thirds of the final anchor. These are verification assertions,
// not production control flow; call only when StrictMode is set.
func VerifyDemandCurve(p *model.ScenarioParams, pue float64) error {
	overhead := 1.0
	if !p.DemandIsFacilityLoad {
		overhead = pue
		if overhead <= 0 {
			overhead = DefaultPUE
		}
	}

	mid := p.DemandAnchors[1]
	want := mid.GW * overhead
	got := Demand(mid.Year, p, pue)
	if math.Abs(got-want) > 0.03*want {
		return fmt.Errorf("demand curve misses middle anchor: year %d got %.2f GW, want %.2f GW ±3%%", mid.Year, got, want)
	}

	end := p.DemandAnchors[2]
	floor := end.GW * overhead * 2.0 / 3.0
	if got := Demand(end.Year, p, pue); got < floor {
		return fmt.Errorf("demand curve below sanity floor: year %d got %.2f GW, floor %.2f GW", end.Year, got, floor)
	}
	return nil
}

// BuildRate returns the buildout rate (GW/year) at the given year:
// geometric interpolation between anchors, clamped to the nearest
// anchor outside the span, then optionally smoothed with a centered,
// boundary-truncated moving average over unsmoothed samples.
func BuildRate(year int, p *model.ScenarioParams) float64 {
	w := p.SmoothingWindowYears
	if w <= 0 {
		return rawBuildRate(year, p)
	}

	first := p.BuildAnchors[0].Year
	last := p.BuildAnchors[len(p.BuildAnchors)-1].Year
	half := w / 2

	sum := 0.0
	n := 0
	for off := -half; off <= half; off++ {
		y := year + off
		if y < first {
			y = first
		} else if y > last {
			y = last
		}
		sum += rawBuildRate(y, p)
		n++
	}
	return sum / float64(n)
}

// rawBuildRate is the unsmoothed rate: log-linear between the
// bracketing anchor pair, clamped outside the anchor span.
func rawBuildRate(year int, p *model.ScenarioParams) float64 {
	anchors := p.BuildAnchors
	last := len(anchors) - 1

	if year <= anchors[0].Year {
		return anchors[0].GWPerYear
	}
	if year >= anchors[last].Year {
		return anchors[last].GWPerYear
	}
	for i := 0; i < last; i++ {
		lo, hi := anchors[i], anchors[i+1]
		if year > hi.Year {
			continue
		}
		t := float64(year-lo.Year) / float64(hi.Year-lo.Year)
		return lo.GWPerYear * math.Pow(hi.GWPerYear/lo.GWPerYear, t)
	}
	return anchors[last].GWPerYear
}

// StepMobilizationYear advances the mobilization trajectory by one
// year. A nil prev means this is the first year: previous demand is
// taken from the curve at year-1 and capacity/backlog start at zero.
// Retirements are GW of ground capacity removed this year.
func StepMobilizationYear(prev *model.YearState, p *model.ScenarioParams, year int, pue, retirements float64) model.YearState {
	demand, rate := demandWithRate(year, p, pue)

	var prevDemand, prevCapacity, prevBacklog float64
	if prev != nil {
		prevDemand = prev.DemandGW
		prevCapacity = prev.CapacityGW
		prevBacklog = prev.BacklogGW
	} else {
		prevDemand, _ = demandWithRate(year-1, p, pue)
	}

	delta := demand - prevDemand
	build := BuildRate(year, p)

	capacity := prevCapacity + build - retirements
	pipeline := build * p.PipelineLeadYears * p.PipelineFillFraction

	backlog := prevBacklog + delta - build
	if backlog < 0 {
		backlog = 0
	}

	denom := build
	if denom < waitEpsilon {
		denom = waitEpsilon
	}

	smoothing := 1.0
	if raw := rawBuildRate(year, p); raw > 0 {
		smoothing = build / raw
	}

	return model.YearState{
		Year:            year,
		DemandGW:        demand,
		DemandDeltaGW:   delta,
		BuildRateGW:     build,
		CapacityGW:      capacity,
		PipelineGW:      pipeline,
		BacklogGW:       backlog,
		AvgWaitYears:    backlog / denom,
		GrowthRate:      rate,
		SmoothingFactor: smoothing,
	}
}
