package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

// ScenarioDocument is what a scenario file decodes into before
// validation. JSON and YAML share the same shape.
type ScenarioDocument struct {
	Demand struct {
		Curve        string       `json:"curve" yaml:"curve"`
		Anchors      []anchorPair `json:"anchors" yaml:"anchors"`
		FacilityLoad bool         `json:"facility_load" yaml:"facility_load"`
	} `json:"demand" yaml:"demand"`

	Buildout struct {
		Anchors        []anchorPair `json:"anchors" yaml:"anchors"`
		SmoothingYears int          `json:"smoothing_years" yaml:"smoothing_years"`
	} `json:"buildout" yaml:"buildout"`

	Pipeline struct {
		LeadYears    float64 `json:"lead_years" yaml:"lead_years"`
		FillFraction float64 `json:"fill_fraction" yaml:"fill_fraction"`
	} `json:"pipeline" yaml:"pipeline"`

	Strict bool `json:"strict" yaml:"strict"`

	// Shells optionally overrides the default shell set.
	Shells []shellDoc `json:"shells,omitempty" yaml:"shells,omitempty"`
}

type anchorPair struct {
	Year  int     `json:"year" yaml:"year"`
	Value float64 `json:"value" yaml:"value"`
}

type shellDoc struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	LatBandDeg     float64 `json:"lat_band_deg" yaml:"lat_band_deg"`
	AltMinKm       float64 `json:"alt_min_km" yaml:"alt_min_km"`
	AltMaxKm       float64 `json:"alt_max_km" yaml:"alt_max_km"`
	MinSeparation  float64 `json:"min_separation_deg" yaml:"min_separation_deg"`
	InclinationDeg float64 `json:"inclination_deg,omitempty" yaml:"inclination_deg,omitempty"`
	SunSynchronous bool    `json:"sun_synchronous,omitempty" yaml:"sun_synchronous,omitempty"`
	Capacity       int     `json:"capacity" yaml:"capacity"`
	Priority       int     `json:"priority" yaml:"priority"`
}

// DefaultScenario returns the stock scenario: facility-load demand
// anchored at 2025/2040/2060 (120/450/3000 GW) with buildout anchors
// 2025/2030/2040/2060 (25/60/140/220 GW/yr).
func DefaultScenario() model.ScenarioParams {
	return model.ScenarioParams{
		DemandAnchors: [3]model.DemandAnchor{
			{Year: 2025, GW: 120},
			{Year: 2040, GW: 450},
			{Year: 2060, GW: 3000},
		},
		DemandCurve:          model.DemandCurvePiecewiseExponential,
		DemandIsFacilityLoad: true,
		BuildAnchors: []model.BuildAnchor{
			{Year: 2025, GWPerYear: 25},
			{Year: 2030, GWPerYear: 60},
			{Year: 2040, GWPerYear: 140},
			{Year: 2060, GWPerYear: 220},
		},
		SmoothingWindowYears: 4,
		PipelineLeadYears:    3,
		PipelineFillFraction: 0.7,
	}
}

// LoadScenario decodes a scenario document from r (format "json" or
// "yaml") and validates it. Shell overrides come back alongside the
// params; nil means the caller should use DefaultShellSet.
//
// Validation failures here are configuration errors: they happen once,
// at load time, never during stepping.
func LoadScenario(r io.Reader, format string) (model.ScenarioParams, []model.Shell, error) {
	var doc ScenarioDocument
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil {
			return model.ScenarioParams{}, nil, fmt.Errorf("LoadScenario: yaml decode failed: %w", err)
		}
	case "json", "":
		dec := json.NewDecoder(r)
		if err := dec.Decode(&doc); err != nil {
			return model.ScenarioParams{}, nil, fmt.Errorf("LoadScenario: json decode failed: %w", err)
		}
	default:
		return model.ScenarioParams{}, nil, fmt.Errorf("LoadScenario: unsupported format %q", format)
	}

	params, err := paramsFromDocument(&doc)
	if err != nil {
		return model.ScenarioParams{}, nil, err
	}

	var shells []model.Shell
	if len(doc.Shells) > 0 {
		shells = make([]model.Shell, 0, len(doc.Shells))
		for _, s := range doc.Shells {
			shells = append(shells, model.Shell{
				ID:               model.ShellID(s.ID),
				Name:             s.Name,
				LatBandDeg:       s.LatBandDeg,
				AltMinKm:         s.AltMinKm,
				AltMaxKm:         s.AltMaxKm,
				MinSeparationDeg: s.MinSeparation,
				InclinationDeg:   s.InclinationDeg,
				SunSynchronous:   s.SunSynchronous,
				Capacity:         s.Capacity,
				Priority:         s.Priority,
			})
		}
		// Surface shell configuration errors at load time too.
		if _, err := NewShellAssigner(shells); err != nil {
			return model.ScenarioParams{}, nil, err
		}
	}

	return params, shells, nil
}

func paramsFromDocument(doc *ScenarioDocument) (model.ScenarioParams, error) {
	if len(doc.Demand.Anchors) != 3 {
		return model.ScenarioParams{}, fmt.Errorf("%w: need exactly three demand anchors, got %d",
			model.ErrBadAnchorOrder, len(doc.Demand.Anchors))
	}

	params := model.ScenarioParams{
		DemandCurve:          model.DemandCurveKind(doc.Demand.Curve),
		DemandIsFacilityLoad: doc.Demand.FacilityLoad,
		SmoothingWindowYears: doc.Buildout.SmoothingYears,
		PipelineLeadYears:    doc.Pipeline.LeadYears,
		PipelineFillFraction: doc.Pipeline.FillFraction,
		StrictMode:           doc.Strict,
	}
	for i, a := range doc.Demand.Anchors {
		params.DemandAnchors[i] = model.DemandAnchor{Year: a.Year, GW: a.Value}
	}
	for _, a := range doc.Buildout.Anchors {
		params.BuildAnchors = append(params.BuildAnchors, model.BuildAnchor{Year: a.Year, GWPerYear: a.Value})
	}

	if err := params.Validate(); err != nil {
		return model.ScenarioParams{}, err
	}
	return params, nil
}
