package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signalsfoundry/orbital-compute-sim/core"
)

func TestLoadScenario_DefaultWhenNoPath(t *testing.T) {
	params, shells, err := loadScenario(&options{})
	if err != nil {
		t.Fatalf("loadScenario: %v", err)
	}
	if params.DemandAnchors != core.DefaultScenario().DemandAnchors {
		t.Fatalf("default anchors = %+v", params.DemandAnchors)
	}
	if shells != nil {
		t.Fatalf("default scenario should use the built-in shell set, got %v", shells)
	}
}

func TestLoadScenario_YAMLByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	doc := `
demand:
  curve: piecewise-exponential
  anchors:
    - {year: 2025, value: 120}
    - {year: 2040, value: 450}
    - {year: 2060, value: 3000}
  facility_load: true
buildout:
  anchors:
    - {year: 2025, value: 25}
    - {year: 2040, value: 140}
  smoothing_years: 2
pipeline:
  lead_years: 3
  fill_fraction: 0.7
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	params, _, err := loadScenario(&options{scenarioPath: path})
	if err != nil {
		t.Fatalf("loadScenario: %v", err)
	}
	if params.SmoothingWindowYears != 2 {
		t.Fatalf("smoothing = %d, want 2", params.SmoothingWindowYears)
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	if _, _, err := loadScenario(&options{scenarioPath: "/nonexistent/scenario.json"}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadScenario_RepoExample(t *testing.T) {
	path := filepath.Join("..", "..", "examples", "scenario.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("example scenario not present: %v", err)
	}
	params, shells, err := loadScenario(&options{scenarioPath: path})
	if err != nil {
		t.Fatalf("loadScenario: %v", err)
	}
	if !params.StrictMode {
		t.Fatal("example scenario should set strict mode")
	}
	if len(shells) != 4 {
		t.Fatalf("example scenario shells = %d, want 4", len(shells))
	}
}
