package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

func TestNewEngineCollector_RegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	c.SatellitesDeployed.Inc()
	c.SatellitesFailed.Add(2)
	c.SatellitesSkipped.Inc()
	c.ViolationsRepaired.Add(3)

	if got := testutil.ToFloat64(c.SatellitesDeployed); got != 1 {
		t.Fatalf("deployed counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.SatellitesFailed); got != 2 {
		t.Fatalf("failed counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.ViolationsRepaired); got != 3 {
		t.Fatalf("repairs counter = %v, want 3", got)
	}
}

func TestNewEngineCollector_TolerantOfDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("first NewEngineCollector: %v", err)
	}
	b, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("second NewEngineCollector against the same registry: %v", err)
	}

	// Both collectors must share the already-registered instruments.
	a.SatellitesDeployed.Inc()
	b.SatellitesDeployed.Inc()
	if got := testutil.ToFloat64(a.SatellitesDeployed); got != 2 {
		t.Fatalf("shared counter = %v, want 2", got)
	}
}

func TestObserveYear(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	ys := model.YearState{Year: 2030, DemandGW: 200, CapacityGW: 150, BacklogGW: 50}
	ss := model.SimulationState{
		Year:         2030,
		OrbitalShare: 0.1,
		ShellUtilization: map[model.ShellID]int{
			model.ShellLEO: 120,
			model.ShellGEO: 4,
		},
	}
	c.ObserveYear(ys, ss, 124)

	if got := testutil.ToFloat64(c.FleetSize); got != 124 {
		t.Fatalf("fleet size gauge = %v, want 124", got)
	}
	if got := testutil.ToFloat64(c.DemandGW); got != 200 {
		t.Fatalf("demand gauge = %v, want 200", got)
	}
	if got := testutil.ToFloat64(c.BacklogGW); got != 50 {
		t.Fatalf("backlog gauge = %v, want 50", got)
	}
	if got := testutil.ToFloat64(c.ShellOccupancy.WithLabelValues("leo")); got != 120 {
		t.Fatalf("leo occupancy gauge = %v, want 120", got)
	}

	// Nil receivers are silently ignored so callers need no guard.
	var nilCollector *EngineCollector
	nilCollector.ObserveYear(ys, ss, 1)
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}
	c.SatellitesDeployed.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sim_satellites_deployed_total 1") {
		t.Fatalf("metrics output missing deployed counter:\n%s", rec.Body.String())
	}
}
