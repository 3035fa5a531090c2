package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalsfoundry/orbital-compute-sim/model"
)

// EngineCollector bundles Prometheus metrics for the simulation engine
// and provides a ready-to-serve /metrics handler.
type EngineCollector struct {
	gatherer prometheus.Gatherer

	SatellitesDeployed prometheus.Counter
	SatellitesFailed   prometheus.Counter
	SatellitesSkipped  prometheus.Counter
	ViolationsRepaired prometheus.Counter

	FleetSize    prometheus.Gauge
	DemandGW     prometheus.Gauge
	CapacityGW   prometheus.Gauge
	BacklogGW    prometheus.Gauge
	OrbitalShare prometheus.Gauge

	ShellOccupancy *prometheus.GaugeVec
}

// NewEngineCollector registers engine Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewEngineCollector(reg prometheus.Registerer) (*EngineCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &EngineCollector{gatherer: gatherer}

	var err error
	if c.SatellitesDeployed, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_satellites_deployed_total",
		Help: "Total satellites deployed across the run.",
	}), "sim_satellites_deployed_total"); err != nil {
		return nil, err
	}
	if c.SatellitesFailed, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_satellites_failed_total",
		Help: "Total satellites lost to the survival model.",
	}), "sim_satellites_failed_total"); err != nil {
		return nil, err
	}
	if c.SatellitesSkipped, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_satellites_skipped_total",
		Help: "Total satellites skipped because placement sampling was exhausted.",
	}), "sim_satellites_skipped_total"); err != nil {
		return nil, err
	}
	if c.ViolationsRepaired, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_validation_repairs_total",
		Help: "Total invariant violations fixed by the auto-repair pass.",
	}), "sim_validation_repairs_total"); err != nil {
		return nil, err
	}

	if c.FleetSize, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_fleet_size",
		Help: "Current number of alive satellites.",
	}), "sim_fleet_size"); err != nil {
		return nil, err
	}
	if c.DemandGW, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_demand_gw",
		Help: "Demand level for the most recent simulated year.",
	}), "sim_demand_gw"); err != nil {
		return nil, err
	}
	if c.CapacityGW, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_capacity_gw",
		Help: "Cumulative ground capacity for the most recent simulated year.",
	}), "sim_capacity_gw"); err != nil {
		return nil, err
	}
	if c.BacklogGW, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_backlog_gw",
		Help: "Unmet demand backlog for the most recent simulated year.",
	}), "sim_backlog_gw"); err != nil {
		return nil, err
	}
	if c.OrbitalShare, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sim_orbital_share",
		Help: "Orbital fraction of total compute, 0 to 1.",
	}), "sim_orbital_share"); err != nil {
		return nil, err
	}

	occupancy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sim_shell_occupancy",
		Help: "Satellites currently assigned to each orbital shell.",
	}, []string{"shell"})
	if c.ShellOccupancy, err = registerGaugeVec(reg, occupancy, "sim_shell_occupancy"); err != nil {
		return nil, err
	}

	return c, nil
}

// ObserveYear updates the per-year gauges from a trajectory point, the
// validated aggregate snapshot, and the current fleet size.
func (c *EngineCollector) ObserveYear(ys model.YearState, ss model.SimulationState, fleetSize int) {
	if c == nil {
		return
	}
	c.FleetSize.Set(float64(fleetSize))
	c.DemandGW.Set(ys.DemandGW)
	c.CapacityGW.Set(ys.CapacityGW)
	c.BacklogGW.Set(ys.BacklogGW)
	c.OrbitalShare.Set(ss.OrbitalShare)
	for id, n := range ss.ShellUtilization {
		c.ShellOccupancy.WithLabelValues(string(id)).Set(float64(n))
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *EngineCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
