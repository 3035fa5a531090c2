package core

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/signalsfoundry/orbital-compute-sim/fleet"
	"github.com/signalsfoundry/orbital-compute-sim/internal/logging"
	"github.com/signalsfoundry/orbital-compute-sim/internal/observability"
	"github.com/signalsfoundry/orbital-compute-sim/model"
)

const (
	yearSeconds      = 365.25 * 86400
	speedOfLightKmMs = 299.792458
	hoursPerYear     = 8760.0
	congestionDecay  = 0.8
	congestionWeight = 0.2
)

// Economics holds the coarse cost/latency/carbon coefficients used to
// build the aggregate snapshot. Precision is explicitly not a goal;
// these exist so dashboards have plausible trajectories to draw.
type Economics struct {
	SatelliteComputeGW  float64 // compute per satellite
	SatelliteCostB      float64 // amortized cost per satellite, $B/year
	GroundCostPerGWB    float64 // amortized cost per GW of ground capacity, $B/year
	GroundLatencyMs     float64
	GroundCarbonTPerGWh float64 // tonnes CO2 per GWh of ground load
	LaunchCarbonT       float64 // amortized launch carbon per satellite, t/year
}

// DefaultEconomics returns the stock coefficient set.
func DefaultEconomics() Economics {
	return Economics{
		SatelliteComputeGW:  0.001,
		SatelliteCostB:      0.05,
		GroundCostPerGWB:    9.0,
		GroundLatencyMs:     15.0,
		GroundCarbonTPerGWh: 400.0,
		LaunchCarbonT:       300.0,
	}
}

// EnvironmentConfig feeds the survival model's per-year inputs.
type EnvironmentConfig struct {
	ShieldingMassFraction float64
	CoreTempC             float64
	DesignTempC           float64
	RadiatorUtilization   float64
	RepairCapacity        float64 // satellites serviceable per year
}

// DefaultEnvironment returns a mildly stressed thermal/radiation budget.
func DefaultEnvironment() EnvironmentConfig {
	return EnvironmentConfig{
		ShieldingMassFraction: 0.15,
		CoreTempC:             45,
		DesignTempC:           40,
		RadiatorUtilization:   0.9,
		RepairCapacity:        0,
	}
}

// EngineConfig assembles everything a simulation run needs. Zero values
// fall back to documented defaults; Params is validated at construction
// so configuration errors never surface mid-run.
type EngineConfig struct {
	Params model.ScenarioParams

	// Shells defaults to DefaultShellSet when nil.
	Shells []model.Shell

	// PUE converts IT load to facility load; <= 0 uses DefaultPUE.
	PUE float64

	Strategy     GrowthStrategy
	UseMaxGrowth bool
	Hazard       HazardScenario

	Placement   PlacementConfig
	Economics   Economics
	Environment EnvironmentConfig

	// StartYear defaults to the first demand anchor year.
	StartYear int

	// InitialFleet satellites are deployed at construction so the
	// production law has something to multiply.
	InitialFleet int

	AnnualRetirementsGW float64

	// Seed fixes the run's random stream; identical seeds replay
	// identical placements and attrition.
	Seed int64

	Logger  logging.Logger
	Metrics *observability.EngineCollector
}

// SimulationEngine owns the canonical fleet, the trajectory, and all
// per-run counters. The core is single-threaded: one tick is atomic and
// consumers only ever read value snapshots between ticks.
type SimulationEngine struct {
	params    model.ScenarioParams
	pue       float64
	strategy  GrowthStrategy
	useMax    bool
	hazard    HazardScenario
	placement PlacementConfig
	eco       Economics
	env       EnvironmentConfig

	retirementsGW float64

	assigner *ShellAssigner
	fleet    *fleet.Store
	rng      *rand.Rand
	runID    string

	log     logging.Logger
	metrics *observability.EngineCollector

	nextYear         int
	trajectory       []model.YearState
	states           []model.SimulationState
	cumulativeHazard float64

	// congestion is an EWMA of recent placement rejections per shell,
	// the assignment scorer's first input.
	congestion map[model.ShellID]float64

	tickListeners []func(model.YearState, model.SimulationState)
}

// NewSimulationEngine validates the configuration and builds a run.
// Configuration errors (bad anchors, unknown strategy, malformed
// shells) surface here, never during stepping.
func NewSimulationEngine(cfg EngineConfig) (*SimulationEngine, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	pue := cfg.PUE
	if pue <= 0 {
		pue = DefaultPUE
	}
	if cfg.Params.StrictMode {
		if err := VerifyDemandCurve(&cfg.Params, pue); err != nil {
			return nil, fmt.Errorf("strict mode: %w", err)
		}
	}

	strategy := cfg.Strategy
	if strategy == "" {
		strategy = StrategyConservative
	}
	if _, _, err := growthBounds(strategy); err != nil {
		return nil, err
	}

	shells := cfg.Shells
	if shells == nil {
		shells = DefaultShellSet()
	}
	assigner, err := NewShellAssigner(shells)
	if err != nil {
		return nil, err
	}

	placement := cfg.Placement
	if placement.MaxAttempts <= 0 {
		placement = DefaultPlacementConfig()
	}
	eco := cfg.Economics
	if eco == (Economics{}) {
		eco = DefaultEconomics()
	}
	env := cfg.Environment
	if env == (EnvironmentConfig{}) {
		env = DefaultEnvironment()
	}
	hazard := cfg.Hazard
	if hazard == "" {
		hazard = HazardBaseline
	}

	startYear := cfg.StartYear
	if startYear == 0 {
		startYear = cfg.Params.DemandAnchors[0].Year
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Noop()
	}
	runID := uuid.NewString()
	log = log.With(logging.String("run_id", runID))

	e := &SimulationEngine{
		params:        cfg.Params,
		pue:           pue,
		strategy:      strategy,
		useMax:        cfg.UseMaxGrowth,
		hazard:        hazard,
		placement:     placement,
		eco:           eco,
		env:           env,
		retirementsGW: cfg.AnnualRetirementsGW,
		assigner:      assigner,
		fleet:         fleet.NewStore(),
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		runID:         runID,
		log:           log,
		metrics:       cfg.Metrics,
		nextYear:      startYear,
		congestion:    make(map[model.ShellID]float64, len(shells)),
	}

	if cfg.InitialFleet > 0 {
		if _, _, err := e.deployBatch(context.Background(), cfg.InitialFleet, ""); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// RunID identifies this simulation run in logs and snapshots.
func (e *SimulationEngine) RunID() string { return e.runID }

// Year returns the next year the engine will simulate.
func (e *SimulationEngine) Year() int { return e.nextYear }

// RegisterTickListener adds a callback invoked after every completed,
// validated tick.
func (e *SimulationEngine) RegisterTickListener(fn func(model.YearState, model.SimulationState)) {
	e.tickListeners = append(e.tickListeners, fn)
}

// StepYear advances the simulation by one year: mobilization step,
// production-law deployment, attrition roll, phase propagation, then
// aggregate validation. The returned error is fatal; the run must stop.
func (e *SimulationEngine) StepYear(ctx context.Context) (model.YearState, error) {
	year := e.nextYear

	var prev *model.YearState
	if n := len(e.trajectory); n > 0 {
		prev = &e.trajectory[n-1]
	}
	ys := StepMobilizationYear(prev, &e.params, year, e.pue, e.retirementsGW)

	// Production law decides how many satellites to add this year.
	toDeploy := 0
	if current := e.fleet.Count(); current > 0 {
		target, err := NextFleetCount(current, e.strategy, e.useMax)
		if err != nil {
			return model.YearState{}, err
		}
		toDeploy = target - current
	}
	deployed, skipped, err := e.deployBatch(ctx, toDeploy, "")
	if err != nil {
		return model.YearState{}, err
	}

	// Attrition against the fleet as it stands after deployment.
	rate := ComputeAnnualFailureRate(e.survivalInputs(), e.hazard)
	e.cumulativeHazard += rate
	failed := 0
	for _, id := range e.fleet.IDs() {
		if e.rng.Float64() < rate {
			if _, err := e.fleet.Remove(id, fleet.EventFailed); err == nil {
				failed++
			}
		}
	}
	if e.metrics != nil {
		e.metrics.SatellitesFailed.Add(float64(failed))
	}

	e.propagateFleet()

	state := e.aggregate(year, ys)
	result, err := ValidateAndRepair(state)
	if err != nil {
		e.log.Error(ctx, "simulation state unrepairable, stopping run",
			logging.Int("year", year),
			logging.String("error", err.Error()),
		)
		return model.YearState{}, err
	}
	if result.Repaired {
		if e.metrics != nil {
			e.metrics.ViolationsRepaired.Add(float64(len(result.Violations)))
		}
		for _, v := range result.Violations {
			e.log.Warn(ctx, "repaired invariant violation",
				logging.Int("year", year),
				logging.String("violation", v.String()),
			)
		}
	}
	for _, w := range result.Warnings {
		e.log.Warn(ctx, "validation warning",
			logging.Int("year", year),
			logging.String("warning", w.String()),
		)
	}

	e.trajectory = append(e.trajectory, ys)
	e.states = append(e.states, result.State)
	e.nextYear = year + 1

	if e.metrics != nil {
		e.metrics.ObserveYear(ys, result.State, e.fleet.Count())
	}
	for _, fn := range e.tickListeners {
		fn(ys, result.State)
	}

	e.log.Info(ctx, "year complete",
		logging.Int("year", year),
		logging.Float64("demand_gw", ys.DemandGW),
		logging.Float64("capacity_gw", ys.CapacityGW),
		logging.Float64("backlog_gw", ys.BacklogGW),
		logging.Int("fleet", e.fleet.Count()),
		logging.Int("deployed", deployed),
		logging.Int("skipped", skipped),
		logging.Int("failed", failed),
		logging.Float64("failure_rate", rate),
		logging.Float64("orbital_share", result.State.OrbitalShare),
	)
	return ys, nil
}

// Run advances the given number of years, stopping on context
// cancellation or a fatal validation error.
func (e *SimulationEngine) Run(ctx context.Context, years int) error {
	for i := 0; i < years; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := e.StepYear(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Deploy is the explicit deployment command: add n satellites now,
// optionally forcing them into a specific shell (forced assignment is
// still capacity-checked). Returns how many were deployed and how many
// were skipped by placement exhaustion.
func (e *SimulationEngine) Deploy(ctx context.Context, n int, forced model.ShellID) (deployed, skipped int, err error) {
	return e.deployBatch(ctx, n, forced)
}

func (e *SimulationEngine) deployBatch(ctx context.Context, n int, forced model.ShellID) (deployed, skipped int, err error) {
	for i := 0; i < n; i++ {
		shell, err := e.assigner.Assign(e.congestion, e.fleet.OccupancyByShell(), forced)
		if err != nil {
			// Capacity exhaustion is soft for scored assignment: the
			// remaining satellites of the batch are skipped.
			if forced == "" {
				e.log.Warn(ctx, "no shell can take more satellites",
					logging.Int("remaining", n-i),
				)
				skipped += n - i
				break
			}
			return deployed, skipped, err
		}

		existing := e.fleet.PositionsInShell(shell.ID)
		geo, cart, perr := GeneratePosition(e.rng, shell, existing, e.placement)
		if perr != nil {
			e.bumpCongestion(shell.ID, 1)
			if e.metrics != nil {
				e.metrics.SatellitesSkipped.Inc()
			}
			e.log.Warn(ctx, "placement sampling exhausted, skipping satellite",
				logging.String("shell", string(shell.ID)),
				logging.Int("attempts", e.placement.MaxAttempts),
			)
			if !e.placement.SkipOnExhaustion {
				return deployed, skipped, perr
			}
			skipped++
			continue
		}
		e.bumpCongestion(shell.ID, 0)

		inclination := shell.LatBandDeg
		if shell.SunSynchronous {
			inclination = shell.InclinationDeg
		}
		radius := 1 + geo.AltKm/EarthRadiusKm

		sat := model.Satellite{
			ID:        e.fleet.AllocateID(),
			Shell:     shell.ID,
			Class:     classForShell(shell),
			Geodetic:  geo,
			Cartesian: cart,
			Orbit: model.OrbitState{
				RadiusEarths:   radius,
				InclinationDeg: inclination,
				PhaseRad:       2 * math.Pi * e.rng.Float64(),
				PeriodSeconds:  OrbitalPeriodSeconds(radius),
				LaunchedYear:   e.nextYear,
			},
		}
		if err := e.fleet.Add(sat); err != nil {
			return deployed, skipped, err
		}
		if e.metrics != nil {
			e.metrics.SatellitesDeployed.Inc()
		}
		deployed++
	}
	return deployed, skipped, nil
}

// bumpCongestion folds a placement outcome (1 = rejected, 0 = placed)
// into the shell's congestion estimate.
func (e *SimulationEngine) bumpCongestion(id model.ShellID, outcome float64) {
	e.congestion[id] = congestionDecay*e.congestion[id] + congestionWeight*outcome
}

func classForShell(s model.Shell) model.SatelliteClass {
	switch {
	case s.SunSynchronous:
		return model.SatClassObservation
	case s.ID == model.ShellGEO:
		return model.SatClassRelay
	default:
		return model.SatClassCompute
	}
}

// survivalInputs aggregates the fleet's shell mix into the hazard
// model's inputs: flux ratio is the occupancy-weighted mean of the
// per-shell flux ratios.
func (e *SimulationEngine) survivalInputs() SurvivalInputs {
	occ := e.fleet.OccupancyByShell()
	total := 0
	flux := 0.0
	for id, n := range occ {
		flux += FluxRatioForShell(id) * float64(n)
		total += n
	}
	if total > 0 {
		flux /= float64(total)
	} else {
		flux = 1
	}

	return SurvivalInputs{
		OrbitalFluxRatio:      flux,
		ShieldingMassFraction: e.env.ShieldingMassFraction,
		CoreTempC:             e.env.CoreTempC,
		DesignTempC:           e.env.DesignTempC,
		RadiatorUtilization:   e.env.RadiatorUtilization,
		RepairCapacity:        e.env.RepairCapacity,
		AliveCount:            total,
	}
}

// propagateFleet advances every satellite's phase angle by one year of
// circular-orbit motion and rederives its position. This is the
// simplified propagation model; orbital-mechanics fidelity is a
// non-goal.
func (e *SimulationEngine) propagateFleet() {
	for _, sat := range e.fleet.List() {
		if sat.Orbit.PeriodSeconds <= 0 {
			continue
		}
		delta := 2 * math.Pi * math.Mod(yearSeconds/sat.Orbit.PeriodSeconds, 1)
		phase := math.Mod(sat.Orbit.PhaseRad+delta, 2*math.Pi)

		incl := sat.Orbit.InclinationDeg * degToRad
		lat := math.Asin(math.Sin(incl)*math.Sin(phase)) * radToDeg
		lon := wrapLongitude(sat.Geodetic.LonDeg + delta*radToDeg)

		geo := model.GeodeticPosition{LatDeg: lat, LonDeg: lon, AltKm: sat.Geodetic.AltKm}
		_ = e.fleet.UpdateOrbit(sat.ID, phase, geo, ToCartesian(geo))
	}
}

func wrapLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// aggregate builds the per-year SimulationState handed to the
// validator and, from there, to consumers.
func (e *SimulationEngine) aggregate(year int, ys model.YearState) model.SimulationState {
	sats := e.fleet.List()
	count := len(sats)

	orbital := float64(count) * e.eco.SatelliteComputeGW
	ground := ys.CapacityGW
	if ground < 0 {
		ground = 0
	}
	total := orbital + ground

	share := 0.0
	if total > 0 {
		share = orbital / total
	}

	orbitalLatency := e.eco.GroundLatencyMs
	if count > 0 {
		meanAlt := 0.0
		for _, s := range sats {
			meanAlt += s.Geodetic.AltKm
		}
		meanAlt /= float64(count)
		orbitalLatency = 2 * meanAlt / speedOfLightKmMs
	}
	latency := share*orbitalLatency + (1-share)*e.eco.GroundLatencyMs

	carbon := ground*hoursPerYear*e.eco.GroundCarbonTPerGWh + float64(count)*e.eco.LaunchCarbonT

	capacity := make(map[model.ShellID]int)
	for _, s := range e.assigner.Shells() {
		capacity[s.ID] = s.Capacity
	}
	utilization := e.fleet.OccupancyByShell()
	for id := range capacity {
		if _, ok := utilization[id]; !ok {
			utilization[id] = 0
		}
	}

	return model.SimulationState{
		Year:             year,
		TotalComputeGW:   total,
		OrbitalComputeGW: orbital,
		GroundComputeGW:  ground,
		TotalCostB:       float64(count)*e.eco.SatelliteCostB + ground*e.eco.GroundCostPerGWB,
		OrbitalCostB:     float64(count) * e.eco.SatelliteCostB,
		GroundCostB:      ground * e.eco.GroundCostPerGWB,
		AvgLatencyMs:     latency,
		CarbonTonnes:     carbon,
		OrbitalShare:     share,
		ShellCapacity:    capacity,
		ShellUtilization: utilization,
	}
}

// Trajectory returns a copy of the append-only YearState sequence.
func (e *SimulationEngine) Trajectory() []model.YearState {
	out := make([]model.YearState, len(e.trajectory))
	copy(out, e.trajectory)
	return out
}

// States returns copies of the validated aggregate snapshots.
func (e *SimulationEngine) States() []model.SimulationState {
	out := make([]model.SimulationState, 0, len(e.states))
	for _, s := range e.states {
		out = append(out, s.Clone())
	}
	return out
}

// CurrentState returns the most recent validated snapshot.
func (e *SimulationEngine) CurrentState() (model.SimulationState, bool) {
	if len(e.states) == 0 {
		return model.SimulationState{}, false
	}
	return e.states[len(e.states)-1].Clone(), true
}

// FleetSnapshot returns value copies of the fleet in deployment order.
func (e *SimulationEngine) FleetSnapshot() []model.Satellite {
	return e.fleet.List()
}

// CumulativeHazard is the running sum of annual failure rates.
func (e *SimulationEngine) CumulativeHazard() float64 { return e.cumulativeHazard }

// SurvivalProbability is the probability a day-one satellite is still
// alive, exp(−cumulative hazard).
func (e *SimulationEngine) SurvivalProbability() float64 {
	return CumulativeSurvival(e.cumulativeHazard)
}
