package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/orbital-compute-sim/core"
	"github.com/signalsfoundry/orbital-compute-sim/internal/logging"
	"github.com/signalsfoundry/orbital-compute-sim/internal/observability"
	"github.com/signalsfoundry/orbital-compute-sim/model"
	"github.com/signalsfoundry/orbital-compute-sim/timectrl"
)

type options struct {
	scenarioPath string
	years        int
	startYear    int
	strategy     string
	useMax       bool
	hazard       string
	initialFleet int
	seed         int64
	strict       bool
	interval     time.Duration
	metricsAddr  string
	trace        bool
	logLevel     string
	logFormat    string
	jsonOut      bool
}

func main() {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "simulator",
		Short:         "Year-by-year orbital compute economy simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.scenarioPath, "scenario", "", "scenario file (json or yaml); empty uses the built-in default")
	flags.IntVar(&opts.years, "years", 35, "number of simulated years")
	flags.IntVar(&opts.startYear, "start-year", 0, "first simulated year (0 = first demand anchor)")
	flags.StringVar(&opts.strategy, "strategy", string(core.StrategyConservative), "fleet growth strategy: conservative or aggressive")
	flags.BoolVar(&opts.useMax, "use-max", false, "use the upper bound of the growth multiplier range")
	flags.StringVar(&opts.hazard, "hazard", string(core.HazardBaseline), "hazard scenario: baseline, optimistic, or pessimistic")
	flags.IntVar(&opts.initialFleet, "initial-fleet", 10, "satellites deployed before the first year")
	flags.Int64Var(&opts.seed, "seed", 42, "random seed; identical seeds replay identical runs")
	flags.BoolVar(&opts.strict, "strict", false, "enable the demand-curve self-checks")
	flags.DurationVar(&opts.interval, "interval", 0, "wall-clock pacing per simulated year (0 = as fast as possible)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	flags.BoolVar(&opts.trace, "trace", false, "emit engine spans to stdout")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	flags.BoolVar(&opts.jsonOut, "json", false, "print the final trajectory as JSON on stdout")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "simulator:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	log := logging.New(logging.Config{Level: opts.logLevel, Format: opts.logFormat})

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     opts.trace,
		ServiceName: "simulator",
		SampleRatio: 1,
	}, log)
	if err != nil {
		return err
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	params, shells, err := loadScenario(opts)
	if err != nil {
		return err
	}
	params.StrictMode = params.StrictMode || opts.strict

	registry := prometheus.NewRegistry()
	collector, err := observability.NewEngineCollector(registry)
	if err != nil {
		return err
	}
	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: opts.metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn(ctx, "metrics server stopped", logging.String("error", err.Error()))
			}
		}()
		defer srv.Close()
		log.Info(ctx, "serving metrics", logging.String("addr", opts.metricsAddr))
	}

	engine, err := core.NewSimulationEngine(core.EngineConfig{
		Params:       params,
		Shells:       shells,
		Strategy:     core.GrowthStrategy(opts.strategy),
		UseMaxGrowth: opts.useMax,
		Hazard:       core.HazardScenario(opts.hazard),
		StartYear:    opts.startYear,
		InitialFleet: opts.initialFleet,
		Seed:         opts.seed,
		Logger:       log,
		Metrics:      collector,
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "simulation starting",
		logging.String("run_id", engine.RunID()),
		logging.Int("start_year", engine.Year()),
		logging.Int("years", opts.years),
		logging.String("strategy", opts.strategy),
	)

	mode := timectrl.Accelerated
	if opts.interval > 0 {
		mode = timectrl.Paced
	}
	controller := timectrl.NewController(engine.Year(), opts.interval, mode)

	step := func(ctx context.Context) error {
		sctx, span := observability.StartYearSpan(ctx, engine.Year())
		defer span.End()
		_, err := engine.StepYear(sctx)
		return err
	}
	if err := controller.Run(ctx, opts.years, step); err != nil {
		return err
	}

	log.Info(ctx, "simulation complete",
		logging.Int("fleet", len(engine.FleetSnapshot())),
		logging.Float64("survival_probability", engine.SurvivalProbability()),
	)

	if opts.jsonOut {
		return printTrajectory(engine)
	}
	return nil
}

func loadScenario(opts *options) (model.ScenarioParams, []model.Shell, error) {
	if opts.scenarioPath == "" {
		return core.DefaultScenario(), nil, nil
	}

	f, err := os.Open(opts.scenarioPath)
	if err != nil {
		return model.ScenarioParams{}, nil, err
	}
	defer f.Close()

	format := "json"
	switch strings.ToLower(filepath.Ext(opts.scenarioPath)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return core.LoadScenario(f, format)
}

func printTrajectory(engine *core.SimulationEngine) error {
	out := struct {
		RunID      string                  `json:"run_id"`
		Trajectory []model.YearState       `json:"trajectory"`
		States     []model.SimulationState `json:"states"`
	}{
		RunID:      engine.RunID(),
		Trajectory: engine.Trajectory(),
		States:     engine.States(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
