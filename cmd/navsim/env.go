package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"nav-planner/pkg/config"
	"nav-planner/pkg/metrics"
	"nav-planner/pkg/navgraph"
	"nav-planner/pkg/world"
)

// globalOptions are the flags shared by every subcommand
type globalOptions struct {
	configFile string
	worldPath  string
	strategy   string
	logLevel   string
}

// environment is everything a subcommand needs once the world is loaded
type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Registry
	world   *world.World
	ground  *world.Ground
	graph   *navgraph.Graph
}

// loadConfig reads the config file (or defaults) and applies flag overrides
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.strategy != "" {
		cfg.Navigation.Strategy = o.strategy
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads config and world and builds the graph
func (o *globalOptions) setup() (*environment, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logging.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	reg := metrics.NewRegistry()

	w, err := world.Load(o.worldPath, logger)
	if err != nil {
		return nil, err
	}
	ground := world.NewGround(w.Floors, cfg.Simulation.GroundUp, cfg.Simulation.GroundDown)

	graphOpts := []navgraph.Option{
		navgraph.WithLogger(logger),
		navgraph.WithMetrics(reg),
		navgraph.WithDiagonal(cfg.Navigation.Diagonal),
	}
	if cfg.Navigation.GroundCheck && ground.Len() > 0 {
		graphOpts = append(graphOpts, navgraph.WithGroundProbe(ground))
	}
	if seed := cfg.Navigation.Seed; seed != 0 {
		graphOpts = append(graphOpts, navgraph.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	g := navgraph.New(graphOpts...)

	if err := w.BuildGraph(g, cfg.Navigation, ground); err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	return &environment{
		cfg:     cfg,
		logger:  logger,
		metrics: reg,
		world:   w,
		ground:  ground,
		graph:   g,
	}, nil
}

// groundProbe returns the ground probe for agents, or nil when the world has no floors
func (e *environment) groundProbe() navgraph.GroundProbe {
	if e.ground.Len() == 0 {
		return nil
	}
	return e.ground
}
