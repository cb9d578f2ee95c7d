package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"nav-planner/pkg/behavior"
	"nav-planner/pkg/world"
)

func RunCmd(opts *globalOptions) *cobra.Command {
	var (
		ticks       int
		metricsAddr string
	)
	c := &cobra.Command{
		Use:   "run",
		Short: "simulate one enemy agent in the world",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ticks") {
				env.cfg.Simulation.Ticks = ticks
			}
			if metricsAddr != "" {
				env.cfg.Metrics.Addr = metricsAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSim(ctx, env, cmd)
		},
	}
	c.Flags().IntVar(&ticks, "ticks", 0, "number of ticks to simulate (overrides config)")
	c.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return c
}

func runSim(ctx context.Context, env *environment, cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)

	if env.cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: env.cfg.Metrics.Addr, Handler: env.metrics.Handler()}
		group.Go(func() error {
			env.logger.Info("serving metrics", "addr", env.cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		group.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			return srv.Shutdown(shutdownCtx)
		})
	}

	spawn := env.world.Spawn
	if !env.world.HasSpawn {
		if pos := env.graph.WaypointPositions(); len(pos) > 0 {
			spawn = pos[0]
		}
	}

	walls := world.NewWalls(world.CleanWalls(env.world.Walls, env.cfg.Simulation.WallSimplify, env.logger))
	spots := behavior.NewHidingSpots(env.world.HidingSpots, env.cfg.Behavior.HidingSpotRadius)
	agent := behavior.NewController(env.graph, env.groundProbe(),
		behavior.WithConfig(env.cfg.Behavior.Controller()),
		behavior.WithSight(walls),
		behavior.WithHidingSpots(spots),
		behavior.WithLogger(env.logger),
		behavior.WithMetrics(env.metrics),
	)

	simOpts := []world.SimOption{world.WithSight(walls), world.WithSimLogger(env.logger)}
	if len(env.world.Route) > 0 {
		simOpts = append(simOpts, world.WithOpponent(world.NewOpponent("player", env.world.Route, env.cfg.Simulation.OpponentSpeed)))
	}
	sim := world.NewSim(agent, world.NewHealth(1), spawn, env.cfg.Simulation, simOpts...)

	var summary world.Summary
	group.Go(func() error {
		defer cancel()
		summary = sim.Run(ctx, env.cfg.Simulation.Ticks)
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "agent:      %s\n", summary.Agent.Agent)
	fmt.Fprintf(out, "ticks:      %d (%s simulated)\n", summary.Ticks, summary.Elapsed)
	fmt.Fprintf(out, "state:      %s\n", summary.Agent.State)
	fmt.Fprintf(out, "position:   %s\n", summary.Position)
	fmt.Fprintf(out, "health:     %.2f\n", summary.Health)
	fmt.Fprintf(out, "examined:   %d hiding spots\n", summary.Agent.Examined)
	return nil
}
