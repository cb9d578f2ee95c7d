package world

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nav-planner/pkg/behavior"
	"nav-planner/pkg/config"
	"nav-planner/pkg/geom"
	"nav-planner/pkg/navgraph"
)

func arenaGraph(t *testing.T, w *World, strategy string) (*navgraph.Graph, *Ground) {
	t.Helper()
	cfg := config.Default()
	cfg.Navigation.Strategy = strategy
	ground := NewGround(w.Floors, cfg.Simulation.GroundUp, cfg.Simulation.GroundDown)
	g := navgraph.New(
		navgraph.WithLogger(quietLogger()),
		navgraph.WithRand(rand.New(rand.NewPCG(3, 4))),
		navgraph.WithGroundProbe(ground),
	)
	require.NoError(t, w.BuildGraph(g, cfg.Navigation, ground))
	return g, ground
}

func TestBuildGraphStrategies(t *testing.T) {
	w := loadArena(t)

	g, _ := arenaGraph(t, w, navgraph.StrategyStatic)
	assert.Equal(t, 3+2, g.Len(), "static nodes plus hiding spots")

	g, _ = arenaGraph(t, w, navgraph.StrategyGrid)
	assert.Equal(t, 11*11+2, g.Len())
	assert.Equal(t, navgraph.StrategyGrid, g.Strategy())

	g, _ = arenaGraph(t, w, navgraph.StrategyRooms)
	assert.Equal(t, 3+2, g.Len())
	hall, ok := g.Node(2)
	require.True(t, ok)
	assert.Equal(t, navgraph.KindCorridor, hall.Kind)

	err := w.BuildGraph(navgraph.New(navgraph.WithLogger(quietLogger())), config.NavigationConfig{Strategy: "navmesh"}, nil)
	assert.Error(t, err)
}

func TestBuildGraphPublishesSpotsWithNodes(t *testing.T) {
	w := loadArena(t)
	nav := config.Default().Navigation
	nav.Strategy = navgraph.StrategyStatic
	g := navgraph.New(navgraph.WithLogger(quietLogger()))

	hidingSpots := func(nodes []navgraph.Node) int {
		count := 0
		for _, n := range nodes {
			if n.Kind == navgraph.KindHidingSpot {
				count++
			}
		}
		return count
	}

	var (
		stop    atomic.Bool
		partial atomic.Int64
		readers sync.WaitGroup
	)
	readers.Add(1)
	go func() {
		defer readers.Done()
		for !stop.Load() {
			nodes := g.Nodes()
			if len(nodes) > 0 && hidingSpots(nodes) != len(w.Spots) {
				partial.Add(1)
			}
		}
	}()

	for round := 0; round < 200; round++ {
		var builders sync.WaitGroup
		for i := 0; i < 2; i++ {
			builders.Add(1)
			go func() {
				defer builders.Done()
				assert.NoError(t, w.BuildGraph(g, nav, nil))
			}()
		}
		builders.Wait()
	}
	stop.Store(true)
	readers.Wait()

	assert.Zero(t, partial.Load(), "a reader saw a rebuilt graph without its hiding spots")
	assert.Equal(t, uint64(400), g.Generation(), "one generation per rebuild")
	assert.Equal(t, 2, hidingSpots(g.Nodes()))
}

func TestSimPatrolsOnGrid(t *testing.T) {
	w := loadArena(t)
	g, ground := arenaGraph(t, w, navgraph.StrategyGrid)
	cfg := config.Default()

	agent := behavior.NewController(g, ground,
		behavior.WithLogger(quietLogger()),
		behavior.WithConfig(cfg.Behavior.Controller()),
	)
	sim := NewSim(agent, NewHealth(1), w.Spawn, cfg.Simulation, WithSimLogger(quietLogger()))

	summary := sim.Run(context.Background(), 50)
	assert.Equal(t, 50, summary.Ticks)
	assert.NotEqual(t, w.Spawn, summary.Position, "agent moved along its patrol path")
}

func TestSimEngagesVisibleOpponent(t *testing.T) {
	w := loadArena(t)
	g, ground := arenaGraph(t, w, navgraph.StrategyGrid)
	cfg := config.Default()
	walls := NewWalls(w.Walls)

	agent := behavior.NewController(g, ground,
		behavior.WithLogger(quietLogger()),
		behavior.WithSight(walls),
	)
	opponent := NewOpponent("player", []geom.Vec3{geom.V(400, 100, 0)}, 0)
	health := NewHealth(1)
	sim := NewSim(agent, health, geom.V(100, 100, 0), cfg.Simulation,
		WithOpponent(opponent),
		WithSight(walls),
		WithSimLogger(quietLogger()),
	)

	intent := sim.Tick()
	assert.Equal(t, behavior.Engage, intent.State)
	assert.Equal(t, "player", agent.Snapshot().Opponent)
	assert.Less(t, health.Fraction(), 1.0, "engaging costs health")
}

func TestSimHidesOpponentBehindWall(t *testing.T) {
	w := loadArena(t)
	g, ground := arenaGraph(t, w, navgraph.StrategyGrid)
	cfg := config.Default()
	walls := NewWalls(w.Walls)

	agent := behavior.NewController(g, ground, behavior.WithLogger(quietLogger()), behavior.WithSight(walls))
	opponent := NewOpponent("player", []geom.Vec3{geom.V(900, 500, 0)}, 0)
	sim := NewSim(agent, NewHealth(1), geom.V(100, 500, 0), cfg.Simulation,
		WithOpponent(opponent), WithSight(walls), WithSimLogger(quietLogger()))

	assert.Equal(t, behavior.Patrol, sim.Tick().State)
	assert.Empty(t, agent.Snapshot().Opponent)
}

func TestSimNonAuthoritative(t *testing.T) {
	w := loadArena(t)
	g, ground := arenaGraph(t, w, navgraph.StrategyGrid)
	cfg := config.Default()

	agent := behavior.NewController(g, ground, behavior.WithLogger(quietLogger()))
	sim := NewSim(agent, NewHealth(1), w.Spawn, cfg.Simulation,
		WithAuthority(func() bool { return false }), WithSimLogger(quietLogger()))

	for i := 0; i < 10; i++ {
		sim.Tick()
	}
	assert.Equal(t, w.Spawn, sim.Position())
	assert.Zero(t, agent.Snapshot().PathLength)
}

func TestSimRunStopsOnCancel(t *testing.T) {
	w := loadArena(t)
	g, ground := arenaGraph(t, w, navgraph.StrategyGrid)
	agent := behavior.NewController(g, ground, behavior.WithLogger(quietLogger()))
	sim := NewSim(agent, NewHealth(1), w.Spawn, config.Default().Simulation, WithSimLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Zero(t, sim.Run(ctx, 100).Ticks)
}
