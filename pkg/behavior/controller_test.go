package behavior

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nav-planner/pkg/geom"
	"nav-planner/pkg/metrics"
	"nav-planner/pkg/navgraph"
)

func step(c *Controller, pos geom.Vec3, health float64) Intent {
	return c.Step(Tick{Delta: time.Second, Position: pos, Health: health})
}

func TestPatrolWithoutTriggersNeverTransitions(t *testing.T) {
	paths := farPaths()
	c := newTestController(paths, &toggleGround{ok: true}, WithHidingSpots(spotsAt(geom.V(10000, 0, 0))))

	for i := 0; i < 50; i++ {
		intent := step(c, geom.V(0, 0, 0), 1)
		assert.Equal(t, Patrol, intent.State)
	}
	assert.Equal(t, Patrol, c.State())
	assert.Equal(t, []string{"random_path"}, paths.calls, "path is requested once and then followed")
}

func TestPatrolFollowsRandomPathTail(t *testing.T) {
	paths := farPaths()
	c := newTestController(paths, nil)

	intent := step(c, geom.V(0, 5950, 0), 1)
	assert.Equal(t, geom.V(0, 1, 0), intent.Direction)
	assert.Equal(t, 3, c.Snapshot().PathLength, "waypoint within tolerance is popped")
}

func TestEngageToEvadeWhenHealthDrops(t *testing.T) {
	paths := farPaths()
	c := newTestController(paths, &toggleGround{ok: true}, WithSight(&toggleSight{visible: true}))
	require.True(t, c.OnSensed(Sensed{Kind: EntityPlayer, Target: &fakeTarget{id: "player-1", pos: geom.V(500, 0, 0)}}))

	intent := step(c, geom.V(0, 0, 0), 0.5)
	assert.Equal(t, Engage, intent.State)
	assert.Equal(t, "path", paths.last())

	intent = step(c, geom.V(0, 0, 0), 0.3)
	assert.Equal(t, Evade, intent.State)
	assert.Equal(t, "path_away", paths.last(), "fresh path_away request after the transition")
	assert.Equal(t, len(paths.away), c.Snapshot().PathLength, "engage path was cleared")
	assert.Equal(t, geom.V(-1, 0, 0), intent.Direction)
}

func TestPatrolTransitionsOnPerception(t *testing.T) {
	tests := []struct {
		name   string
		health float64
		want   State
		query  string
	}{
		{"healthy engages", 0.4, Engage, "path"},
		{"wounded evades", 0.39, Evade, "path_away"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := farPaths()
			c := newTestController(paths, nil)
			c.OnSensed(Sensed{Kind: EntityPlayer, Target: &fakeTarget{id: "p", pos: geom.V(100, 0, 0)}})

			intent := step(c, geom.V(0, 0, 0), tt.health)
			assert.Equal(t, tt.want, intent.State)
			assert.Equal(t, []string{tt.query}, paths.calls)
		})
	}
}

func TestEvadeRecoversToEngage(t *testing.T) {
	paths := farPaths()
	c := newTestController(paths, nil)
	c.OnSensed(Sensed{Kind: EntityPlayer, Target: &fakeTarget{id: "p", pos: geom.V(100, 0, 0)}})

	assert.Equal(t, Evade, step(c, geom.V(0, 0, 0), 0.1).State)
	assert.Equal(t, Engage, step(c, geom.V(0, 0, 0), 0.9).State)
	assert.Equal(t, []string{"path_away", "path"}, paths.calls)
}

func TestLosingSightReturnsToPatrol(t *testing.T) {
	for _, health := range []float64{0.9, 0.1} {
		paths := farPaths()
		sight := &toggleSight{visible: true}
		c := newTestController(paths, nil, WithSight(sight))
		c.OnSensed(Sensed{Kind: EntityPlayer, Target: &fakeTarget{id: "p", pos: geom.V(100, 0, 0)}})

		first := step(c, geom.V(0, 0, 0), health).State
		assert.Contains(t, []State{Engage, Evade}, first)
		assert.Equal(t, "p", c.Snapshot().Opponent)

		sight.visible = false
		intent := step(c, geom.V(0, 0, 0), health)
		assert.Equal(t, Patrol, intent.State)
		assert.Empty(t, c.Snapshot().Opponent)
		assert.Equal(t, "random_path", paths.last())
	}
}

func TestPerceptionAcceptsOnlyPlayers(t *testing.T) {
	c := newTestController(farPaths(), nil)
	target := &fakeTarget{id: "x"}

	assert.False(t, c.OnSensed(Sensed{Kind: EntityEnemy, Target: target}))
	assert.False(t, c.OnSensed(Sensed{Kind: EntityProp, Target: target}))
	assert.False(t, c.OnSensed(Sensed{Kind: EntityPlayer}))
	assert.Empty(t, c.Snapshot().Opponent)

	assert.True(t, c.OnSensed(Sensed{Kind: EntityPlayer, Target: target}))
	assert.Equal(t, "x", c.Snapshot().Opponent)
}

func TestNonAuthoritativeStepIsNoop(t *testing.T) {
	paths := farPaths()
	c := newTestController(paths, nil)
	c.OnSensed(Sensed{Kind: EntityPlayer, Target: &fakeTarget{id: "p"}})

	intent := c.Step(Tick{Delta: time.Second, Health: 1, Authority: func() bool { return false }})
	assert.Equal(t, Intent{}, intent)
	assert.Equal(t, Patrol, c.State())
	assert.Empty(t, paths.calls)

	intent = c.Step(Tick{Delta: time.Second, Health: 1, Authority: func() bool { return true }})
	assert.Equal(t, Engage, intent.State)
}

func TestGroundLossRecovery(t *testing.T) {
	reg := metrics.NewRegistry()
	paths := &fakePaths{random: navgraph.Path{geom.V(2000, 0, 0), geom.V(1000, 0, 0)}}
	ground := &toggleGround{ok: true}
	c := newTestController(paths, ground, WithMetrics(reg))

	intent := step(c, geom.V(0, 0, 0), 1)
	assert.Equal(t, geom.V(1, 0, 0), intent.Direction)
	require.Len(t, paths.calls, 1)

	ground.ok = false
	intent = step(c, geom.V(300, 0, 0), 1)
	snap := c.Snapshot()
	assert.True(t, snap.Recovering)
	assert.Zero(t, snap.PathLength, "path abandoned")
	assert.Equal(t, geom.V(0, 0, 0), snap.LastGood)
	assert.Equal(t, geom.V(-1, 0, 0), intent.Direction, "steers back to last known good position")

	step(c, geom.V(200, 0, 0), 1)
	assert.Len(t, paths.calls, 1, "no new path before reaching the last good position")

	ground.ok = true
	step(c, geom.V(100, 0, 0), 1)
	snap = c.Snapshot()
	assert.False(t, snap.Recovering)
	assert.Equal(t, 2, snap.PathLength)
	assert.Equal(t, []string{"random_path", "random_path"}, paths.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.PathsAbandoned))
}

func TestNewPathsDropUngroundedWaypoints(t *testing.T) {
	hole := geom.V(600, 0, 0)
	ground := navgraph.GroundFunc(func(p geom.Vec3) bool { return p != hole })
	paths := &fakePaths{random: navgraph.Path{geom.V(1000, 0, 0), hole, geom.V(300, 0, 0)}}

	c := newTestController(paths, ground)
	step(c, geom.V(0, 0, 0), 1)
	assert.Equal(t, 2, c.Snapshot().PathLength)

	cfg := DefaultConfig()
	cfg.FilterUngroundedWaypoints = false
	c = newTestController(paths, ground, WithConfig(cfg))
	step(c, geom.V(0, 0, 0), 1)
	assert.Equal(t, 3, c.Snapshot().PathLength)
}

func TestExamineThenHide(t *testing.T) {
	reg := metrics.NewRegistry()
	paths := farPaths()
	spots := spotsAt(geom.V(100, 0, 0))
	c := newTestController(paths, nil, WithHidingSpots(spots), WithMetrics(reg))

	intent := step(c, geom.V(0, 0, 0), 1)
	assert.Equal(t, Examine, intent.State)
	assert.Equal(t, geom.V(1, 0, 0), intent.Direction)
	assert.True(t, c.Snapshot().AtSpot)

	for i := 0; i < 5; i++ {
		intent = step(c, geom.V(100, 0, 0), 1)
		assert.Equal(t, Examine, intent.State)
		assert.True(t, intent.Direction.IsZero())
	}
	assert.Equal(t, 5*time.Second, c.Snapshot().Timer)

	intent = step(c, geom.V(100, 0, 0), 1)
	assert.Equal(t, Hiding, intent.State)
	assert.Equal(t, 1, spots.ExaminedCount())
	assert.Equal(t, "HidingSpot", c.Snapshot().Spot)

	for i := 0; i < 30; i++ {
		assert.Equal(t, Hiding, step(c, geom.V(100, 0, 0), 1).State)
	}
	assert.Empty(t, paths.calls, "examine and hiding steer without the graph")
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.HidingSpotsDone))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.StateTransitions.WithLabelValues("examine", "hiding")))
}

func TestHidingSpotRadiusFromConfig(t *testing.T) {
	spots := NewHidingSpots(func() []Spot { return []Spot{NewSpot("Crate", geom.V(250, 0, 0))} }, 50)
	cfg := DefaultConfig()
	cfg.HidingSpotRadius = 300
	c := newTestController(farPaths(), nil, WithHidingSpots(spots), WithConfig(cfg))

	assert.Equal(t, 300.0, spots.Radius())
	assert.True(t, spots.IsNear(geom.V(0, 0, 0)))
	assert.Equal(t, Examine, step(c, geom.V(0, 0, 0), 1).State)
}

func TestExamineExitToPatrolSkipsExaminedSpot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExamineExit = Patrol
	paths := farPaths()
	c := newTestController(paths, nil, WithHidingSpots(spotsAt(geom.V(100, 0, 0))), WithConfig(cfg))

	step(c, geom.V(0, 0, 0), 1)
	for i := 0; i < 5; i++ {
		step(c, geom.V(100, 0, 0), 1)
	}
	assert.Equal(t, Patrol, step(c, geom.V(100, 0, 0), 1).State)

	for i := 0; i < 10; i++ {
		assert.Equal(t, Patrol, step(c, geom.V(100, 0, 0), 1).State)
	}
	assert.Equal(t, []string{"random_path"}, paths.calls)
}

func TestHidingEndsAfterHideDuration(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HidingTerminal = false
	cfg.HideDuration = 2 * time.Second
	c := newTestController(farPaths(), nil, WithHidingSpots(spotsAt(geom.V(100, 0, 0))), WithConfig(cfg))

	states := make([]State, 0, 10)
	for i := 0; i < 10; i++ {
		states = append(states, step(c, geom.V(100, 0, 0), 1).State)
	}
	assert.Equal(t, []State{
		Examine, Examine, Examine, Examine, Examine, Examine,
		Hiding, Hiding, Hiding,
		Patrol,
	}, states)
}

func TestStateStrings(t *testing.T) {
	for _, s := range []State{Patrol, Engage, Evade, Examine, Hiding} {
		parsed, err := ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseState("dancing")
	assert.Error(t, err)
	assert.Equal(t, "player", EntityPlayer.String())
}
