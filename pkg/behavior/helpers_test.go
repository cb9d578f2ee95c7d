package behavior

import (
	"io"
	"log/slog"
	"slices"

	"nav-planner/pkg/geom"
	"nav-planner/pkg/navgraph"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakePaths records which query the controller issued
type fakePaths struct {
	calls  []string
	path   navgraph.Path
	away   navgraph.Path
	random navgraph.Path
}

func (f *fakePaths) Path(start, target geom.Vec3) navgraph.Path {
	f.calls = append(f.calls, "path")
	return slices.Clone(f.path)
}

func (f *fakePaths) PathAway(start, avoid geom.Vec3) navgraph.Path {
	f.calls = append(f.calls, "path_away")
	return slices.Clone(f.away)
}

func (f *fakePaths) RandomPath(start geom.Vec3) navgraph.Path {
	f.calls = append(f.calls, "random_path")
	return slices.Clone(f.random)
}

func (f *fakePaths) last() string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

// farPaths returns paths whose waypoints are never reached in a few steps
func farPaths() *fakePaths {
	return &fakePaths{
		path:   navgraph.Path{geom.V(3000, 0, 0), geom.V(2000, 0, 0)},
		away:   navgraph.Path{geom.V(-5000, 0, 0), geom.V(-4000, 0, 0), geom.V(-3000, 0, 0)},
		random: navgraph.Path{geom.V(0, 9000, 0), geom.V(0, 8000, 0), geom.V(0, 7000, 0), geom.V(0, 6000, 0)},
	}
}

type fakeTarget struct {
	id  string
	pos geom.Vec3
}

func (t *fakeTarget) ID() string          { return t.id }
func (t *fakeTarget) Position() geom.Vec3 { return t.pos }

// toggleSight reports line of sight while visible is set
type toggleSight struct {
	visible bool
}

func (s *toggleSight) HasLineOfSight(from, to geom.Vec3) bool { return s.visible }

// toggleGround reports ground everywhere while ok is set
type toggleGround struct {
	ok bool
}

func (g *toggleGround) HasGround(p geom.Vec3) bool { return g.ok }

func newTestController(paths Pathfinder, ground navgraph.GroundProbe, opts ...Option) *Controller {
	return NewController(paths, ground, append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func spotsAt(positions ...geom.Vec3) *HidingSpots {
	spots := make([]Spot, len(positions))
	for i, p := range positions {
		spots[i] = NewSpot("HidingSpot", p)
	}
	return NewHidingSpots(func() []Spot { return spots }, 200)
}
