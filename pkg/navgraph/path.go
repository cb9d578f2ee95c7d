package navgraph

import (
	"nav-planner/pkg/geom"
)

// Path is a sequence of waypoints ordered goal first, start last.
// Consumers walk it from the tail. An empty Path means no path was found.
type Path []geom.Vec3

// Empty reports whether the path has no waypoints
func (p Path) Empty() bool {
	return len(p) == 0
}

// Peek returns the next waypoint to walk to (the tail)
func (p Path) Peek() (geom.Vec3, bool) {
	if len(p) == 0 {
		return geom.Vec3{}, false
	}
	return p[len(p)-1], true
}

// Pop discards and returns the tail waypoint
func (p *Path) Pop() (geom.Vec3, bool) {
	next, ok := p.Peek()
	if !ok {
		return next, false
	}
	*p = (*p)[:len(*p)-1]
	return next, true
}

// Reversed returns a start-to-goal copy
func (p Path) Reversed() Path {
	out := make(Path, len(p))
	for i, wp := range p {
		out[len(p)-1-i] = wp
	}
	return out
}

// Length returns the summed distance between consecutive waypoints
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i-1].Distance(p[i])
	}
	return total
}

// Filter returns the waypoints for which keep returns true, order preserved
func (p Path) Filter(keep func(geom.Vec3) bool) Path {
	out := make(Path, 0, len(p))
	for _, wp := range p {
		if keep(wp) {
			out = append(out, wp)
		}
	}
	return out
}
