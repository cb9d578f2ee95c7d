package world

import (
	"github.com/paulmach/orb"

	"nav-planner/pkg/geom"
)

// Walls answers line-of-sight queries against wall polygons
type Walls struct {
	polygons []orb.Polygon
	index    *polygonIndex
}

// NewWalls indexes the wall polygons
func NewWalls(polygons []orb.Polygon) *Walls {
	return &Walls{polygons: polygons, index: newPolygonIndex(polygons)}
}

// HasLineOfSight implements behavior.Sight. Only walls near the segment are tested.
func (w *Walls) HasLineOfSight(from, to geom.Vec3) bool {
	if w == nil || len(w.polygons) == 0 {
		return true
	}
	a, b := from.XY(), to.XY()

	candidates := w.index.QueryRegion(segmentBound(a, b, minExtent))
	if len(candidates) == 0 {
		return true
	}
	nearby := make([]orb.Polygon, 0, len(candidates))
	for _, i := range candidates {
		nearby = append(nearby, w.polygons[i])
	}
	return geom.IsSegmentClear(a, b, nearby)
}
