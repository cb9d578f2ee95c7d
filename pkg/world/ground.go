package world

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"nav-planner/pkg/geom"
)

// Ground is a ground probe over floor polygons. A position has ground when a floor
// contains it in plan and the floor height lies on the vertical ray
// [Z-down, Z+up] through it.
type Ground struct {
	floors []Floor
	index  *polygonIndex
	up     float64
	down   float64
}

// NewGround indexes the floors for probing
func NewGround(floors []Floor, up, down float64) *Ground {
	polys := make([]orb.Polygon, len(floors))
	for i, f := range floors {
		polys[i] = f.Polygon
	}
	return &Ground{
		floors: floors,
		index:  newPolygonIndex(polys),
		up:     up,
		down:   down,
	}
}

// HasGround implements navgraph.GroundProbe
func (g *Ground) HasGround(p geom.Vec3) bool {
	xy := p.XY()
	for _, i := range g.index.QueryRegion(pointBound(xy)) {
		f := g.floors[i]
		if f.Z > p.Z+g.up || f.Z < p.Z-g.down {
			continue
		}
		if planar.PolygonContains(f.Polygon, xy) {
			return true
		}
	}
	return false
}

// HeightAt returns the highest floor height under p
func (g *Ground) HeightAt(p orb.Point) (float64, bool) {
	height, found := 0.0, false
	for _, i := range g.index.QueryRegion(pointBound(p)) {
		f := g.floors[i]
		if (!found || f.Z > height) && planar.PolygonContains(f.Polygon, p) {
			height, found = f.Z, true
		}
	}
	return height, found
}

// Len returns the number of indexed floors
func (g *Ground) Len() int {
	return g.index.Size()
}
