package world

import (
	"math"

	"github.com/paulmach/orb"

	"nav-planner/pkg/geom"
)

// TerrainSamples lays a grid with the given spacing over bounds and returns the vertices
// row by row (index y*width+x). Heights come from the ground; cells without floor sit at 0
// and are rejected by the ground probe when the graph is built.
func TerrainSamples(bounds orb.Bound, spacing float64, ground *Ground) ([]geom.Vec3, int, int) {
	if spacing <= 0 || math.IsNaN(spacing) {
		return nil, 0, 0
	}
	width := int(math.Floor((bounds.Max[0]-bounds.Min[0])/spacing)) + 1
	height := int(math.Floor((bounds.Max[1]-bounds.Min[1])/spacing)) + 1

	vertices := make([]geom.Vec3, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := orb.Point{bounds.Min[0] + float64(x)*spacing, bounds.Min[1] + float64(y)*spacing}
			z := 0.0
			if ground != nil {
				z, _ = ground.HeightAt(p)
			}
			vertices = append(vertices, geom.V(p[0], p[1], z))
		}
	}
	return vertices, width, height
}
