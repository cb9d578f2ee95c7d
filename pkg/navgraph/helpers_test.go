package navgraph

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"nav-planner/pkg/geom"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestGraph creates a graph with a silent logger and a fixed random seed
func newTestGraph(opts ...Option) *Graph {
	base := []Option{
		WithLogger(quietLogger()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	return New(append(base, opts...)...)
}

// gridVertices lays out a flat width x height grid with the given spacing
func gridVertices(width, height int, spacing float64) []geom.Vec3 {
	vertices := make([]geom.Vec3, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			vertices = append(vertices, geom.V(float64(x)*spacing, float64(y)*spacing, 0))
		}
	}
	return vertices
}

// staticWorld is a StaticSource backed by a slice
type staticWorld []StaticNode

func (w staticWorld) StaticNodes() []StaticNode { return w }
