package navgraph

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"nav-planner/pkg/geom"
)

var (
	// ErrInvalidGrid is returned when grid dimensions do not match the vertex data
	ErrInvalidGrid = errors.New("invalid grid dimensions")
	// ErrInvalidSpacing is returned for a non-positive room spacing
	ErrInvalidSpacing = errors.New("room spacing must be positive")
)

// CorridorMarker is the label substring that classifies an anchor as a corridor
const CorridorMarker = "Corridor"

// StaticNode is a pre-placed node with pre-authored connections.
// Connections index into the same slice the node came from.
type StaticNode struct {
	Label       string
	Position    geom.Vec3
	Connections []int
}

// StaticSource exposes the nodes already placed in an environment
type StaticSource interface {
	StaticNodes() []StaticNode
}

// Anchor is a room or corridor position supplied by a dungeon generator
type Anchor struct {
	Label    string
	Position geom.Vec3
}

// BuildOption adjusts a rebuild before the new arena is published
type BuildOption func(*buildSettings)

type buildSettings struct {
	spots  []geom.Vec3
	radius float64
}

// WithHidingSpots links one hiding-spot node per position into the rebuilt graph,
// in the same swap as the walkable nodes.
func WithHidingSpots(spots []geom.Vec3, radius float64) BuildOption {
	return func(b *buildSettings) {
		b.spots = spots
		b.radius = radius
	}
}

// publish finishes the pending arena and swaps it in
func (g *Graph) publish(nodes []Node, strategy string, opts []BuildOption) {
	var settings buildSettings
	for _, opt := range opts {
		opt(&settings)
	}
	if len(settings.spots) > 0 && len(nodes) > 0 {
		nodes, _ = attachSpots(nodes, settings.spots, settings.radius, g.logger)
	}
	g.replace(nodes, strategy)
}

// IsCorridorLabel reports whether a label marks a corridor anchor
func IsCorridorLabel(label string) bool {
	return strings.Contains(label, CorridorMarker)
}

// grid neighbor offsets: right, up, left, down, then the diagonals
var (
	orthogonalOffsets = [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	diagonalOffsets   = [][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

// PopulateFromWorld adopts the statically placed nodes as the graph.
// Connections are taken as authored; no adjacency is derived.
func (g *Graph) PopulateFromWorld(src StaticSource, opts ...BuildOption) {
	var static []StaticNode
	if src != nil {
		static = src.StaticNodes()
	}
	if len(static) == 0 {
		g.logger.Warn("no statically placed nodes found", "operation", "populate_from_world")
	}

	nodes := make([]Node, len(static))
	for i, s := range static {
		nodes[i] = newNode(NodeID(i), s.Label, KindPlain, s.Position)
	}

	dropped := 0
	for i, s := range static {
		for _, c := range s.Connections {
			if c < 0 || c >= len(nodes) || c == i {
				dropped++
				continue
			}
			nodes[i].connect(NodeID(c))
		}
	}
	if dropped > 0 {
		g.logger.Warn("dropped invalid authored connections", "count", dropped)
	}

	g.publish(nodes, StrategyStatic, opts)
}

// RebuildFromTerrainGrid places one node per grid cell at vertices[y*width+x] and
// connects grid neighbors. With a ground probe configured, cells without ground are skipped.
func (g *Graph) RebuildFromTerrainGrid(vertices []geom.Vec3, width, height int, opts ...BuildOption) error {
	if width <= 0 || height <= 0 || len(vertices) < width*height {
		return fmt.Errorf("%w: %dx%d with %d vertices", ErrInvalidGrid, width, height, len(vertices))
	}

	cells := make([]NodeID, width*height)
	nodes := make([]Node, 0, width*height)
	skipped := 0

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			pos := vertices[idx]
			if g.probe != nil && !g.probe.HasGround(pos) {
				cells[idx] = InvalidNode
				skipped++
				continue
			}
			id := NodeID(len(nodes))
			nodes = append(nodes, newNode(id, fmt.Sprintf("Grid_%d_%d", x, y), KindPlain, pos))
			cells[idx] = id
		}
	}

	offsets := orthogonalOffsets
	if g.diagonal {
		offsets = append(append([][2]int{}, orthogonalOffsets...), diagonalOffsets...)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := cells[y*width+x]
			if id == InvalidNode {
				continue
			}
			for _, o := range offsets {
				nx, ny := x+o[0], y+o[1]
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				if neighbor := cells[ny*width+nx]; neighbor != InvalidNode {
					nodes[id].connect(neighbor)
				}
			}
		}
	}

	if skipped > 0 {
		g.logger.Debug("skipped grid cells without ground", "skipped", skipped)
	}
	g.publish(nodes, StrategyGrid, opts)
	return nil
}

// RebuildFromRoomCorridors places a node at every anchor and links them:
// rooms to rooms and corridors to rooms within spacing, corridors to corridors only
// when spacing/2 < distance <= spacing.
func (g *Graph) RebuildFromRoomCorridors(anchors []Anchor, width, height int, spacing float64, opts ...BuildOption) error {
	if spacing <= 0 || math.IsNaN(spacing) {
		return fmt.Errorf("%w: got %v", ErrInvalidSpacing, spacing)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, width, height)
	}
	if len(anchors) == 0 {
		g.logger.Warn("no room or corridor anchors supplied", "operation", "rebuild_from_room_corridors")
	}

	nodes := make([]Node, len(anchors))
	for i, a := range anchors {
		kind := KindRoom
		if IsCorridorLabel(a.Label) {
			kind = KindCorridor
		}
		nodes[i] = newNode(NodeID(i), a.Label, kind, a.Position)
	}

	index := newSpatialIndex(nodes, nil)
	half := spacing / 2

	for i := range nodes {
		from := &nodes[i]
		for _, j := range index.Within(from.Position, spacing) {
			if j == from.ID {
				continue
			}
			to := &nodes[j]
			d := from.Position.Distance(to.Position)

			switch {
			case from.Kind == KindCorridor && to.Kind == KindCorridor:
				// adjacent corridor segments stay unlinked
				if d > half {
					from.connect(to.ID)
				}
			default:
				from.connect(to.ID)
			}
		}
	}

	g.logger.Debug("room corridor layout", "width", width, "height", height, "spacing", spacing)
	g.publish(nodes, StrategyRooms, opts)
	return nil
}

// AttachHidingSpots adds a node per hiding spot to the live graph, linked both ways to
// every non-hiding node within radius, or to the nearest one when none is in range.
// The change is published as a new generation.
func (g *Graph) AttachHidingSpots(spots []geom.Vec3, radius float64) []NodeID {
	g.mu.Lock()
	nodes, ids := attachSpots(g.nodes, spots, radius, g.logger)
	g.nodes = nodes
	g.generation++
	total, conns := len(nodes), countConnections(nodes)
	g.mu.Unlock()

	g.metrics.RecordGraphSize(total, conns)
	return ids
}

// attachSpots appends the hiding-spot nodes to nodes and links them in place
func attachSpots(nodes []Node, spots []geom.Vec3, radius float64, logger *slog.Logger) ([]Node, []NodeID) {
	notHiding := func(n *Node) bool { return n.Kind != KindHidingSpot }
	index := newSpatialIndex(nodes, notHiding)
	if index.Size() == 0 {
		logger.Warn("attaching hiding spots to a graph with no walkable nodes", "spots", len(spots))
	}

	ids := make([]NodeID, 0, len(spots))
	for i, spot := range spots {
		id := NodeID(len(nodes))
		nodes = append(nodes, newNode(id, fmt.Sprintf("HidingSpot_%d", i), KindHidingSpot, spot))

		neighbors := index.Within(spot, radius)
		if len(neighbors) == 0 {
			if nearest := nearestIn(nodes, spot, notHiding); nearest != InvalidNode {
				neighbors = []NodeID{nearest}
			}
		}
		for _, n := range neighbors {
			nodes[id].connect(n)
			nodes[n].connect(id)
		}
		ids = append(ids, id)
	}
	return nodes, ids
}
