package navgraph

import (
	"slices"

	"github.com/dhconnelly/rtreego"

	"nav-planner/pkg/geom"
)

// pointTolerance gives zero-extent node positions a non-degenerate box
const pointTolerance = 0.01

// nodeEntry wraps a node position for R-tree storage
type nodeEntry struct {
	id   NodeID
	pos  geom.Vec3
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// spatialIndex answers radius queries over node positions
type spatialIndex struct {
	tree *rtreego.Rtree
}

// newSpatialIndex indexes every node for which include returns true (nil includes all)
func newSpatialIndex(nodes []Node, include func(*Node) bool) *spatialIndex {
	tree := rtreego.NewTree(3, 25, 50) // 3D, min 25, max 50 entries per node

	for i := range nodes {
		n := &nodes[i]
		if include != nil && !include(n) {
			continue
		}
		p := n.Position
		tree.Insert(&nodeEntry{
			id:   n.ID,
			pos:  p,
			bbox: rtreego.Point{p.X, p.Y, p.Z}.ToRect(pointTolerance),
		})
	}

	return &spatialIndex{tree: tree}
}

// Within returns the IDs of indexed nodes at most radius away from p, ascending
func (si *spatialIndex) Within(p geom.Vec3, radius float64) []NodeID {
	if radius <= 0 {
		return nil
	}

	bbox, err := rtreego.NewRect(
		rtreego.Point{p.X - radius, p.Y - radius, p.Z - radius},
		[]float64{2 * radius, 2 * radius, 2 * radius},
	)
	if err != nil {
		return nil
	}

	results := si.tree.SearchIntersect(bbox)
	ids := make([]NodeID, 0, len(results))
	for _, item := range results {
		entry := item.(*nodeEntry)
		if entry.pos.Distance(p) <= radius {
			ids = append(ids, entry.id)
		}
	}

	// R-tree order is not stable across inserts
	slices.Sort(ids)
	return ids
}

// Size returns the number of indexed entries
func (si *spatialIndex) Size() int {
	return si.tree.Size()
}
