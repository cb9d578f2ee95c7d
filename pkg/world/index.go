package world

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// minExtent pads degenerate bounding boxes, which rtreego rejects
const minExtent = 0.01

// polygonEntry wraps a polygon for R-tree storage
type polygonEntry struct {
	index int
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (p *polygonEntry) Bounds() rtreego.Rect {
	return p.bbox
}

// polygonIndex answers "which polygons might touch this region" queries
type polygonIndex struct {
	tree *rtreego.Rtree
}

func newPolygonIndex(polygons []orb.Polygon) *polygonIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node
	for i, poly := range polygons {
		if len(poly) == 0 || len(poly[0]) == 0 {
			continue
		}
		if bbox, err := boundToRect(poly.Bound()); err == nil {
			tree.Insert(&polygonEntry{index: i, bbox: bbox})
		}
	}
	return &polygonIndex{tree: tree}
}

// QueryRegion returns the indices of polygons whose bounding box meets b
func (pi *polygonIndex) QueryRegion(b orb.Bound) []int {
	rect, err := boundToRect(b)
	if err != nil {
		return nil
	}
	results := pi.tree.SearchIntersect(rect)
	indices := make([]int, 0, len(results))
	for _, item := range results {
		indices = append(indices, item.(*polygonEntry).index)
	}
	return indices
}

func (pi *polygonIndex) Size() int {
	return pi.tree.Size()
}

func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{max(b.Max[0]-b.Min[0], minExtent), max(b.Max[1]-b.Min[1], minExtent)},
	)
}

// pointBound is a tiny box centered on p
func pointBound(p orb.Point) orb.Bound {
	return orb.Bound{
		Min: orb.Point{p[0] - minExtent/2, p[1] - minExtent/2},
		Max: orb.Point{p[0] + minExtent/2, p[1] + minExtent/2},
	}
}

// segmentBound is the bounding box of a segment grown by margin
func segmentBound(a, b orb.Point, margin float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{min(a[0], b[0]) - margin, min(a[1], b[1]) - margin},
		Max: orb.Point{max(a[0], b[0]) + margin, max(a[1], b[1]) + margin},
	}
}
