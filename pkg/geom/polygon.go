package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DoSegmentsIntersect checks if two line segments intersect
func DoSegmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	// Segments sharing an endpoint touch, they do not cross
	if p1 == p3 || p1 == p4 || p2 == p3 || p2 == p4 {
		return false
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 orb.Point) float64 {
	return (p3[0]-p1[0])*(p2[1]-p1[1]) - (p2[0]-p1[0])*(p3[1]-p1[1])
}

// onSegment checks if point q lies on segment pr
func onSegment(p, r, q orb.Point) bool {
	return q[0] <= math.Max(p[0], r[0]) && q[0] >= math.Min(p[0], r[0]) &&
		q[1] <= math.Max(p[1], r[1]) && q[1] >= math.Min(p[1], r[1])
}

// SegmentIntersectsRing checks if segment ab crosses any edge of the ring
func SegmentIntersectsRing(a, b orb.Point, ring orb.Ring) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		if DoSegmentsIntersect(a, b, ring[i], ring[(i+1)%n]) {
			return true
		}
	}
	return false
}

// IsSegmentClear checks if a straight segment avoids every polygon
func IsSegmentClear(a, b orb.Point, polygons []orb.Polygon) bool {
	mid := orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}

	for _, poly := range polygons {
		if len(poly) == 0 {
			continue
		}
		outer := poly[0]
		if SegmentIntersectsRing(a, b, outer) {
			return false
		}
		// Midpoint catches segments lying entirely inside
		if planar.PolygonContains(poly, a) || planar.PolygonContains(poly, b) || planar.PolygonContains(poly, mid) {
			return false
		}
	}

	return true
}
