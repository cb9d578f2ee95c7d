package world

import (
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// CleanWalls drops wall polygons fully enclosed by another wall and, for a positive
// epsilon, simplifies the rest with Douglas-Peucker. The input is not modified.
func CleanWalls(polygons []orb.Polygon, epsilon float64, logger *slog.Logger) []orb.Polygon {
	kept := removeContained(polygons)

	if epsilon > 0 {
		simplifier := simplify.DouglasPeucker(epsilon)
		for i, p := range kept {
			kept[i] = simplifyPolygon(simplifier, p)
		}
	}

	if logger != nil && len(kept) != len(polygons) {
		logger.Debug("removed enclosed walls", "before", len(polygons), "after", len(kept))
	}
	return kept
}

func simplifyPolygon(s *simplify.DouglasPeuckerSimplifier, p orb.Polygon) orb.Polygon {
	simplified, ok := s.Simplify(p.Clone()).(orb.Polygon)
	if !ok || len(simplified) == 0 || len(simplified[0]) < 4 {
		return p
	}
	return simplified
}

// removeContained keeps polygons that are not inside another polygon.
// Of two identical polygons the later one survives.
func removeContained(polygons []orb.Polygon) []orb.Polygon {
	if len(polygons) <= 1 {
		return append([]orb.Polygon(nil), polygons...)
	}

	contained := make([]bool, len(polygons))
	for i := range polygons {
		if contained[i] {
			continue
		}
		for j := range polygons {
			if i == j || contained[j] {
				continue
			}
			if isContainedIn(polygons[i], polygons[j]) {
				contained[i] = true
				break
			}
			if isContainedIn(polygons[j], polygons[i]) {
				contained[j] = true
			}
		}
	}

	result := make([]orb.Polygon, 0, len(polygons))
	for i, p := range polygons {
		if !contained[i] {
			result = append(result, p)
		}
	}
	return result
}

// isContainedIn reports whether every outer vertex of a lies within b's outer ring
func isContainedIn(a, b orb.Polygon) bool {
	if len(a) == 0 || len(b) == 0 || len(a[0]) == 0 || len(b[0]) == 0 {
		return false
	}

	outer := b.Bound()
	inner := a.Bound()
	if !outer.Contains(inner.Min) || !outer.Contains(inner.Max) {
		return false
	}

	for _, v := range a[0] {
		if !planar.RingContains(b[0], v) {
			return false
		}
	}
	return true
}
