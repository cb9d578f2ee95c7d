package behavior

import (
	"math"
	"sync"

	"github.com/google/uuid"

	"nav-planner/pkg/geom"
)

// Spot is a hiding spot marker
type Spot struct {
	ID       uuid.UUID
	Label    string
	Position geom.Vec3
}

// NewSpot creates a spot with a fresh ID
func NewSpot(label string, pos geom.Vec3) Spot {
	return Spot{ID: uuid.New(), Label: label, Position: pos}
}

// SpotSource discovers the hiding spots in the environment
type SpotSource func() []Spot

// HidingSpots caches the environment's hiding spots and the ones already examined.
// Spots are discovered on first need; an empty discovery is retried on the next query.
type HidingSpots struct {
	mu       sync.Mutex
	source   SpotSource
	spots    []Spot
	radius   float64
	examined map[uuid.UUID]struct{}
}

// NewHidingSpots creates the bookkeeping for one agent
func NewHidingSpots(source SpotSource, radius float64) *HidingSpots {
	return &HidingSpots{
		source:   source,
		radius:   radius,
		examined: make(map[uuid.UUID]struct{}),
	}
}

func (h *HidingSpots) loadLocked() {
	if len(h.spots) == 0 && h.source != nil {
		h.spots = h.source()
	}
}

// All returns the discovered spots
func (h *HidingSpots) All() []Spot {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadLocked()
	out := make([]Spot, len(h.spots))
	copy(out, h.spots)
	return out
}

// Radius is the proximity threshold for IsNear
func (h *HidingSpots) Radius() float64 {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.radius
}

// SetRadius replaces the proximity threshold
func (h *HidingSpots) SetRadius(radius float64) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.radius = radius
	h.mu.Unlock()
}

// Nearest returns the closest spot to p, examined or not
func (h *HidingSpots) Nearest(p geom.Vec3) (Spot, bool) {
	return h.nearest(p, false)
}

// NearestUnexamined returns the closest spot to p not examined yet
func (h *HidingSpots) NearestUnexamined(p geom.Vec3) (Spot, bool) {
	return h.nearest(p, true)
}

func (h *HidingSpots) nearest(p geom.Vec3, skipExamined bool) (Spot, bool) {
	if h == nil {
		return Spot{}, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadLocked()

	var best Spot
	found := false
	minDistance := math.MaxFloat64
	for _, s := range h.spots {
		if _, done := h.examined[s.ID]; skipExamined && done {
			continue
		}
		if d := p.Distance(s.Position); d < minDistance {
			minDistance = d
			best = s
			found = true
		}
	}
	return best, found
}

// IsNear reports whether any spot lies strictly within the radius of p
func (h *HidingSpots) IsNear(p geom.Vec3) bool {
	s, ok := h.Nearest(p)
	return ok && p.Distance(s.Position) < h.Radius()
}

// MarkExamined records a spot as examined; the set only grows
func (h *HidingSpots) MarkExamined(id uuid.UUID) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.examined[id] = struct{}{}
	h.mu.Unlock()
}

// IsExamined reports whether the spot was examined this session
func (h *HidingSpots) IsExamined(id uuid.UUID) bool {
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.examined[id]
	return ok
}

// ExaminedCount returns how many spots have been examined
func (h *HidingSpots) ExaminedCount() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.examined)
}
