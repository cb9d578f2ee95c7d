package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nav-planner/pkg/geom"
)

func TestHidingSpotsDiscoveredLazily(t *testing.T) {
	calls := 0
	var available []Spot
	h := NewHidingSpots(func() []Spot {
		calls++
		return available
	}, 200)
	assert.Zero(t, calls)

	_, ok := h.Nearest(geom.V(0, 0, 0))
	assert.False(t, ok)
	assert.Equal(t, 1, calls)

	available = []Spot{NewSpot("A", geom.V(100, 0, 0)), NewSpot("B", geom.V(-50, 0, 0))}
	s, ok := h.Nearest(geom.V(0, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "B", s.Label)
	assert.Equal(t, 2, calls, "empty discovery is retried")

	h.All()
	h.IsNear(geom.V(0, 0, 0))
	assert.Equal(t, 2, calls, "discovered spots are cached")
}

func TestHidingSpotsProximityAndExamined(t *testing.T) {
	a := NewSpot("A", geom.V(100, 0, 0))
	b := NewSpot("B", geom.V(400, 0, 0))
	h := NewHidingSpots(func() []Spot { return []Spot{a, b} }, 200)

	assert.True(t, h.IsNear(geom.V(0, 0, 0)))
	assert.False(t, h.IsNear(geom.V(-100, 0, 0)), "exactly on the radius is not near")
	assert.NotEqual(t, a.ID, b.ID)

	h.MarkExamined(a.ID)
	h.MarkExamined(a.ID)
	assert.True(t, h.IsExamined(a.ID))
	assert.False(t, h.IsExamined(b.ID))
	assert.Equal(t, 1, h.ExaminedCount())

	nearest, _ := h.Nearest(geom.V(0, 0, 0))
	assert.Equal(t, "A", nearest.Label)
	unexamined, ok := h.NearestUnexamined(geom.V(0, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "B", unexamined.Label)

	h.MarkExamined(b.ID)
	_, ok = h.NearestUnexamined(geom.V(0, 0, 0))
	assert.False(t, ok)
}

func TestNilHidingSpots(t *testing.T) {
	var h *HidingSpots
	assert.NotPanics(t, func() {
		_, ok := h.NearestUnexamined(geom.V(0, 0, 0))
		assert.False(t, ok)
		assert.False(t, h.IsNear(geom.V(0, 0, 0)))
		h.MarkExamined(NewSpot("x", geom.Vec3{}).ID)
		assert.Zero(t, h.ExaminedCount())
		assert.Nil(t, h.All())
	})
}
