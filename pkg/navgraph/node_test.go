package navgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nav-planner/pkg/geom"
)

func TestNodeConnectIgnoresSelfAndDuplicates(t *testing.T) {
	n := newNode(3, "A", KindPlain, geom.V(0, 0, 0))

	assert.False(t, n.connect(3), "self connection must be rejected")
	assert.True(t, n.connect(1))
	assert.False(t, n.connect(1), "duplicate connection must be rejected")
	assert.False(t, n.connect(InvalidNode))

	assert.Equal(t, []NodeID{1}, n.Connections())
	assert.True(t, n.ConnectedTo(1))
	assert.False(t, n.ConnectedTo(3))
	assert.Equal(t, 1, n.Degree())
}

func TestNodeConnectionsReturnsCopy(t *testing.T) {
	n := newNode(0, "A", KindPlain, geom.V(0, 0, 0))
	n.connect(1)

	conns := n.Connections()
	conns[0] = 42

	assert.Equal(t, []NodeID{1}, n.Connections())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "plain", KindPlain.String())
	assert.Equal(t, "room", KindRoom.String())
	assert.Equal(t, "corridor", KindCorridor.String())
	assert.Equal(t, "hiding_spot", KindHidingSpot.String())
}

func TestPathHelpers(t *testing.T) {
	p := Path{geom.V(2, 0, 0), geom.V(1, 0, 0), geom.V(0, 0, 0)}

	next, ok := p.Peek()
	assert.True(t, ok)
	assert.Equal(t, geom.V(0, 0, 0), next)

	popped, ok := p.Pop()
	assert.True(t, ok)
	assert.Equal(t, geom.V(0, 0, 0), popped)
	assert.Len(t, p, 2)

	assert.Equal(t, Path{geom.V(1, 0, 0), geom.V(2, 0, 0)}, p.Reversed())
	assert.InDelta(t, 1.0, p.Length(), 1e-9)

	filtered := p.Filter(func(v geom.Vec3) bool { return v.X > 1 })
	assert.Equal(t, Path{geom.V(2, 0, 0)}, filtered)

	var empty Path
	assert.True(t, empty.Empty())
	_, ok = empty.Pop()
	assert.False(t, ok)
}
