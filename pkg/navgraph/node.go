package navgraph

import (
	"nav-planner/pkg/geom"
)

// NodeID identifies a node inside one graph generation. It is an index into the arena.
type NodeID int

// InvalidNode is returned by queries that cannot produce a node
const InvalidNode NodeID = -1

// Kind classifies a node by the builder that placed it
type Kind uint8

const (
	KindPlain Kind = iota
	KindRoom
	KindCorridor
	KindHidingSpot
)

func (k Kind) String() string {
	switch k {
	case KindRoom:
		return "room"
	case KindCorridor:
		return "corridor"
	case KindHidingSpot:
		return "hiding_spot"
	default:
		return "plain"
	}
}

// Node is a labeled position with outgoing connections to other nodes.
// Connections reference nodes by ID and may be one-way.
type Node struct {
	ID       NodeID
	Label    string
	Kind     Kind
	Position geom.Vec3

	out    []NodeID
	outSet map[NodeID]struct{}
}

func newNode(id NodeID, label string, kind Kind, pos geom.Vec3) Node {
	return Node{
		ID:       id,
		Label:    label,
		Kind:     kind,
		Position: pos,
		outSet:   make(map[NodeID]struct{}),
	}
}

// connect adds an outgoing connection. Self links and duplicates are ignored.
func (n *Node) connect(to NodeID) bool {
	if to == n.ID || to < 0 {
		return false
	}
	if _, exists := n.outSet[to]; exists {
		return false
	}
	n.outSet[to] = struct{}{}
	n.out = append(n.out, to)
	return true
}

// Connections returns a copy of the outgoing connections in insertion order
func (n Node) Connections() []NodeID {
	out := make([]NodeID, len(n.out))
	copy(out, n.out)
	return out
}

// ConnectedTo reports whether n has an outgoing connection to id
func (n Node) ConnectedTo(id NodeID) bool {
	_, ok := n.outSet[id]
	return ok
}

// Degree returns the number of outgoing connections
func (n Node) Degree() int {
	return len(n.out)
}

// clone copies the connection storage so the result shares nothing with the arena
func (n Node) clone() Node {
	c := n
	c.out = n.Connections()
	c.outSet = make(map[NodeID]struct{}, len(n.outSet))
	for id := range n.outSet {
		c.outSet[id] = struct{}{}
	}
	return c
}
