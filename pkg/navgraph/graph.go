package navgraph

import (
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/paulmach/orb"

	"nav-planner/pkg/geom"
	"nav-planner/pkg/metrics"
)

// Population strategies
const (
	StrategyStatic = "static"
	StrategyGrid   = "grid"
	StrategyRooms  = "rooms"
)

// GroundProbe reports whether solid support exists directly below a position
type GroundProbe interface {
	HasGround(p geom.Vec3) bool
}

// GroundFunc adapts a plain function to GroundProbe
type GroundFunc func(p geom.Vec3) bool

func (f GroundFunc) HasGround(p geom.Vec3) bool { return f(p) }

// Graph owns the live node arena and answers positional and path queries.
// Rebuilds replace the whole arena under the write lock.
type Graph struct {
	mu         sync.RWMutex
	nodes      []Node
	generation uint64
	strategy   string

	diagonal bool
	probe    GroundProbe

	rngMu sync.Mutex
	rng   *rand.Rand

	logger  *slog.Logger
	metrics *metrics.Registry
}

// Option configures a Graph
type Option func(*Graph)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMetrics attaches a metrics registry
func WithMetrics(r *metrics.Registry) Option {
	return func(g *Graph) { g.metrics = r }
}

// WithRand sets the random source used by RandomNode and RandomPath
func WithRand(r *rand.Rand) Option {
	return func(g *Graph) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithDiagonal toggles 8-directional (true) or 4-directional grid connections
func WithDiagonal(diagonal bool) Option {
	return func(g *Graph) { g.diagonal = diagonal }
}

// WithGroundProbe makes the terrain grid builder skip cells without ground
func WithGroundProbe(p GroundProbe) Option {
	return func(g *Graph) { g.probe = p }
}

// New creates an empty graph
func New(opts ...Option) *Graph {
	g := &Graph{
		diagonal: true,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With("component", "navgraph")
	return g
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Generation increments on every population pass
func (g *Graph) Generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generation
}

// Strategy names the builder that produced the live graph
func (g *Graph) Strategy() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.strategy
}

// Node returns a detached copy of the node with the given ID
func (g *Graph) Node(id NodeID) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.validLocked(id) {
		return Node{}, false
	}
	return g.nodes[id].clone(), true
}

// Nodes returns a copy of every node in arena order
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, len(g.nodes))
	for i := range g.nodes {
		out[i] = g.nodes[i].clone()
	}
	return out
}

// WaypointPositions returns the world positions of every node
func (g *Graph) WaypointPositions() []geom.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	positions := make([]geom.Vec3, 0, len(g.nodes))
	for i := range g.nodes {
		positions = append(positions, g.nodes[i].Position)
	}
	return positions
}

// Connect adds a one-way connection between two live nodes
func (g *Graph) Connect(from, to NodeID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.validLocked(from) || !g.validLocked(to) {
		g.logger.Error("connect with invalid node", "from", int(from), "to", int(to))
		return false
	}
	return g.nodes[from].connect(to)
}

// Bounds returns the planar footprint of all nodes
func (g *Graph) Bounds() (orb.Bound, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.nodes) == 0 {
		return orb.Bound{}, false
	}
	b := g.nodes[0].Position.XY().Bound()
	for i := 1; i < len(g.nodes); i++ {
		b = b.Extend(g.nodes[i].Position.XY())
	}
	return b, true
}

func (g *Graph) validLocked(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// replace swaps in a freshly built arena
func (g *Graph) replace(nodes []Node, strategy string) {
	g.mu.Lock()
	g.nodes = nodes
	g.strategy = strategy
	g.generation++
	gen := g.generation
	g.mu.Unlock()

	conns := countConnections(nodes)
	g.logger.Info("graph populated",
		"strategy", strategy,
		"nodes", len(nodes),
		"connections", conns,
		"generation", gen)
	g.metrics.RecordRebuild(strategy, len(nodes), conns)
}

func countConnections(nodes []Node) int {
	total := 0
	for i := range nodes {
		total += len(nodes[i].out)
	}
	return total
}
