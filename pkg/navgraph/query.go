package navgraph

import (
	"math"
	"time"

	"nav-planner/pkg/geom"
)

// Query kinds used for logging and metrics
const (
	queryPath     = "path"
	queryPathAway = "path_away"
	queryRandom   = "random_path"
	queryBetween  = "path_between"
)

// NearestNode finds the node closest to p. Ties go to the first node in arena order.
func (g *Graph) NearestNode(p geom.Vec3) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nearestLocked(p)
}

// FurthestNode finds the node furthest from p. Ties go to the first node in arena order.
func (g *Graph) FurthestNode(p geom.Vec3) (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.furthestLocked(p)
}

// RandomNode picks a node uniformly at random
func (g *Graph) RandomNode() (NodeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.randomLocked()
}

// Path finds a path between the nodes nearest to start and target
func (g *Graph) Path(start, target geom.Vec3) Path {
	g.mu.RLock()
	defer g.mu.RUnlock()

	from, _ := g.nearestLocked(start)
	to, _ := g.nearestLocked(target)
	return g.search(queryPath, from, to)
}

// PathAway finds a path from the node nearest to start towards the node furthest from avoid
func (g *Graph) PathAway(start, avoid geom.Vec3) Path {
	g.mu.RLock()
	defer g.mu.RUnlock()

	from, _ := g.nearestLocked(start)
	to, _ := g.furthestLocked(avoid)
	return g.search(queryPathAway, from, to)
}

// RandomPath finds a path from the node nearest to start towards a random node
func (g *Graph) RandomPath(start geom.Vec3) Path {
	g.mu.RLock()
	defer g.mu.RUnlock()

	from, _ := g.nearestLocked(start)
	to, _ := g.randomLocked()
	return g.search(queryRandom, from, to)
}

// PathBetween runs A* between two known nodes
func (g *Graph) PathBetween(from, to NodeID) Path {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.search(queryBetween, from, to)
}

func (g *Graph) nearestLocked(p geom.Vec3) (NodeID, bool) {
	if len(g.nodes) == 0 {
		g.logger.Error("the node set is empty", "operation", "nearest_node")
		return InvalidNode, false
	}
	return g.nearestMatching(p, nil), true
}

// nearestMatching scans nodes for which include returns true (nil includes all)
func (g *Graph) nearestMatching(p geom.Vec3, include func(*Node) bool) NodeID {
	return nearestIn(g.nodes, p, include)
}

func nearestIn(nodes []Node, p geom.Vec3, include func(*Node) bool) NodeID {
	closest := InvalidNode
	minDistance := math.MaxFloat64
	for i := range nodes {
		n := &nodes[i]
		if include != nil && !include(n) {
			continue
		}
		if d := p.Distance(n.Position); d < minDistance {
			minDistance = d
			closest = n.ID
		}
	}
	return closest
}

func (g *Graph) furthestLocked(p geom.Vec3) (NodeID, bool) {
	if len(g.nodes) == 0 {
		g.logger.Error("the node set is empty", "operation", "furthest_node")
		return InvalidNode, false
	}
	furthest := InvalidNode
	maxDistance := -1.0
	for i := range g.nodes {
		if d := p.Distance(g.nodes[i].Position); d > maxDistance {
			maxDistance = d
			furthest = g.nodes[i].ID
		}
	}
	return furthest, true
}

func (g *Graph) randomLocked() (NodeID, bool) {
	if len(g.nodes) == 0 {
		g.logger.Error("the node set is empty", "operation", "random_node")
		return InvalidNode, false
	}
	g.rngMu.Lock()
	idx := g.rng.IntN(len(g.nodes))
	g.rngMu.Unlock()
	return g.nodes[idx].ID, true
}

// search validates the endpoints, runs A* and records the outcome
func (g *Graph) search(kind string, from, to NodeID) Path {
	started := time.Now()
	if !g.validLocked(from) || !g.validLocked(to) {
		g.logger.Error("either the start or end node is invalid",
			"operation", kind, "from", int(from), "to", int(to))
		g.metrics.RecordPathQuery(kind, false, 0, 0, time.Since(started))
		return nil
	}

	path, expanded := g.astar(from, to)
	g.metrics.RecordPathQuery(kind, !path.Empty(), expanded, len(path), time.Since(started))
	if path.Empty() {
		g.logger.Debug("no path found", "operation", kind, "from", int(from), "to", int(to), "expanded", expanded)
	}
	return path
}
