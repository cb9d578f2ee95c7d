package navgraph

import (
	"math"
)

// astar computes the shortest path from start to goal along outgoing connections.
// It returns the path goal first and the number of nodes expanded.
//
// Scores are materialised the first time a node is seen instead of being
// pre-populated for the whole graph, so the cost scales with the explored region.
// The open set is scanned linearly; the earliest entry wins f-score ties.
func (g *Graph) astar(start, goal NodeID) (Path, int) {
	nodes := g.nodes
	goalPos := nodes[goal].Position

	openSet := []NodeID{start}
	inOpen := map[NodeID]bool{start: true}

	gScores := map[NodeID]float64{start: 0}
	hScores := map[NodeID]float64{start: nodes[start].Position.Distance(goalPos)}
	cameFrom := map[NodeID]NodeID{start: InvalidNode}

	expanded := 0

	for len(openSet) > 0 {
		// Find the open node with the lowest f-score
		best := 0
		for i := 1; i < len(openSet); i++ {
			if gScores[openSet[i]]+hScores[openSet[i]] < gScores[openSet[best]]+hScores[openSet[best]] {
				best = i
			}
		}
		current := openSet[best]
		openSet = append(openSet[:best], openSet[best+1:]...)
		delete(inOpen, current)
		expanded++

		if current == goal {
			return reconstructPath(nodes, cameFrom, goal), expanded
		}

		currentPos := nodes[current].Position
		for _, next := range nodes[current].out {
			tentativeG := gScores[current] + currentPos.Distance(nodes[next].Position)

			if _, seen := gScores[next]; !seen {
				gScores[next] = math.MaxFloat64
				hScores[next] = nodes[next].Position.Distance(goalPos)
				cameFrom[next] = InvalidNode
			}

			if tentativeG < gScores[next] {
				cameFrom[next] = current
				gScores[next] = tentativeG
				if !inOpen[next] {
					openSet = append(openSet, next)
					inOpen[next] = true
				}
			}
		}
	}

	// No path found
	return nil, expanded
}

// reconstructPath walks the predecessor chain from goal back to start
func reconstructPath(nodes []Node, cameFrom map[NodeID]NodeID, goal NodeID) Path {
	path := Path{}
	for id := goal; id != InvalidNode; id = cameFrom[id] {
		path = append(path, nodes[id].Position)
	}
	return path
}
