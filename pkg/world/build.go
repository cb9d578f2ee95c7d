package world

import (
	"fmt"

	"nav-planner/pkg/config"
	"nav-planner/pkg/navgraph"
)

// BuildGraph populates g from the world using the configured strategy. With a link radius
// set, the hiding spots are part of the same swap, so readers never see the new graph
// without them.
func (w *World) BuildGraph(g *navgraph.Graph, nav config.NavigationConfig, ground *Ground) error {
	var opts []navgraph.BuildOption
	if nav.HidingSpotLinkRadius > 0 && len(w.Spots) > 0 {
		opts = append(opts, navgraph.WithHidingSpots(w.HidingSpotPositions(), nav.HidingSpotLinkRadius))
	}

	switch nav.Strategy {
	case navgraph.StrategyStatic:
		g.PopulateFromWorld(w, opts...)

	case navgraph.StrategyGrid:
		bounds, ok := w.FloorBounds()
		if !ok {
			return fmt.Errorf("grid strategy: %w: no floors", ErrNoFeatures)
		}
		vertices, width, height := TerrainSamples(bounds, nav.GridSpacing, ground)
		if err := g.RebuildFromTerrainGrid(vertices, width, height, opts...); err != nil {
			return fmt.Errorf("grid strategy: %w", err)
		}

	case navgraph.StrategyRooms:
		if err := g.RebuildFromRoomCorridors(w.Anchors, nav.DungeonWidth, nav.DungeonHeight, nav.RoomSpacing, opts...); err != nil {
			return fmt.Errorf("rooms strategy: %w", err)
		}

	default:
		return fmt.Errorf("unknown strategy %q", nav.Strategy)
	}
	return nil
}
