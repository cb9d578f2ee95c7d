package navgraph

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ExportGeoJSON returns the graph as Point features (nodes) and
// LineString features (one per outgoing connection) for visualization
func (g *Graph) ExportGeoJSON() *geojson.FeatureCollection {
	g.mu.RLock()
	defer g.mu.RUnlock()

	fc := geojson.NewFeatureCollection()

	for i := range g.nodes {
		n := &g.nodes[i]
		f := geojson.NewFeature(n.Position.XY())
		f.Properties["id"] = int(n.ID)
		f.Properties["label"] = n.Label
		f.Properties["kind"] = n.Kind.String()
		f.Properties["z"] = n.Position.Z
		fc.Append(f)
	}

	for i := range g.nodes {
		from := &g.nodes[i]
		for _, id := range from.out {
			to := &g.nodes[id]
			f := geojson.NewFeature(orb.LineString{from.Position.XY(), to.Position.XY()})
			f.Properties["from"] = int(from.ID)
			f.Properties["to"] = int(to.ID)
			f.Properties["bidirectional"] = to.ConnectedTo(from.ID)
			fc.Append(f)
		}
	}

	return fc
}
