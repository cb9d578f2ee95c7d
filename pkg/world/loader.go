// Package world loads GeoJSON environments and provides the collaborators the
// navigation graph and agents need: ground probe, line of sight, health and a
// scripted opponent, tied together by a tick-driven simulator.
package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"nav-planner/pkg/behavior"
	"nav-planner/pkg/geom"
	"nav-planner/pkg/navgraph"
)

// ErrNoFeatures is returned when a world file contains nothing usable
var ErrNoFeatures = errors.New("world has no features")

// Feature kinds understood by the loader
const (
	KindNode       = "node"
	KindRoom       = "room"
	KindCorridor   = "corridor"
	KindHidingSpot = "hiding_spot"
	KindSpawn      = "spawn"
	KindPlayer     = "player"
	KindFloor      = "floor"
	KindWall       = "wall"
)

// HidingSpotTag marks hiding spot features that carry a tag instead of a kind
const HidingSpotTag = "HideableObject"

// Floor is a walkable polygon at a fixed height
type Floor struct {
	Polygon orb.Polygon
	Z       float64
}

// World is everything a GeoJSON environment describes
type World struct {
	Static   []navgraph.StaticNode
	Anchors  []navgraph.Anchor
	Spots    []behavior.Spot
	Spawn    geom.Vec3
	HasSpawn bool
	Route    []geom.Vec3
	Floors   []Floor
	Walls    []orb.Polygon
}

// Load reads a GeoJSON world file, or every *.geojson file when path is a directory
func Load(path string, logger *slog.Logger) (*World, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "world")

	files := []string{path}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.geojson"))
		if err != nil {
			return nil, err
		}
	}

	logger.Info("loading world", "files", len(files))
	w := &World{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		if err := w.parse(data, logger); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
	}

	if w.empty() {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFeatures)
	}
	logger.Info("world loaded",
		"nodes", len(w.Static),
		"anchors", len(w.Anchors),
		"hiding_spots", len(w.Spots),
		"floors", len(w.Floors),
		"walls", len(w.Walls))
	return w, nil
}

// Parse decodes a single GeoJSON FeatureCollection
func Parse(data []byte, logger *slog.Logger) (*World, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w := &World{}
	if err := w.parse(data, logger); err != nil {
		return nil, err
	}
	if w.empty() {
		return nil, ErrNoFeatures
	}
	return w, nil
}

func (w *World) empty() bool {
	return len(w.Static) == 0 && len(w.Anchors) == 0 && len(w.Floors) == 0 &&
		len(w.Spots) == 0 && len(w.Walls) == 0 && !w.HasSpawn && len(w.Route) == 0
}

func (w *World) parse(data []byte, logger *slog.Logger) error {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return err
	}

	// Static node connections index into this file's node features
	base := len(w.Static)
	for i, f := range fc.Features {
		kind := f.Properties.MustString("kind", "")
		if kind == "" && f.Properties.MustString("tag", "") == HidingSpotTag {
			kind = KindHidingSpot
		}
		z := f.Properties.MustFloat64("z", 0)
		label := f.Properties.MustString("label", kind)

		switch kind {
		case KindNode, KindRoom, KindCorridor, KindHidingSpot, KindSpawn:
			p, ok := f.Geometry.(orb.Point)
			if !ok {
				logger.Warn("point feature has wrong geometry", "index", i, "kind", kind, "geometry", fmt.Sprintf("%T", f.Geometry))
				continue
			}
			pos := geom.V(p[0], p[1], z)
			switch kind {
			case KindNode:
				w.Static = append(w.Static, navgraph.StaticNode{
					Label:       label,
					Position:    pos,
					Connections: connections(f.Properties, base, logger.With("index", i, "label", label)),
				})
			case KindRoom, KindCorridor:
				if kind == KindCorridor && !navgraph.IsCorridorLabel(label) {
					label = navgraph.CorridorMarker + "_" + label
				}
				w.Anchors = append(w.Anchors, navgraph.Anchor{Label: label, Position: pos})
			case KindHidingSpot:
				w.Spots = append(w.Spots, behavior.NewSpot(label, pos))
			case KindSpawn:
				w.Spawn = pos
				w.HasSpawn = true
			}

		case KindPlayer:
			ls, ok := f.Geometry.(orb.LineString)
			if !ok {
				logger.Warn("player route must be a LineString", "index", i)
				continue
			}
			for _, p := range ls {
				w.Route = append(w.Route, geom.V(p[0], p[1], z))
			}

		case KindFloor:
			for _, poly := range polygons(f.Geometry) {
				w.Floors = append(w.Floors, Floor{Polygon: poly, Z: z})
			}

		case KindWall:
			w.Walls = append(w.Walls, polygons(f.Geometry)...)

		default:
			logger.Warn("skipping feature with unknown kind", "index", i, "kind", kind)
		}
	}
	return nil
}

// connections reads the "connections" index list, offset by base.
// Negative and fractional indices are skipped.
func connections(props geojson.Properties, base int, logger *slog.Logger) []int {
	raw, ok := props["connections"].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		f, ok := v.(float64)
		if !ok || f < 0 || f != math.Trunc(f) {
			logger.Warn("skipping invalid connection index", "value", v)
			continue
		}
		out = append(out, base+int(f))
	}
	return out
}

// polygons flattens Polygon and MultiPolygon geometries
func polygons(g orb.Geometry) []orb.Polygon {
	switch g := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return []orb.Polygon(g)
	}
	return nil
}

// StaticNodes implements navgraph.StaticSource
func (w *World) StaticNodes() []navgraph.StaticNode {
	return w.Static
}

// HidingSpots implements behavior.SpotSource
func (w *World) HidingSpots() []behavior.Spot {
	return w.Spots
}

// HidingSpotPositions returns the position of every hiding spot
func (w *World) HidingSpotPositions() []geom.Vec3 {
	out := make([]geom.Vec3, len(w.Spots))
	for i, s := range w.Spots {
		out[i] = s.Position
	}
	return out
}

// FloorBounds is the planar extent of all floors
func (w *World) FloorBounds() (orb.Bound, bool) {
	if len(w.Floors) == 0 {
		return orb.Bound{}, false
	}
	b := w.Floors[0].Polygon.Bound()
	for _, f := range w.Floors[1:] {
		b = b.Union(f.Polygon.Bound())
	}
	return b, true
}
