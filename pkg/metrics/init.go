package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "navgraph_nodes",
			Help: "Number of nodes in the live navigation graph",
		},
	)

	r.GraphConnections = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "navgraph_connections",
			Help: "Number of outgoing connections in the live navigation graph",
		},
	)

	r.GraphRebuilds = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "navgraph_rebuilds_total",
			Help: "Total number of graph populations by strategy",
		},
		[]string{"strategy"},
	)
}

func (r *Registry) initPathMetrics() {
	r.PathQueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "navgraph_path_queries_total",
			Help: "Total number of path queries by kind and result",
		},
		[]string{"kind", "result"},
	)

	r.PathQueryDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "navgraph_path_query_duration_seconds",
			Help:    "Path query duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"kind"},
	)

	r.AStarExpanded = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "navgraph_astar_nodes_expanded",
			Help:    "Number of nodes expanded per A* search",
			Buckets: []float64{1, 10, 100, 1000, 10000},
		},
	)

	r.PathLength = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "navgraph_path_waypoints",
			Help:    "Number of waypoints in found paths",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
}

func (r *Registry) initAgentMetrics() {
	r.StateTransitions = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_state_transitions_total",
			Help: "Total number of behavior state transitions",
		},
		[]string{"from", "to"},
	)

	r.PathsAbandoned = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "agent_paths_abandoned_total",
			Help: "Paths dropped because the agent lost ground support",
		},
	)

	r.HidingSpotsDone = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "agent_hiding_spots_examined_total",
			Help: "Hiding spots fully examined",
		},
	)
}
