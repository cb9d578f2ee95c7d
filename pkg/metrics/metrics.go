package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all navigation and agent metrics.
// Every Record method is safe to call on a nil *Registry.
type Registry struct {
	registry *prometheus.Registry

	// Graph Metrics
	GraphNodes       prometheus.Gauge
	GraphConnections prometheus.Gauge
	GraphRebuilds    *prometheus.CounterVec

	// Path Query Metrics
	PathQueriesTotal  *prometheus.CounterVec
	PathQueryDuration *prometheus.HistogramVec
	AStarExpanded     prometheus.Histogram
	PathLength        prometheus.Histogram

	// Agent Metrics
	StateTransitions *prometheus.CounterVec
	PathsAbandoned   prometheus.Counter
	HidingSpotsDone  prometheus.Counter
}

// NewRegistry creates a registry with every collector registered
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initGraphMetrics()
	r.initPathMetrics()
	r.initAgentMetrics()
	return r
}

// Prometheus returns the underlying prometheus registry
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordRebuild records a graph (re)population for the given strategy
func (r *Registry) RecordRebuild(strategy string, nodes, connections int) {
	if r == nil {
		return
	}
	r.GraphRebuilds.WithLabelValues(strategy).Inc()
	r.RecordGraphSize(nodes, connections)
}

// RecordGraphSize updates the graph size gauges
func (r *Registry) RecordGraphSize(nodes, connections int) {
	if r == nil {
		return
	}
	r.GraphNodes.Set(float64(nodes))
	r.GraphConnections.Set(float64(connections))
}

// RecordPathQuery records one path query and its outcome
func (r *Registry) RecordPathQuery(kind string, found bool, expanded, length int, duration time.Duration) {
	if r == nil {
		return
	}
	result := "found"
	if !found {
		result = "empty"
	}
	r.PathQueriesTotal.WithLabelValues(kind, result).Inc()
	r.PathQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
	r.AStarExpanded.Observe(float64(expanded))
	if found {
		r.PathLength.Observe(float64(length))
	}
}

// RecordTransition records an agent state change
func (r *Registry) RecordTransition(from, to string) {
	if r == nil {
		return
	}
	r.StateTransitions.WithLabelValues(from, to).Inc()
}

// RecordPathAbandoned records a path dropped because the ground probe failed
func (r *Registry) RecordPathAbandoned() {
	if r == nil {
		return
	}
	r.PathsAbandoned.Inc()
}

// RecordHidingSpotExamined records a completed examination
func (r *Registry) RecordHidingSpotExamined() {
	if r == nil {
		return
	}
	r.HidingSpotsDone.Inc()
}
