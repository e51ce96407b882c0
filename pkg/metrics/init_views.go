package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initViewMetrics() {
	r.ViewsMaterializedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagramviews_views_materialized_total",
			Help: "Total number of views materialized",
		},
		[]string{"pipeline", "status"},
	)

	r.ViewDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagramviews_view_duration_seconds",
			Help:    "Time to select, assemble and write one view",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"pipeline"},
	)

	r.ViewNodes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagramviews_view_nodes",
			Help:    "Number of nodes (model) or lines (carve) per view",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"pipeline"},
	)

	r.ViewEdges = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diagramviews_view_edges",
			Help:    "Number of edges per view",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"pipeline"},
	)

	r.ViewFallbacksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagramviews_view_fallbacks_total",
			Help: "Views that fell back to the full graph or the catch-all view",
		},
		[]string{"pipeline"},
	)

	r.CarvedLinesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagramviews_carved_lines_total",
			Help: "Master document lines sorted into buckets",
		},
		[]string{"bucket"},
	)

	r.MastersParsedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "diagramviews_masters_parsed_total",
			Help: "Master documents parsed",
		},
	)

	r.DanglingEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "diagramviews_dangling_edges_total",
			Help: "Model edges dropped because an endpoint is not a declared node",
		},
	)

	r.LastRunTimestamp = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "diagramviews_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		},
		[]string{"pipeline"},
	)
}

func (r *Registry) initRenderMetrics() {
	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagramviews_renders_total",
			Help: "External image renders attempted",
		},
		[]string{"pipeline"},
	)

	r.RenderFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagramviews_render_failures_total",
			Help: "External image renders that failed",
		},
		[]string{"pipeline"},
	)
}
