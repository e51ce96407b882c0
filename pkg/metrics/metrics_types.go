package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline label values
const (
	PipelineCarve = "carve"
	PipelineModel = "model"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Registry holds all metrics for the application
type Registry struct {
	// View Metrics
	ViewsMaterializedTotal *prometheus.CounterVec
	ViewDuration           *prometheus.HistogramVec
	ViewNodes              *prometheus.HistogramVec
	ViewEdges              *prometheus.HistogramVec
	ViewFallbacksTotal     *prometheus.CounterVec

	// Carving Metrics
	CarvedLinesTotal   *prometheus.CounterVec
	MastersParsedTotal prometheus.Counter

	// Model Metrics
	DanglingEdgesTotal prometheus.Counter

	// Render Metrics
	RendersTotal        *prometheus.CounterVec
	RenderFailuresTotal *prometheus.CounterVec

	// Run Metrics
	LastRunTimestamp *prometheus.GaugeVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initViewMetrics()
	r.initRenderMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
