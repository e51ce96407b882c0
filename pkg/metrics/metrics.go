package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordView records one materialized view
func (r *Registry) RecordView(pipeline, status string, duration time.Duration, nodes, edges int) {
	r.ViewsMaterializedTotal.WithLabelValues(pipeline, status).Inc()
	r.ViewDuration.WithLabelValues(pipeline).Observe(duration.Seconds())
	if status == StatusSuccess {
		r.ViewNodes.WithLabelValues(pipeline).Observe(float64(nodes))
		r.ViewEdges.WithLabelValues(pipeline).Observe(float64(edges))
	}
}

// RecordFallback records a view that took the full graph or catch-all path
func (r *Registry) RecordFallback(pipeline string) {
	r.ViewFallbacksTotal.WithLabelValues(pipeline).Inc()
}

// RecordMaster records one parsed master and how its lines were bucketed
func (r *Registry) RecordMaster(globalLines, viewLines int) {
	r.MastersParsedTotal.Inc()
	r.CarvedLinesTotal.WithLabelValues("global").Add(float64(globalLines))
	r.CarvedLinesTotal.WithLabelValues("view").Add(float64(viewLines))
}

// RecordDanglingEdges records edges dropped while building a graph
func (r *Registry) RecordDanglingEdges(n int) {
	r.DanglingEdgesTotal.Add(float64(n))
}

// RecordRender records an external render attempt
func (r *Registry) RecordRender(pipeline string, err error) {
	r.RendersTotal.WithLabelValues(pipeline).Inc()
	if err != nil {
		r.RenderFailuresTotal.WithLabelValues(pipeline).Inc()
	}
}

// MarkRun stamps the completion time of a run
func (r *Registry) MarkRun(pipeline string, at time.Time) {
	r.LastRunTimestamp.WithLabelValues(pipeline).Set(float64(at.Unix()))
}

// WriteTextfile writes the registry in text exposition format for the
// node_exporter textfile collector. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
