package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dd0wney/cluso-diagramviews/pkg/graphview"
	"github.com/dd0wney/cluso-diagramviews/pkg/logging"
	"github.com/dd0wney/cluso-diagramviews/pkg/mermaid"
	"github.com/dd0wney/cluso-diagramviews/pkg/metrics"
	"github.com/dd0wney/cluso-diagramviews/pkg/model"
	"github.com/dd0wney/cluso-diagramviews/pkg/render"
)

// Generator renders every view declared in a system model.
type Generator struct {
	opts GenerateOptions
	deps Deps
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts GenerateOptions, deps Deps) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{opts: opts, deps: deps.withDefaults(filepath.Dir(opts.ModelPath))}, nil
}

// Run loads the model, builds adjacency once and writes <view>.mmd for each
// view in name order. An invalid model fails the whole run; per-view
// failures are joined into the returned error.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	if _, err := os.Stat(g.opts.ModelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, g.opts.ModelPath)
		}
		return nil, fmt.Errorf("stat %s: %w", g.opts.ModelPath, err)
	}

	m, err := model.LoadFile(g.opts.ModelPath)
	if err != nil {
		return nil, err
	}

	stamp := g.deps.Stamp(ctx)
	source := filepath.ToSlash(g.opts.ModelPath)
	logger := g.deps.Logger.With(
		logging.Pipeline(metrics.PipelineModel),
		logging.RunID(stamp.RunID),
		logging.Path(source),
	)
	report := &Report{RunID: stamp.RunID, Pipeline: metrics.PipelineModel, Sources: 1}
	run := logging.StartTimer(logger, "run complete")

	graph := graphview.FromModel(m)
	report.Dangling = len(graph.Dangling)
	for _, e := range graph.Dangling {
		logger.Warn("dropping edge with unknown endpoint", logging.String("from", e.From), logging.String("to", e.To))
	}
	g.deps.Metrics.RecordDanglingEdges(len(graph.Dangling))

	adj := graphview.BuildAdjacency(graph.Edges)
	logger.Debug("model loaded",
		logging.NodeCount(len(graph.Nodes)),
		logging.EdgeCount(len(graph.Edges)),
		logging.Count(len(m.Views)),
	)

	claims := make(stemClaims)
	for _, name := range m.ViewNames() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		spec := m.Views[name]
		if keys := spec.Expand.NegativeKeys(); len(keys) > 0 {
			logger.Warn("negative hop count treated as zero", logging.View(name), logging.Strings("keys", keys))
		}
		res := g.generateView(ctx, graph, adj, claims, source, spec)
		g.record(logger, res)
		report.Views = append(report.Views, res)
	}

	g.deps.Metrics.MarkRun(metrics.PipelineModel, time.Now())
	if err := report.Err(); err != nil {
		run.EndError(err)
		return report, err
	}
	run.End(logging.Count(len(report.Views)))
	return report, nil
}

func (g *Generator) generateView(ctx context.Context, graph *graphview.Graph, adj *graphview.Adjacency, claims stemClaims, source string, spec model.ViewSpec) ViewResult {
	start := time.Now()
	res := ViewResult{View: spec.Name, Source: source}

	if err := claims.claim(spec.Name, source, spec.Name); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	sel := graphview.Select(graph, adj, spec)
	res.Nodes = len(sel.Nodes)
	res.Edges = len(sel.Edges)
	res.Fallback = sel.Fallback

	out := mermaid.Render(mermaid.Diagram{
		Title:     spec.Title,
		Layout:    spec.Layout,
		Nodes:     graph.Nodes,
		Selection: sel,
	})

	res.Diagram = filepath.Join(g.opts.OutDir, spec.Name+".mmd")
	if err := writeFileAtomic(res.Diagram, []byte(out)); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	if !render.Skips(g.opts.Renderer) {
		image := filepath.Join(g.opts.OutDir, spec.Name+".svg")
		err := g.opts.Renderer.Render(ctx, res.Diagram, image)
		g.deps.Metrics.RecordRender(metrics.PipelineModel, err)
		if err != nil {
			res.Err = fmt.Errorf("render %s: %w", image, err)
		} else {
			res.Image = image
		}
	}

	res.Duration = time.Since(start)
	return res
}

func (g *Generator) record(logger logging.Logger, res ViewResult) {
	status := metrics.StatusSuccess
	if res.Err != nil {
		status = metrics.StatusError
	}
	g.deps.Metrics.RecordView(metrics.PipelineModel, status, res.Duration, res.Nodes, res.Edges)
	if res.Fallback {
		g.deps.Metrics.RecordFallback(metrics.PipelineModel)
	}

	fields := []logging.Field{
		logging.View(res.View),
		logging.NodeCount(res.Nodes),
		logging.EdgeCount(res.Edges),
		logging.Latency(res.Duration),
	}
	if res.Err != nil {
		logger.Error("view failed", append(fields, logging.Error(res.Err))...)
		return
	}
	if res.Fallback {
		logger.Info("no selector matched, using full graph", logging.View(res.View))
	}
	logger.Info("view generated", append(fields, logging.Path(res.Diagram))...)
}
