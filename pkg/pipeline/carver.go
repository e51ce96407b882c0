package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dd0wney/cluso-diagramviews/pkg/carve"
	"github.com/dd0wney/cluso-diagramviews/pkg/logging"
	"github.com/dd0wney/cluso-diagramviews/pkg/metrics"
	"github.com/dd0wney/cluso-diagramviews/pkg/provenance"
	"github.com/dd0wney/cluso-diagramviews/pkg/render"
	"github.com/dd0wney/cluso-diagramviews/pkg/validation"
)

// Carver splits annotated master documents into per-view diagrams, each
// with a provenance page and optionally a rendered image.
type Carver struct {
	opts CarveOptions
	deps Deps
}

// NewCarver validates opts and returns a Carver.
func NewCarver(opts CarveOptions, deps Deps) (*Carver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Carver{opts: opts, deps: deps.withDefaults(opts.SrcDir)}, nil
}

// Masters lists the master documents in the source directory, sorted.
func (c *Carver) Masters() ([]string, error) {
	info, err := os.Stat(c.opts.SrcDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, c.opts.SrcDir)
		}
		return nil, fmt.Errorf("stat %s: %w", c.opts.SrcDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceNotFound, c.opts.SrcDir)
	}

	masters, err := filepath.Glob(filepath.Join(c.opts.SrcDir, "*"+MasterExt))
	if err != nil {
		return nil, fmt.Errorf("list masters: %w", err)
	}
	sort.Strings(masters)
	return masters, nil
}

// Run carves every master. Text artifacts of a view are written before its
// image is rendered, so a render failure leaves them in place. The
// returned error joins every per-view failure.
func (c *Carver) Run(ctx context.Context) (*Report, error) {
	masters, err := c.Masters()
	if err != nil {
		return nil, err
	}

	stamp := c.deps.Stamp(ctx)
	logger := c.deps.Logger.With(logging.Pipeline(metrics.PipelineCarve), logging.RunID(stamp.RunID))
	report := &Report{RunID: stamp.RunID, Pipeline: metrics.PipelineCarve}
	run := logging.StartTimer(logger, "run complete")

	if len(masters) == 0 {
		run.End(logging.Path(c.opts.SrcDir), logging.Count(0))
		return report, nil
	}

	claims := make(stemClaims)
	for _, master := range masters {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Sources++
		report.Views = append(report.Views, c.carveMaster(ctx, logger, stamp, claims, master)...)
	}

	c.deps.Metrics.MarkRun(metrics.PipelineCarve, time.Now())
	if err := report.Err(); err != nil {
		run.EndError(err)
		return report, err
	}
	run.End(logging.Count(len(report.Views)))
	return report, nil
}

func (c *Carver) carveMaster(ctx context.Context, logger logging.Logger, stamp provenance.Stamp, claims stemClaims, master string) []ViewResult {
	source := filepath.ToSlash(master)
	logger = logger.With(logging.Master(source))

	data, err := os.ReadFile(master)
	if err != nil {
		logger.Error("failed to read master", logging.Error(err))
		return []ViewResult{{Source: source, Err: fmt.Errorf("read %s: %w", master, err)}}
	}

	parsed := carve.ParseMaster(string(data))
	viewLines := 0
	for _, lines := range parsed.Views {
		viewLines += len(lines)
	}
	c.deps.Metrics.RecordMaster(len(parsed.Global), viewLines)

	views := carve.ResolveViews(parsed, c.opts.Views)
	if len(views) == 1 && views[0] == carve.CatchAllView && len(parsed.Views[carve.CatchAllView]) == 0 {
		c.deps.Metrics.RecordFallback(metrics.PipelineCarve)
		logger.Debug("no views declared, emitting catch-all view")
	}

	base := strings.TrimSuffix(filepath.Base(master), MasterExt)
	results := make([]ViewResult, 0, len(views))
	for _, view := range views {
		res := c.carveView(ctx, stamp, claims, parsed, base, source, view)
		c.record(logger, res)
		results = append(results, res)
	}
	return results
}

func (c *Carver) carveView(ctx context.Context, stamp provenance.Stamp, claims stemClaims, parsed *carve.Parsed, base, source, view string) ViewResult {
	start := time.Now()
	res := ViewResult{View: view, Source: source}

	if err := validation.ViewName(view); err != nil {
		res.Err = fmt.Errorf("%s: %w", source, err)
		res.Duration = time.Since(start)
		return res
	}

	stem := base + "_" + view
	if err := claims.claim(stem, source, view); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	lines := carve.Assemble(parsed, view)
	content := carve.Document(lines)
	res.Lines = len(lines)

	res.Diagram = filepath.Join(c.opts.OutDir, stem+".mmd")
	res.Document = filepath.Join(c.opts.OutDir, stem+".md")
	image := filepath.Join(c.opts.OutDir, stem+".svg")

	if err := writeFileAtomic(res.Diagram, []byte(content)); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	page, err := provenance.Markdown(provenance.Document{
		View:    view,
		Source:  source,
		Stamp:   stamp,
		Image:   "./" + stem + ".svg",
		Mermaid: content,
	})
	if err != nil {
		res.Err = fmt.Errorf("%s view %q: %w", source, view, err)
		res.Duration = time.Since(start)
		return res
	}
	if err := writeFileAtomic(res.Document, []byte(page)); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	if !render.Skips(c.opts.Renderer) {
		err := c.opts.Renderer.Render(ctx, res.Diagram, image)
		c.deps.Metrics.RecordRender(metrics.PipelineCarve, err)
		if err != nil {
			res.Err = fmt.Errorf("render %s: %w", image, err)
		} else {
			res.Image = image
		}
	}

	res.Duration = time.Since(start)
	return res
}

func (c *Carver) record(logger logging.Logger, res ViewResult) {
	status := metrics.StatusSuccess
	if res.Err != nil {
		status = metrics.StatusError
	}
	c.deps.Metrics.RecordView(metrics.PipelineCarve, status, res.Duration, res.Lines, 0)

	fields := []logging.Field{
		logging.View(res.View),
		logging.Count(res.Lines),
		logging.Latency(res.Duration),
	}
	if res.Err != nil {
		logger.Error("view failed", append(fields, logging.Error(res.Err))...)
		return
	}
	logger.Info("view carved", append(fields, logging.Path(res.Diagram), logging.String("image", res.Image))...)
}

// stemClaims records which master and view own each output stem in one
// run. Keys are lowercased so case-insensitive filesystems cannot merge
// two stems either.
type stemClaims map[string]string

func (s stemClaims) claim(stem, source, view string) error {
	key := strings.ToLower(stem)
	owner := fmt.Sprintf("%s view %q", source, view)
	if prev, taken := s[key]; taken {
		return fmt.Errorf("%w: %s and %s both write %s.*", ErrOutputConflict, prev, owner, stem)
	}
	s[key] = owner
	return nil
}
