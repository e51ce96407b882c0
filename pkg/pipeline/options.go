package pipeline

import (
	"context"

	"github.com/dd0wney/cluso-diagramviews/pkg/logging"
	"github.com/dd0wney/cluso-diagramviews/pkg/metrics"
	"github.com/dd0wney/cluso-diagramviews/pkg/provenance"
	"github.com/dd0wney/cluso-diagramviews/pkg/render"
	"github.com/dd0wney/cluso-diagramviews/pkg/validation"
)

// Defaults used by the CLI.
const (
	DefaultSrcDir    = "diagrams-src"
	DefaultOutDir    = "diagrams"
	DefaultModelPath = "models/system.yaml"
)

// MasterExt is the extension of carvable master documents.
const MasterExt = ".mmd"

// CarveOptions configures a Carver.
type CarveOptions struct {
	SrcDir string
	OutDir string
	// Views overrides view discovery. Entries may be comma separated.
	Views []string
	// Renderer produces images; nil or render.Nop skips rendering.
	Renderer render.Renderer
}

// Validate checks the options.
func (o CarveOptions) Validate() error {
	return validation.NewConfigValidator("carve").
		Required("src", o.SrcDir).
		Required("out", o.OutDir).
		Validate()
}

// GenerateOptions configures a Generator.
type GenerateOptions struct {
	ModelPath string
	OutDir    string
	// Renderer produces images; nil or render.Nop writes diagram sources only.
	Renderer render.Renderer
}

// Validate checks the options.
func (o GenerateOptions) Validate() error {
	return validation.NewConfigValidator("generate").
		Required("model", o.ModelPath).
		Required("out", o.OutDir).
		Validate()
}

// Deps are the collaborators shared by both pipelines. Zero values select
// a nop logger, the default metrics registry and a live provenance stamp.
type Deps struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
	// Stamp is called once per run.
	Stamp func(ctx context.Context) provenance.Stamp
}

func (d Deps) withDefaults(stampDir string) Deps {
	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.DefaultRegistry()
	}
	if d.Stamp == nil {
		d.Stamp = func(ctx context.Context) provenance.Stamp {
			return provenance.New(ctx, stampDir)
		}
	}
	return d
}
