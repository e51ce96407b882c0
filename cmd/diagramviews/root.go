package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-diagramviews/pkg/logging"
	"github.com/dd0wney/cluso-diagramviews/pkg/metrics"
	"github.com/dd0wney/cluso-diagramviews/pkg/pipeline"
	"github.com/dd0wney/cluso-diagramviews/pkg/render"
	"github.com/dd0wney/cluso-diagramviews/pkg/validation"
	"github.com/dd0wney/cluso-diagramviews/pkg/watch"
)

// app holds the persistent flags and the collaborators built from them.
type app struct {
	stdout io.Writer
	stderr io.Writer

	logLevel    string
	metricsFile string
	renderer    string

	logger  logging.Logger
	metrics *metrics.Registry
}

// logLevels are the accepted --log-level values; "" defers to LOG_LEVEL.
var logLevels = []string{"", "debug", "info", "warn", "warning", "error"}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "diagramviews",
		Short: "Materialize named diagram views from a single source",
		Long: `Materialize named views of a diagram from one authoritative source.

Subcommands:
  carve     - split annotated Mermaid masters into per-view diagrams
  generate  - select and render views declared in a YAML system model

Examples:
  diagramviews carve --src diagrams-src --out diagrams --no-render
  diagramviews generate --model models/system.yaml --render`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := validation.NewConfigValidator("diagramviews").
				OneOf("log-level", strings.ToLower(a.logLevel), logLevels).
				Validate()
			if err != nil {
				return err
			}
			a.logger = logging.Setup(a.stderr, a.logLevel)
			a.metrics = metrics.NewRegistry()
			return nil
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after each run")
	flags.StringVar(&a.renderer, "renderer", render.DefaultCommand, "image renderer command, invoked with -i <in> -o <out>")

	root.AddCommand(newCarveCmd(a), newGenerateCmd(a))
	return root
}

func (a *app) deps() pipeline.Deps {
	return pipeline.Deps{Logger: a.logger, Metrics: a.metrics}
}

// finish prints the report and exports metrics.
func (a *app) finish(report *pipeline.Report, runErr error) error {
	if report != nil {
		printReport(a.stdout, report)
	}
	if a.metricsFile != "" {
		if err := a.metrics.WriteTextfile(a.metricsFile); err != nil {
			a.logger.Error("failed to write metrics", logging.Path(a.metricsFile), logging.Error(err))
			if runErr == nil {
				return err
			}
		}
	}
	return runErr
}

// runOnce runs fn, then, when watching, runs it again after every batch
// of changes under paths until ctx is cancelled.
func (a *app) runOnce(ctx context.Context, watchMode bool, paths []string, exts []string, fn func(context.Context) (*pipeline.Report, error)) error {
	err := a.finish(fn(ctx))
	if !watchMode {
		return err
	}
	if err != nil {
		printError(a.stderr, err)
	}

	w, werr := watch.New(paths, watch.Options{Extensions: exts}, a.logger)
	if werr != nil {
		return fmt.Errorf("start watch: %w", werr)
	}
	return w.Run(ctx, func(ctx context.Context, changed []string) {
		a.logger.Info("change detected, regenerating", logging.Strings("paths", changed))
		if err := a.finish(fn(ctx)); err != nil {
			printError(a.stderr, err)
		}
	})
}
