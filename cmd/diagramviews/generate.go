package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-diagramviews/pkg/pipeline"
	"github.com/dd0wney/cluso-diagramviews/pkg/render"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		modelPath string
		out       string
		renderSVG bool
		watching  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the views declared in a YAML system model",
		Long: `Select a subgraph for every view declared in the model and write it as
<view>.mmd. Views seed from explicit node ids, node tags and edge tags,
then expand by undirected neighbours and by outbound/inbound hops. A view
with no matching selector shows the whole graph.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.GenerateOptions{ModelPath: modelPath, OutDir: out, Renderer: render.Nop{}}
			if renderSVG {
				opts.Renderer = render.NewCommand(a.renderer)
			}
			gen, err := pipeline.NewGenerator(opts, a.deps())
			if err != nil {
				return err
			}
			return a.runOnce(cmd.Context(), watching, []string{modelPath}, nil,
				func(ctx context.Context) (*pipeline.Report, error) { return gen.Run(ctx) })
		},
	}

	f := cmd.Flags()
	f.StringVar(&modelPath, "model", pipeline.DefaultModelPath, "system model YAML file")
	f.StringVar(&out, "out", pipeline.DefaultOutDir, "output directory for generated diagrams")
	f.BoolVar(&renderSVG, "render", false, "also render each view to SVG")
	f.BoolVar(&watching, "watch", false, "regenerate when the model changes")
	return cmd
}
