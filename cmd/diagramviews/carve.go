package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-diagramviews/pkg/pipeline"
	"github.com/dd0wney/cluso-diagramviews/pkg/render"
)

func newCarveCmd(a *app) *cobra.Command {
	var (
		src      string
		out      string
		views    []string
		noRender bool
		watching bool
	)

	cmd := &cobra.Command{
		Use:   "carve",
		Short: "Carve annotated Mermaid masters into per-view diagrams",
		Long: `Carve every *.mmd master in --src into one diagram per view.

Markers (Mermaid comments, so masters stay renderable):
  %%@view: a,b        the next line belongs to views a and b
  %%@begin: view=a    lines up to %%@end belong to view a
  %%@end

Unmarked lines appear in every view. For each view the command writes
<master>_<view>.mmd, a <master>_<view>.md provenance page and, unless
--no-render is given, <master>_<view>.svg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.CarveOptions{SrcDir: src, OutDir: out, Views: views, Renderer: render.Nop{}}
			if !noRender {
				opts.Renderer = render.NewCommand(a.renderer)
			}
			carver, err := pipeline.NewCarver(opts, a.deps())
			if err != nil {
				return err
			}
			return a.runOnce(cmd.Context(), watching, []string{src}, []string{pipeline.MasterExt},
				func(ctx context.Context) (*pipeline.Report, error) { return carver.Run(ctx) })
		},
	}

	f := cmd.Flags()
	f.StringVar(&src, "src", pipeline.DefaultSrcDir, "directory containing master .mmd files")
	f.StringVar(&out, "out", pipeline.DefaultOutDir, "output directory for carved files")
	f.StringSliceVar(&views, "views", nil, "views to generate instead of the discovered ones (repeatable, comma separated)")
	f.BoolVar(&noRender, "no-render", false, "skip SVG rendering (still writes .mmd and .md)")
	f.BoolVar(&watching, "watch", false, "regenerate when masters change")
	return cmd
}
