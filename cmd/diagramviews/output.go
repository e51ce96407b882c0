package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-diagramviews/pkg/pipeline"
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func printReport(w io.Writer, r *pipeline.Report) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s: %d view(s) from %d source(s)", r.Pipeline, len(r.Views), r.Sources)))
	for _, v := range r.Views {
		if v.Err != nil {
			fmt.Fprintf(w, "  %s %s %s\n", failStyle.Render("✗"), v.View, failStyle.Render(v.Err.Error()))
			continue
		}
		image := "(SVG skipped)"
		if v.Image != "" {
			image = v.Image
		}
		detail := ""
		if v.Fallback {
			detail = mutedStyle.Render(" full graph")
		}
		fmt.Fprintf(w, "  %s %s → %s %s%s\n", okStyle.Render("✓"), v.View, v.Diagram, mutedStyle.Render(image), detail)
	}
	if r.Dangling > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  %d edge(s) dropped: unknown endpoint", r.Dangling)))
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, failStyle.Render("error: "+err.Error()))
}
