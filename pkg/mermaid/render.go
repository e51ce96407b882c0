package mermaid

import (
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-diagramviews/pkg/graphview"
	"github.com/dd0wney/cluso-diagramviews/pkg/model"
)

// shape holds the bracket pair wrapping a node label.
type shape struct {
	open  string
	close string
}

var (
	rectangle = shape{open: "[", close: "]"}
	cylinder  = shape{open: "[(", close: ")]"}
	stadium   = shape{open: "([", close: "])"}
)

// shapesByKind maps lowercased node kinds to shapes; unknown kinds are rectangles.
var shapesByKind = map[string]shape{
	"database": cylinder,
	"db":       cylinder,
	"queue":    stadium,
	"bus":      stadium,
	"topic":    stadium,
}

func shapeFor(kind string) shape {
	if s, ok := shapesByKind[strings.ToLower(strings.TrimSpace(kind))]; ok {
		return s
	}
	return rectangle
}

// Diagram is everything needed to emit one view as flowchart source.
type Diagram struct {
	Title     string
	Layout    string
	Nodes     map[string]model.Node
	Selection graphview.Selection
}

// NodeLine renders one node declaration.
func NodeLine(id string, n model.Node) string {
	label := n.Label
	if label == "" {
		label = id
	}
	s := shapeFor(n.Kind)
	return fmt.Sprintf("  %s%s\"%s\"%s", SanitizeID(id), s.open, EscapeLabel(label), s.close)
}

// EdgeLine renders one edge declaration.
func EdgeLine(k graphview.EdgeKey) string {
	return fmt.Sprintf("  %s --> %s", SanitizeID(k.From), SanitizeID(k.To))
}

// Render emits front matter with the title, the flowchart header, node
// declarations sorted by id, a blank line, then edges sorted by (from, to).
// Nodes absent from d.Nodes and edges with an endpoint outside the selected
// node set are skipped. Output is byte-for-byte deterministic.
func Render(d Diagram) string {
	layout := d.Layout
	if layout == "" {
		layout = model.DefaultLayout
	}

	lines := []string{
		"---",
		"title: " + d.Title,
		"---",
		"flowchart " + layout,
		"",
	}

	for _, id := range d.Selection.Nodes.Sorted() {
		n, ok := d.Nodes[id]
		if !ok {
			continue
		}
		lines = append(lines, NodeLine(id, n))
	}

	lines = append(lines, "")
	for _, k := range d.Selection.Edges.Sorted() {
		if d.Selection.Nodes.Has(k.From) && d.Selection.Nodes.Has(k.To) {
			lines = append(lines, EdgeLine(k))
		}
	}
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}
