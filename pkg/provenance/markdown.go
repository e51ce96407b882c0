package provenance

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the companion page written next to each carved view.
type Document struct {
	View    string // also the page title
	Source  string // master file, slash separated
	Stamp   Stamp
	Image   string // link to the rendered image, relative to the page
	Mermaid string // carved diagram source
}

// Markdown renders d as front matter, a heading, an image link and the
// carved source in a mermaid fence.
func Markdown(d Document) (string, error) {
	meta := [][2]string{
		{"title", d.View},
		{"source", d.Source},
		{"version", d.Stamp.Version},
		{"generated", d.Stamp.Generated},
	}
	if d.Stamp.RunID != "" {
		meta = append(meta, [2]string{"run_id", d.Stamp.RunID})
	}

	fm, err := frontMatter(meta)
	if err != nil {
		return "", err
	}

	md := []string{
		"---",
		strings.TrimSuffix(fm, "\n"),
		"---",
		"",
		"# " + d.View,
		"",
		"[View SVG](" + d.Image + ")",
		"",
		"```mermaid",
		strings.TrimRight(d.Mermaid, "\n"),
		"```",
		"",
	}
	return strings.Join(md, "\n"), nil
}

// frontMatter encodes ordered key/value pairs as a YAML mapping with every
// value double quoted, escaping whatever a view name or path contains.
func frontMatter(pairs [][2]string) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, kv := range pairs {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv[0]},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: kv[1], Style: yaml.DoubleQuotedStyle},
		)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	return string(out), nil
}
