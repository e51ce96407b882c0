package carve

import (
	"strings"
	"unicode"
)

// CatchAllView names the single view produced for a master with no tags.
const CatchAllView = "all"

// ResolveViews decides which views to emit. An explicit list wins (first
// occurrence order, duplicates and blanks dropped); otherwise the discovered
// names are used. With neither, the catch-all view is returned and given an
// empty bucket.
func ResolveViews(p *Parsed, explicit []string) []string {
	if views := splitViewList(strings.Join(explicit, ",")); len(views) > 0 {
		return views
	}
	if names := p.ViewNames(); len(names) > 0 {
		return names
	}
	if _, ok := p.Views[CatchAllView]; !ok {
		p.Views[CatchAllView] = nil
	}
	return []string{CatchAllView}
}

// Assemble returns the global lines followed by the lines of view. Unknown
// views yield the global lines alone.
func Assemble(p *Parsed, view string) []string {
	viewLines := p.Views[view]
	out := make([]string, 0, len(p.Global)+len(viewLines))
	out = append(out, p.Global...)
	return append(out, viewLines...)
}

// Document joins lines into file content: trailing whitespace trimmed and a
// single final newline.
func Document(lines []string) string {
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace) + "\n"
}
