package carve

import (
	"regexp"
	"sort"
	"strings"
)

// Marker syntax, all written as diagram comments so a master stays renderable:
//
//	%%@view: a,b        tag the next content line for views a and b
//	%%@begin: view=a    start a block owned by view a
//	%%@end              close the open block
var (
	lineMarker  = regexp.MustCompile(`^\s*%%@view\s*:\s*(?:view\s*=\s*)?(.+?)\s*$`)
	beginMarker = regexp.MustCompile(`^\s*%%@begin\s*:\s*view\s*=\s*([A-Za-z0-9_.-]+)\s*$`)
	endMarker   = regexp.MustCompile(`^\s*%%@end\s*$`)
)

// Parsed is a master document split into buckets.
type Parsed struct {
	// Global lines appear in every view, in document order.
	Global []string
	// Views maps a view name to its own lines, in document order.
	Views map[string][]string
}

// ViewNames returns the discovered view names, sorted.
func (p *Parsed) ViewNames() []string {
	names := make([]string, 0, len(p.Views))
	for name := range p.Views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SplitLines splits text on line endings, accepting \n, \r\n and \r. A final
// line ending does not produce a trailing empty line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// ParseMaster strips front matter and sorts every remaining line into the
// global bucket or a view bucket. Markers are consumed. A block left open at
// the end of input keeps its trailing lines.
func ParseMaster(text string) *Parsed {
	p := &Parsed{Views: make(map[string][]string)}

	var pending []string
	inBlock := false
	blockView := ""

	for _, line := range StripFrontMatter(SplitLines(text)) {
		if inBlock {
			if endMarker.MatchString(line) {
				inBlock = false
				blockView = ""
				continue
			}
			p.Views[blockView] = append(p.Views[blockView], line)
			continue
		}

		if m := beginMarker.FindStringSubmatch(line); m != nil {
			inBlock = true
			blockView = m[1]
			continue
		}

		if m := lineMarker.FindStringSubmatch(line); m != nil {
			pending = splitViewList(m[1])
			continue
		}

		if len(pending) > 0 {
			for _, v := range pending {
				p.Views[v] = append(p.Views[v], line)
			}
			pending = nil
			continue
		}

		p.Global = append(p.Global, line)
	}

	return p
}

// splitViewList parses "a, b,,a" into [a b]: trimmed, empties dropped,
// duplicates removed, first occurrence order kept.
func splitViewList(list string) []string {
	seen := make(map[string]bool)
	var views []string
	for _, v := range strings.Split(list, ",") {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		views = append(views, v)
	}
	return views
}
