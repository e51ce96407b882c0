package carve

import (
	"regexp"
)

var frontMatterDelim = regexp.MustCompile(`^\s*---\s*$`)

// StripFrontMatter drops a leading block delimited by two `---` lines. When
// the opening delimiter has no match the lines are returned untouched.
func StripFrontMatter(lines []string) []string {
	if len(lines) == 0 || !frontMatterDelim.MatchString(lines[0]) {
		return lines
	}
	for i := 1; i < len(lines); i++ {
		if frontMatterDelim.MatchString(lines[i]) {
			return lines[i+1:]
		}
	}
	return lines
}
