package mermaid

import (
	"strings"
)

// PlaceholderID replaces identifiers that sanitize to nothing.
const PlaceholderID = "node"

// SanitizeID maps an arbitrary node id onto [a-z0-9_]+: ASCII letters are
// lowercased, digits kept, anything else becomes '_', runs of '_' collapse
// and leading or trailing '_' are trimmed. SanitizeID(SanitizeID(s)) ==
// SanitizeID(s).
func SanitizeID(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	prevUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			prevUnderscore = false
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r + ('a' - 'A'))
			prevUnderscore = false
		default:
			if !prevUnderscore {
				sb.WriteByte('_')
				prevUnderscore = true
			}
		}
	}

	if id := strings.Trim(sb.String(), "_"); id != "" {
		return id
	}
	return PlaceholderID
}

// EscapeLabel makes a display label safe inside a quoted Mermaid label.
func EscapeLabel(s string) string {
	replacer := strings.NewReplacer(
		"\"", "#quot;",
		"\n", " ",
	)
	return replacer.Replace(s)
}
