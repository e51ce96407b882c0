package provenance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("AEST", 10*60*60)
	ts := time.Date(2026, 10, 15, 20, 30, 45, 999_000_000, loc)

	assert.Equal(t, "2026-10-15T10:30:45+00:00", FormatTimestamp(ts))
}

func TestGitVersion_OutsideRepository(t *testing.T) {
	assert.Equal(t, UnknownVersion, GitVersion(context.Background(), t.TempDir()))
}

func TestNew(t *testing.T) {
	s := New(context.Background(), t.TempDir())

	assert.Equal(t, UnknownVersion, s.Version)
	assert.NotEmpty(t, s.Generated)
	assert.Len(t, s.RunID, 36)
	assert.NotEqual(t, s.RunID, New(context.Background(), t.TempDir()).RunID)
}

func TestMarkdown(t *testing.T) {
	got, err := Markdown(Document{
		View:    "security",
		Source:  "diagrams-src/Platform.mmd",
		Stamp:   Stamp{Version: "abc1234", Generated: "2026-10-15T10:30:45+00:00"},
		Image:   "./Platform_security.svg",
		Mermaid: "flowchart LR\n  a --> b\n",
	})

	require.NoError(t, err)
	want := strings.Join([]string{
		"---",
		`title: "security"`,
		`source: "diagrams-src/Platform.mmd"`,
		`version: "abc1234"`,
		`generated: "2026-10-15T10:30:45+00:00"`,
		"---",
		"",
		"# security",
		"",
		"[View SVG](./Platform_security.svg)",
		"",
		"```mermaid",
		"flowchart LR",
		"  a --> b",
		"```",
		"",
	}, "\n")

	assert.Equal(t, want, got)
}

func TestMarkdown_RunID(t *testing.T) {
	got, err := Markdown(Document{View: "v", Stamp: Stamp{RunID: "r-1"}})
	require.NoError(t, err)
	assert.Contains(t, got, "\nrun_id: \"r-1\"\n")
}

func TestMarkdown_FrontMatterEscapesValues(t *testing.T) {
	view := `say "hi": now`
	got, err := Markdown(Document{
		View:   view,
		Source: `diagrams-src/We"ird.mmd`,
		Stamp:  Stamp{Version: "abc1234", Generated: "2026-10-15T10:30:45+00:00"},
	})

	require.NoError(t, err)
	parts := strings.SplitN(got, "---\n", 3)
	require.Len(t, parts, 3)

	var meta map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &meta))
	assert.Equal(t, view, meta["title"])
	assert.Equal(t, `diagrams-src/We"ird.mmd`, meta["source"])
	assert.Equal(t, "2026-10-15T10:30:45+00:00", meta["generated"])
}
