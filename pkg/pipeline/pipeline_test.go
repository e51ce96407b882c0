package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-diagramviews/pkg/metrics"
	"github.com/dd0wney/cluso-diagramviews/pkg/provenance"
	"github.com/dd0wney/cluso-diagramviews/pkg/render"
)

// fakeRenderer copies the input to the output and fails for images whose
// name contains one of failOn.
type fakeRenderer struct {
	mu     sync.Mutex
	calls  []string
	failOn []string
}

func (f *fakeRenderer) Render(_ context.Context, input, output string) error {
	f.mu.Lock()
	f.calls = append(f.calls, filepath.Base(output))
	f.mu.Unlock()
	for _, s := range f.failOn {
		if strings.Contains(filepath.Base(output), s) {
			return errors.New("renderer exited with status 1")
		}
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	return os.WriteFile(output, data, 0o644)
}

func testDeps() Deps {
	return Deps{
		Metrics: metrics.NewRegistry(),
		Stamp: func(context.Context) provenance.Stamp {
			return provenance.Stamp{Version: "abc1234", Generated: "2026-10-15T10:30:45+00:00", RunID: "run-1"}
		},
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.Counter.GetValue()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOptions_Validate(t *testing.T) {
	assert.Error(t, CarveOptions{OutDir: "out"}.Validate())
	assert.Error(t, CarveOptions{SrcDir: "src"}.Validate())
	assert.NoError(t, CarveOptions{SrcDir: "src", OutDir: "out"}.Validate())

	assert.Error(t, GenerateOptions{OutDir: "out"}.Validate())
	assert.NoError(t, GenerateOptions{ModelPath: "m.yaml", OutDir: "out"}.Validate())
}

const platformMaster = `---
title: Platform
---
flowchart LR
  web[Web] --> api[API]
%%@view: ops,security
  api --> vault[(Vault)]
%%@begin: view=ops
  api --> metrics[Metrics]
%%@end
`

func TestCarver_Run(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "diagrams-src")
	out := filepath.Join(dir, "diagrams")
	writeFile(t, filepath.Join(src, "Platform.mmd"), platformMaster)
	writeFile(t, filepath.Join(src, "notes.txt"), "ignored")

	r := &fakeRenderer{}
	c, err := NewCarver(CarveOptions{SrcDir: src, OutDir: out, Renderer: r}, testDeps())
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 1, report.Sources)
	require.Len(t, report.Views, 2)
	assert.Equal(t, "ops", report.Views[0].View)
	assert.Equal(t, "security", report.Views[1].View)
	assert.Equal(t, []string{"Platform_ops.svg", "Platform_security.svg"}, r.calls)

	assert.Equal(t,
		"flowchart LR\n  web[Web] --> api[API]\n  api --> vault[(Vault)]\n  api --> metrics[Metrics]\n",
		readFile(t, filepath.Join(out, "Platform_ops.mmd")))
	assert.Equal(t,
		"flowchart LR\n  web[Web] --> api[API]\n  api --> vault[(Vault)]\n",
		readFile(t, filepath.Join(out, "Platform_security.mmd")))

	page := readFile(t, filepath.Join(out, "Platform_security.md"))
	assert.Contains(t, page, `source: "`+filepath.ToSlash(filepath.Join(src, "Platform.mmd"))+`"`)
	assert.Contains(t, page, `version: "abc1234"`)
	assert.Contains(t, page, "[View SVG](./Platform_security.svg)")
	assert.Contains(t, page, "```mermaid\nflowchart LR\n")

	assert.FileExists(t, filepath.Join(out, "Platform_ops.svg"))
}

func TestCarver_ExplicitViews(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(src, "Platform.mmd"), platformMaster)

	c, err := NewCarver(CarveOptions{SrcDir: src, OutDir: out, Views: []string{"security,security", "extra"}}, testDeps())
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Views, 2)
	assert.Equal(t, "security", report.Views[0].View)
	assert.Equal(t, "extra", report.Views[1].View)
	assert.Empty(t, report.Views[0].Image, "no renderer configured")

	assert.Equal(t, "flowchart LR\n  web[Web] --> api[API]\n", readFile(t, filepath.Join(out, "Platform_extra.mmd")))
	assert.NoFileExists(t, filepath.Join(out, "Platform_ops.mmd"))
}

func TestCarver_CatchAll(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(src, "Plain.mmd"), "flowchart TB\n  a --> b\n\n\n")

	c, err := NewCarver(CarveOptions{SrcDir: src, OutDir: out}, testDeps())
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Views, 1)
	assert.Equal(t, "all", report.Views[0].View)
	assert.Equal(t, "flowchart TB\n  a --> b\n", readFile(t, filepath.Join(out, "Plain_all.mmd")))
}

func TestCarver_MissingSource(t *testing.T) {
	c, err := NewCarver(CarveOptions{SrcDir: filepath.Join(t.TempDir(), "nope"), OutDir: "out"}, testDeps())
	require.NoError(t, err)

	_, err = c.Run(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestCarver_NoMasters(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCarver(CarveOptions{SrcDir: dir, OutDir: filepath.Join(dir, "out")}, testDeps())
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Sources)
	assert.Empty(t, report.Views)
}

func TestCarver_RenderFailureKeepsText(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(src, "Platform.mmd"), platformMaster)

	deps := testDeps()
	c, err := NewCarver(CarveOptions{SrcDir: src, OutDir: out, Renderer: &fakeRenderer{failOn: []string{"_ops"}}}, deps)
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Platform_ops.svg")

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "ops", report.Failed()[0].View)

	assert.FileExists(t, filepath.Join(out, "Platform_ops.mmd"))
	assert.FileExists(t, filepath.Join(out, "Platform_ops.md"))
	assert.FileExists(t, filepath.Join(out, "Platform_security.svg"))

	failures := deps.Metrics.RenderFailuresTotal.WithLabelValues(metrics.PipelineCarve)
	assert.Equal(t, 1.0, counterValue(t, failures))
}

func TestCarver_InvalidViewName(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "M.mmd"), "flowchart LR\n%%@view: ../escape\n  a --> b\n")

	c, err := NewCarver(CarveOptions{SrcDir: src, OutDir: filepath.Join(dir, "out")}, testDeps())
	require.NoError(t, err)

	_, err = c.Run(context.Background())
	assert.ErrorIs(t, err, ErrInvalidViewName)
	assert.NoFileExists(t, filepath.Join(dir, "escape.mmd"))
}

const systemModel = `
system:
  name: Shop
nodes:
  web:   { label: Web, tags: [edge] }
  api:   { label: API, tags: [core] }
  db:    { label: Orders DB, kind: database, tags: [core] }
  queue: { kind: Queue }
  mail:  {}
edges:
  - { from: web, to: api }
  - { from: api, to: db, tags: [data] }
  - { from: api, to: queue }
  - { from: queue, to: mail }
  - { from: api, to: ghost }
views:
  core:
    include: { tags: [core] }
  async:
    title: Async path
    layout: TB
    include: { nodes: [api] }
    expand: { outbound: 2 }
  everything: {}
`

func TestGenerator_Run(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "models", "system.yaml")
	out := filepath.Join(dir, "diagrams")
	writeFile(t, modelPath, systemModel)

	deps := testDeps()
	g, err := NewGenerator(GenerateOptions{ModelPath: modelPath, OutDir: out}, deps)
	require.NoError(t, err)

	report, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Dangling)
	require.Len(t, report.Views, 3)
	assert.Equal(t, []string{"async", "core", "everything"},
		[]string{report.Views[0].View, report.Views[1].View, report.Views[2].View})

	async := readFile(t, filepath.Join(out, "async.mmd"))
	assert.True(t, strings.HasPrefix(async, "---\ntitle: Async path\n---\nflowchart TB\n\n"))
	for _, line := range []string{`  api["API"]`, `  db[("Orders DB")]`, `  queue(["queue"])`, `  mail["mail"]`, "  queue --> mail"} {
		assert.Contains(t, async, line+"\n")
	}
	assert.NotContains(t, async, "web")

	core := readFile(t, filepath.Join(out, "core.mmd"))
	assert.Equal(t, "---\ntitle: Shop — core\n---\nflowchart LR\n\n  api[\"API\"]\n  db[(\"Orders DB\")]\n\n  api --> db\n", core)

	assert.True(t, report.Views[2].Fallback)
	assert.Equal(t, 5, report.Views[2].Nodes)
	assert.Equal(t, 4, report.Views[2].Edges)
	assert.NotContains(t, readFile(t, filepath.Join(out, "everything.mmd")), "ghost")

	assert.Equal(t, 1.0, counterValue(t, deps.Metrics.DanglingEdgesTotal))
}

func TestGenerator_Render(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "system.yaml")
	writeFile(t, modelPath, systemModel)

	r := &fakeRenderer{failOn: []string{"core"}}
	g, err := NewGenerator(GenerateOptions{ModelPath: modelPath, OutDir: filepath.Join(dir, "out"), Renderer: r}, testDeps())
	require.NoError(t, err)

	report, err := g.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"async.svg", "core.svg", "everything.svg"}, r.calls)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "core", report.Failed()[0].View)
	assert.FileExists(t, filepath.Join(dir, "out", "core.mmd"))
	assert.FileExists(t, filepath.Join(dir, "out", "everything.svg"))
}

func TestGenerator_Errors(t *testing.T) {
	dir := t.TempDir()

	g, err := NewGenerator(GenerateOptions{ModelPath: filepath.Join(dir, "missing.yaml"), OutDir: dir}, testDeps())
	require.NoError(t, err)
	_, err = g.Run(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "views:\n  v:\n    layout: XY\n")
	g, err = NewGenerator(GenerateOptions{ModelPath: bad, OutDir: dir}, testDeps())
	require.NoError(t, err)
	_, err = g.Run(context.Background())
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "view.mmd")
	require.NoError(t, writeFileAtomic(path, []byte("one\n")))
	require.NoError(t, writeFileAtomic(path, []byte("two\n")))
	assert.Equal(t, "two\n", readFile(t, path))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestCarver_OutputStemConflict(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(src, "Platform.mmd"), "flowchart LR\n%%@view: a_b\n  first --> x\n")
	writeFile(t, filepath.Join(src, "Platform_a.mmd"), "flowchart LR\n%%@view: b\n  second --> y\n")

	c, err := NewCarver(CarveOptions{SrcDir: src, OutDir: out}, testDeps())
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.ErrorIs(t, err, ErrOutputConflict)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, filepath.ToSlash(filepath.Join(src, "Platform_a.mmd")), report.Failed()[0].Source)

	assert.Contains(t, readFile(t, filepath.Join(out, "Platform_a_b.mmd")), "first --> x")
}

func TestCarver_NopRendererSkipsImages(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "Platform.mmd"), platformMaster)

	deps := testDeps()
	c, err := NewCarver(CarveOptions{SrcDir: src, OutDir: filepath.Join(dir, "out"), Renderer: render.Nop{}}, deps)
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.NoError(t, err)
	for _, v := range report.Views {
		assert.Empty(t, v.Image, v.View)
	}
	assert.Zero(t, counterValue(t, deps.Metrics.RendersTotal.WithLabelValues(metrics.PipelineCarve)))
}

func TestGenerator_NegativeHopsOnlyAffectTheirView(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "system.yaml")
	writeFile(t, modelPath, `
nodes:
  api: {}
  db: {}
edges:
  - { from: api, to: db }
views:
  narrow:
    include: { nodes: [api] }
    expand: { neighbours: -1 }
  wide:
    include: { nodes: [api] }
    expand: { neighbours: 1 }
`)

	g, err := NewGenerator(GenerateOptions{ModelPath: modelPath, OutDir: filepath.Join(dir, "out")}, testDeps())
	require.NoError(t, err)

	report, err := g.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Views, 2)
	assert.Equal(t, 1, report.Views[0].Nodes, "narrow keeps only its seed")
	assert.Equal(t, 2, report.Views[1].Nodes)
}

func TestGenerator_CaseOnlyViewNamesConflict(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "system.yaml")
	writeFile(t, modelPath, "nodes: { a: {} }\nviews:\n  Core: {}\n  core: {}\n")

	g, err := NewGenerator(GenerateOptions{ModelPath: modelPath, OutDir: filepath.Join(dir, "out")}, testDeps())
	require.NoError(t, err)

	report, err := g.Run(context.Background())
	require.ErrorIs(t, err, ErrOutputConflict)
	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "core", report.Failed()[0].View)
}
