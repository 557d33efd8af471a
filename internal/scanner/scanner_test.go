// internal/scanner/scanner_test.go
package scanner

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackchuka/sift/internal/model"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// touch moves a file's mtime forward by offset so the change is visible
// regardless of filesystem timestamp resolution.
func touch(t *testing.T, path string, offset time.Duration) {
	t.Helper()
	ts := time.Now().Add(offset)
	require.NoError(t, os.Chtimes(path, ts, ts))
}

func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.html": `class="p-4 text-sm"`,
		"b.js":   `const x = "hidden md:flex"`,
	})
	return root
}

func newScanner(t *testing.T, sources []model.GlobEntry, opts ...Option) *Scanner {
	t.Helper()
	s, err := New(sources, opts...)
	require.NoError(t, err)
	return s
}

var fixtureCandidates = []string{"class", "const", "flex", "hidden", "md:flex", "p-4", "text-sm", "x"}

func TestScan_EndToEnd(t *testing.T) {
	root := fixture(t)
	t.Chdir(root)

	s := newScanner(t, []model.GlobEntry{{Base: ".", Pattern: "**/*"}})
	got := s.Scan()

	assert.Subset(t, got, []string{"flex", "hidden", "md:flex", "p-4", "text-sm"})
	assert.Equal(t, fixtureCandidates, got)
	assert.True(t, slices.IsSorted(got))
	assert.ElementsMatch(t, []string{"a.html", "b.js"}, s.Files())
	assert.Equal(t, []model.GlobEntry{{Base: ".", Pattern: "*"}}, s.Globs())
}

func TestScan_SecondScanReadsNothing(t *testing.T) {
	root := fixture(t)
	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "**/*"}})

	first := s.Scan()
	assert.Equal(t, 2, s.Stats().FilesRead)

	second := s.Scan()
	assert.Equal(t, first, second)
	assert.Equal(t, 0, s.Stats().FilesRead)
	assert.Equal(t, 2, s.Stats().FilesChecked)
	assert.Equal(t, 0, s.Stats().NewCandidates)
}

func TestScan_TouchWithoutChangeRereads(t *testing.T) {
	root := fixture(t)
	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "**/*"}})

	first := s.Scan()
	touch(t, filepath.Join(root, "a.html"), time.Hour)

	second := s.Scan()
	assert.Equal(t, 1, s.Stats().FilesRead)
	assert.Equal(t, 0, s.Stats().NewCandidates)
	assert.Equal(t, first, second)
}

func TestScan_PicksUpModifiedContent(t *testing.T) {
	root := fixture(t)
	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "**/*"}})
	s.Scan()

	path := filepath.Join(root, "a.html")
	require.NoError(t, os.WriteFile(path, []byte(`class="grid gap-2"`), 0o644))
	touch(t, path, time.Hour)

	got := s.Scan()
	assert.Contains(t, got, "grid")
	assert.Contains(t, got, "gap-2")
	// candidates only accumulate
	assert.Contains(t, got, "p-4")
	assert.Equal(t, 2, s.Stats().NewCandidates)
}

func TestScan_NewFilesAreNotDiscovered(t *testing.T) {
	root := fixture(t)
	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "**/*"}})
	s.Scan()

	writeFiles(t, root, map[string]string{"c.html": `<p class="italic">`})

	assert.NotContains(t, s.Scan(), "italic")
	assert.Len(t, s.Files(), 2)
}

func TestScan_UnreadableFileIsSkipped(t *testing.T) {
	root := fixture(t)
	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "**/*"}})
	require.Len(t, s.Files(), 2)

	require.NoError(t, os.Remove(filepath.Join(root, "b.js")))

	got := s.Scan()
	assert.Contains(t, got, "p-4")
	assert.NotContains(t, got, "hidden")

	// a missing file is retried on every scan
	s.Scan()
	assert.Equal(t, 1, s.Stats().FilesRead)
}

func TestScan_DeterministicAcrossWorkers(t *testing.T) {
	root := t.TempDir()
	files := make(map[string]string)
	for i := range 40 {
		files[filepath.Join("pages", string(rune('a'+i%26))+string(rune('a'+i/26))+".html")] =
			`<div class="flex p-` + string(rune('0'+i%10)) + ` md:grid hover:bg-[#fff]">`
	}
	writeFiles(t, root, files)

	sources := []model.GlobEntry{{Base: root, Pattern: "**/*"}}
	one := newScanner(t, sources, WithWorkers(1)).Scan()
	many := newScanner(t, sources, WithWorkers(16)).Scan()
	assert.Equal(t, one, many)
}

func TestScanContent_ReturnsOnlyUnseen(t *testing.T) {
	root := fixture(t)
	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "**/*"}})

	before := s.Scan()
	fresh := s.ScanContent([]model.ChangedContent{
		model.InlineContent(`<div class="flex grid-cols-2 p-4 gap-x-1">`),
	})

	assert.Equal(t, []string{"grid-cols-2", "gap-x-1"}, fresh)
	for _, c := range fresh {
		assert.NotContains(t, before, c)
	}

	after := s.Scan()
	union := append(slices.Clone(before), fresh...)
	slices.Sort(union)
	assert.Equal(t, union, after)
}

func TestScanContent_FileItem(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"extra.vue": `<template><b class="font-bold"></b></template>`})

	s := newScanner(t, nil)
	fresh := s.ScanContent([]model.ChangedContent{
		model.FileContent(filepath.Join(root, "extra.vue")),
		model.FileContent(filepath.Join(root, "missing.vue")),
		{},
	})
	assert.Equal(t, []string{"class", "font-bold"}, fresh)
	assert.Empty(t, s.Files())
	assert.Empty(t, s.Globs())

	assert.Empty(t, s.ScanContent([]model.ChangedContent{model.InlineContent("font-bold")}))
}

func TestScanContent_InlineWinsOverFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.html": "from-file"})

	s := newScanner(t, nil)
	content := "from-inline"
	fresh := s.ScanContent([]model.ChangedContent{{File: filepath.Join(root, "a.html"), Content: &content}})
	assert.Equal(t, []string{"from-inline"}, fresh)
}

func TestScan_SveltePreprocessor(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"App.svelte": `<div class:underline={on} class="p-2"></div>`,
	})

	got := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "**/*"}}).Scan()
	assert.Contains(t, got, "underline")
	assert.NotContains(t, got, "class:underline")
}

func TestScan_CustomPreprocessor(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"notes.md": "foo~~bar"})

	sources := []model.GlobEntry{{Base: root, Pattern: "*.md"}}
	plain := newScanner(t, sources).Scan()
	assert.NotContains(t, plain, "bar")

	tilde := func(b []byte) []byte { return bytes.ReplaceAll(b, []byte("~~"), []byte(" ")) }
	got := newScanner(t, sources, WithPreprocessor("MD", tilde)).Scan()
	assert.Equal(t, []string{"bar", "foo"}, got)
}

func TestScan_ExplicitGlobs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/index.html":          `<main class="container">`,
		"src/nested/a.html":       `<p class="mx-auto">`,
		"src/app.js":              `"hidden"`,
		"other/skip.html":         `<p class="skipped">`,
		"src/node_modules/x.html": `<p class="vendored">`,
	})

	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "src/**/*.html"}})
	got := s.Scan()

	assert.Contains(t, got, "container")
	assert.Contains(t, got, "mx-auto")
	assert.NotContains(t, got, "hidden")
	assert.NotContains(t, got, "skipped")
	assert.NotContains(t, got, "vendored")
	assert.Equal(t, []model.GlobEntry{{Base: filepath.Join(root, "src"), Pattern: "**/*.html"}}, s.Globs())
}

func TestScan_BraceSourcesAndDuplicates(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.html": "alpha",
		"b.html": "beta",
		"c.html": "gamma",
	})

	s := newScanner(t, []model.GlobEntry{
		{Base: root, Pattern: "{a,b}.html"},
		{Base: root, Pattern: "a.html"},
	})

	assert.Equal(t, []string{filepath.Join(root, "a.html"), filepath.Join(root, "b.html")}, s.Files())
	assert.Equal(t, []model.GlobEntry{{Base: root, Pattern: "{a.html,b.html}"}}, s.Globs())
	assert.Equal(t, []string{"alpha", "beta"}, s.Scan())
}

func TestScan_MalformedGlobIsDropped(t *testing.T) {
	root := fixture(t)
	s := newScanner(t, []model.GlobEntry{
		{Base: root, Pattern: "[a-"},
		{Base: root, Pattern: "*.html"},
	})

	assert.Equal(t, []string{filepath.Join(root, "a.html")}, s.Files())
	assert.Equal(t, []model.GlobEntry{{Base: root, Pattern: "*.html"}}, s.Globs())
}

func TestScan_TraceLogsExplicitGlobs(t *testing.T) {
	root := fixture(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: "*.html"}}, WithLogger(logger), WithTrace(true))
	s.Scan()

	out := buf.String()
	assert.Contains(t, out, "explicit glob")
	assert.Contains(t, out, "/*.html")
	assert.Contains(t, out, "files=1")
}

func TestScan_DirectorySourceIsAutoDetected(t *testing.T) {
	root := fixture(t)
	writeFiles(t, root, map[string]string{"img/logo.png": "\x89PNG flex"})

	s := newScanner(t, []model.GlobEntry{{Base: root, Pattern: ""}})
	assert.ElementsMatch(t, []string{filepath.Join(root, "a.html"), filepath.Join(root, "b.js")}, s.Files())
}

func TestScan_NoSources(t *testing.T) {
	s := newScanner(t, nil)
	assert.Empty(t, s.Scan())
	assert.Empty(t, s.Files())
}

func TestCandidatesWithPositions(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.html")
	writeFiles(t, root, map[string]string{"a.html": `<p class="flex">`})

	s := newScanner(t, nil)

	want := []model.Position{{Candidate: "class", Offset: 3}, {Candidate: "flex", Offset: 10}}
	assert.Equal(t, want, s.CandidatesWithPositions(model.FileContent(path)))
	// served from cache
	assert.Equal(t, want, s.CandidatesWithPositions(model.FileContent(path)))

	require.NoError(t, os.WriteFile(path, []byte(`<p class="grid">`), 0o644))
	touch(t, path, time.Hour)
	assert.Equal(t, []model.Position{{Candidate: "class", Offset: 3}, {Candidate: "grid", Offset: 10}},
		s.CandidatesWithPositions(model.FileContent(path)))

	inline := s.CandidatesWithPositions(model.InlineContent("md:flex"))
	assert.Equal(t, []model.Position{{Candidate: "md:flex", Offset: 0}, {Candidate: "flex", Offset: 3}}, inline)

	// positional extraction never feeds the accumulated set
	assert.Equal(t, []string{"md:flex", "flex"}, s.ScanContent([]model.ChangedContent{model.InlineContent("md:flex")}))
}

func TestCandidatesWithPositions_CacheDisabled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.html": "flex"})

	s := newScanner(t, nil, WithPositionCacheSize(0))
	got := s.CandidatesWithPositions(model.FileContent(filepath.Join(root, "a.html")))
	assert.Equal(t, []model.Position{{Candidate: "flex", Offset: 0}}, got)
	assert.Nil(t, s.CandidatesWithPositions(model.FileContent(filepath.Join(root, "missing.html"))))
}

func TestNew_RejectsMisuse(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative workers", WithWorkers(-1)},
		{"empty preprocessor extension", WithPreprocessor(" ", svelteClassDirectives)},
		{"nil preprocessor", WithPreprocessor(".vue", nil)},
		{"negative cache size", WithPositionCacheSize(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, tt.opt)
			assert.Error(t, err)
		})
	}
}
