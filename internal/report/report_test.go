// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/linkvet/pkg/types"
)

func sampleRun() *types.RunResult {
	occ := func(raw, file string, line int) types.LinkOccurrence {
		return types.LinkOccurrence{Raw: raw, Kind: types.KindURL, File: file, Line: line}
	}
	deadRes := types.CheckResult{
		Target: "https://example.com/gone", Kind: types.KindURL,
		Status: types.StatusDead, HTTPCode: 404,
	}
	okMoved := types.CheckResult{
		Target: "https://example.com/moved", Kind: types.KindURL,
		Status: types.StatusOK, HTTPCode: 200,
		RedirectTo: "https://example.com/new-home",
	}
	unknownRes := types.CheckResult{
		Target: "https://slow.example.com/", Kind: types.KindURL,
		Status: types.StatusUnknown, Reason: types.ReasonTimeout,
	}

	return &types.RunResult{
		ID:        "3e7f4a1c-0000-0000-0000-000000000000",
		Timestamp: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Root:      "/corpus",
		Stats: types.RunStats{
			FilesScanned: 2, Occurrences: 4, UniqueTargets: 3,
			Probed: 3, CacheHits: 0, OK: 1, Dead: 1, Unknown: 1,
			Duration: 1200 * time.Millisecond,
		},
		Files: []types.FileResults{
			{
				File: "/corpus/docs/a.md",
				Results: []types.OccurrenceResult{
					{Occurrence: occ("https://example.com/gone", "/corpus/docs/a.md", 3), Result: deadRes},
					{Occurrence: occ("https://example.com/moved", "/corpus/docs/a.md", 7), Result: okMoved},
					{Occurrence: occ("https://example.com/moved", "/corpus/docs/a.md", 12), Result: okMoved},
				},
			},
			{
				File: "/corpus/docs/b.html",
				Results: []types.OccurrenceResult{
					{Occurrence: occ("https://slow.example.com/", "/corpus/docs/b.html", 0), Result: unknownRes},
				},
			},
		},
		ParseErrors:  []types.FileDefect{{Path: "/corpus/broken.tex", Reason: "unbalanced braces"}},
		AccessErrors: []types.FileDefect{{Path: "/corpus/locked.md", Reason: "permission denied"}},
		Malformed: []types.MalformedLink{
			{
				Occurrence: types.LinkOccurrence{Raw: "https://", Kind: types.KindURL, File: "/corpus/docs/a.md", Line: 20},
				Reason:     "missing host",
			},
		},
	}
}

func TestWriteRendersAllSections(t *testing.T) {
	var buf bytes.Buffer
	r := New(types.ReportConfig{WriteTo: "cli", Format: types.ReportCLI}, &buf)
	require.NoError(t, r.Write(sampleRun()))

	out := buf.String()
	for _, want := range []string{
		"Link check report",
		"Dead links",
		"https://example.com/gone",
		"404",
		"Unreachable links",
		"timeout",
		"Malformed links",
		"missing host",
		"Parse errors",
		"unbalanced braces",
		"Unreadable files",
		"permission denied",
		"Permanently moved links",
		"https://example.com/new-home",
		"Statistics",
		"Files scanned",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "No dead links found")
}

func TestWriteCleanRun(t *testing.T) {
	var buf bytes.Buffer
	r := New(types.ReportConfig{WriteTo: "cli", Format: types.ReportCLI}, &buf)

	run := &types.RunResult{
		ID:        "run-1",
		Timestamp: time.Now(),
		Root:      "/corpus",
		Stats:     types.RunStats{FilesScanned: 5, OK: 9, UniqueTargets: 9, Probed: 9},
	}
	require.NoError(t, r.Write(run))

	out := buf.String()
	assert.Contains(t, out, "No dead links found.")
	assert.Contains(t, out, "Statistics")
	assert.NotContains(t, out, "Dead links")
}

func TestMarkdownRendering(t *testing.T) {
	var buf bytes.Buffer
	r := New(types.ReportConfig{WriteTo: "cli", Format: types.ReportMarkdown}, &buf)
	require.NoError(t, r.Write(sampleRun()))

	out := buf.String()
	assert.Contains(t, out, "# Link check report")
	assert.Contains(t, out, "## Dead links")
	assert.Contains(t, out, "| https://example.com/gone |")
}

func TestRedirectAdvisoriesListedOnce(t *testing.T) {
	var buf bytes.Buffer
	r := New(types.ReportConfig{WriteTo: "cli", Format: types.ReportCLI}, &buf)
	require.NoError(t, r.Write(sampleRun()))

	// Two occurrences of the moved link, one advisory row.
	assert.Equal(t, 1, strings.Count(buf.String(), "https://example.com/new-home"))
}

func TestBaseURLRewritesPaths(t *testing.T) {
	var buf bytes.Buffer
	r := New(types.ReportConfig{
		WriteTo: "cli",
		Format:  types.ReportCLI,
		BaseURL: "https://docs.example.org/",
	}, &buf)
	require.NoError(t, r.Write(sampleRun()))

	out := buf.String()
	assert.Contains(t, out, "https://docs.example.org/docs/a.md")
	assert.NotContains(t, out, "/corpus/docs/a.md")
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	var buf bytes.Buffer
	r := New(types.ReportConfig{WriteTo: path, Format: types.ReportMarkdown}, &buf)
	require.NoError(t, r.Write(sampleRun()))

	assert.Zero(t, buf.Len(), "file destination should not write to the cli writer")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Dead links")
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	run := sampleRun()
	require.NoError(t, WriteYAML(run, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got types.RunResult
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.Stats.Dead, got.Stats.Dead)
	require.Len(t, got.Files, 2)
	assert.Equal(t, run.Files[0].Results[0].Result.HTTPCode, got.Files[0].Results[0].Result.HTTPCode)
	require.Len(t, got.Malformed, 1)
	assert.Equal(t, "missing host", got.Malformed[0].Reason)
}

func TestChecksPerSecond(t *testing.T) {
	s := types.RunStats{Probed: 30, Duration: 2 * time.Second}
	assert.InDelta(t, 15.0, s.ChecksPerSecond(), 0.001)
	assert.Zero(t, types.RunStats{}.ChecksPerSecond())
}
