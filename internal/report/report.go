// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders run results for humans and machines.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/linkvet/pkg/types"
)

// Reporter renders one run according to the report configuration.
type Reporter struct {
	cfg types.ReportConfig
	out io.Writer
}

// New returns a Reporter that sends "cli"-destined output to out.
func New(cfg types.ReportConfig, out io.Writer) *Reporter {
	return &Reporter{cfg: cfg, out: out}
}

// Write renders the run and delivers it to the configured destination:
// the cli writer for "cli", a file path otherwise.
func (r *Reporter) Write(run *types.RunResult) error {
	doc := r.render(run)
	if r.cfg.WriteTo == "" || r.cfg.WriteTo == "cli" {
		_, err := io.WriteString(r.out, doc)
		return err
	}
	if err := os.WriteFile(r.cfg.WriteTo, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func (r *Reporter) render(run *types.RunResult) string {
	markdown := r.cfg.Format == types.ReportMarkdown
	var b strings.Builder

	if markdown {
		fmt.Fprintf(&b, "# Link check report\n\n")
	} else {
		title := "Link check report"
		fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	}
	fmt.Fprintf(&b, "Run %s, started %s, scanned %s\n\n",
		run.ID, run.Timestamp.Format("2006-01-02 15:04:05 MST"), run.Root)

	dead, unknown := r.occurrenceRows(run)
	if !run.HasDefects() {
		fmt.Fprintf(&b, "No dead links found.\n\n")
	}

	if len(dead) > 0 {
		heading(&b, markdown, "Dead links")
		renderTable(&b, markdown, table.Row{"File", "Line", "Link", "HTTP"}, dead)
	}
	if len(unknown) > 0 {
		heading(&b, markdown, "Unreachable links (try them by hand)")
		renderTable(&b, markdown, table.Row{"File", "Line", "Link", "Reason"}, unknown)
	}
	if len(run.Malformed) > 0 {
		heading(&b, markdown, "Malformed links")
		rows := make([]table.Row, 0, len(run.Malformed))
		for _, m := range run.Malformed {
			rows = append(rows, table.Row{
				r.displayPath(run.Root, m.Occurrence.File),
				lineCell(m.Occurrence.Line),
				m.Occurrence.Raw,
				m.Reason,
			})
		}
		renderTable(&b, markdown, table.Row{"File", "Line", "Link", "Reason"}, rows)
	}
	if len(run.ParseErrors) > 0 {
		heading(&b, markdown, "Parse errors")
		renderTable(&b, markdown, table.Row{"File", "Error"}, defectRows(run.Root, run.ParseErrors, r))
	}
	if len(run.AccessErrors) > 0 {
		heading(&b, markdown, "Unreadable files")
		renderTable(&b, markdown, table.Row{"File", "Error"}, defectRows(run.Root, run.AccessErrors, r))
	}

	if redirects := redirectRows(run); len(redirects) > 0 {
		heading(&b, markdown, "Permanently moved links (update the source)")
		renderTable(&b, markdown, table.Row{"Link", "New location"}, redirects)
	}

	heading(&b, markdown, "Statistics")
	renderTable(&b, markdown, table.Row{"Metric", "Value"}, statsRows(run))

	return b.String()
}

// occurrenceRows collects the dead and unknown occurrence rows, in
// file order.
func (r *Reporter) occurrenceRows(run *types.RunResult) (dead, unknown []table.Row) {
	for _, file := range run.Files {
		display := r.displayPath(run.Root, file.File)
		for _, row := range file.Results {
			switch row.Result.Status {
			case types.StatusDead:
				dead = append(dead, table.Row{
					display, lineCell(row.Occurrence.Line), row.Occurrence.Raw, row.Result.HTTPCode,
				})
			case types.StatusUnknown:
				unknown = append(unknown, table.Row{
					display, lineCell(row.Occurrence.Line), row.Occurrence.Raw, string(row.Result.Reason),
				})
			}
		}
	}
	return dead, unknown
}

// redirectRows lists each permanently moved target once, in first-seen
// order.
func redirectRows(run *types.RunResult) []table.Row {
	var rows []table.Row
	seen := make(map[string]bool)
	for _, file := range run.Files {
		for _, row := range file.Results {
			res := row.Result
			if res.RedirectTo == "" || seen[res.Target] {
				continue
			}
			seen[res.Target] = true
			rows = append(rows, table.Row{res.Target, res.RedirectTo})
		}
	}
	return rows
}

func defectRows(root string, defects []types.FileDefect, r *Reporter) []table.Row {
	rows := make([]table.Row, 0, len(defects))
	for _, d := range defects {
		rows = append(rows, table.Row{r.displayPath(root, d.Path), d.Reason})
	}
	return rows
}

func statsRows(run *types.RunResult) []table.Row {
	s := run.Stats
	return []table.Row{
		{"Files scanned", s.FilesScanned},
		{"Link occurrences", s.Occurrences},
		{"Distinct targets", s.UniqueTargets},
		{"Checked against cache", s.CacheHits},
		{"Probed over the network", s.Probed},
		{"OK", s.OK},
		{"Dead", s.Dead},
		{"Unknown", s.Unknown},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
		{"Checks per second", fmt.Sprintf("%.1f", s.ChecksPerSecond())},
	}
}

// displayPath rewrites a scanned file path for display. With a base URL
// configured, the scan root is replaced so local paths read as the
// published addresses they correspond to.
func (r *Reporter) displayPath(root, path string) string {
	if r.cfg.BaseURL == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	base := strings.TrimSuffix(r.cfg.BaseURL, "/")
	if rel == "." {
		return base
	}
	return base + "/" + filepath.ToSlash(rel)
}

func lineCell(line int) string {
	if line <= 0 {
		return "-"
	}
	return strconv.Itoa(line)
}

func heading(b *strings.Builder, markdown bool, text string) {
	if markdown {
		fmt.Fprintf(b, "## %s\n\n", text)
	} else {
		fmt.Fprintf(b, "%s\n%s\n\n", text, strings.Repeat("-", len(text)))
	}
}

func renderTable(b *strings.Builder, markdown bool, header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.AppendHeader(header)
	t.AppendRows(rows)
	if markdown {
		b.WriteString(t.RenderMarkdown())
	} else {
		t.SetStyle(table.StyleLight)
		b.WriteString(t.Render())
	}
	b.WriteString("\n\n")
}
