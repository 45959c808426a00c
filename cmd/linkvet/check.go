package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/linkvet/internal/cache"
	"github.com/pdiddy/linkvet/internal/check"
	"github.com/pdiddy/linkvet/internal/discover"
	"github.com/pdiddy/linkvet/internal/extract"
	"github.com/pdiddy/linkvet/internal/logging"
	"github.com/pdiddy/linkvet/internal/normalize"
	"github.com/pdiddy/linkvet/internal/registry"
	"github.com/pdiddy/linkvet/internal/report"
	"github.com/pdiddy/linkvet/internal/schedule"
	"github.com/pdiddy/linkvet/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Check every external link found under a path",
	Long: `Check walks the given path (default: the configured scan path) for
HTML, Markdown, LaTeX, and BibTeX documents, extracts their external
links, and verifies each distinct target once. Fresh cached verdicts
are reused instead of probing again.

The exit code is 0 on success, 1 on a fatal error, and 2 when
--fail-on-dead is set and at least one target is dead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("workers", "", `probe concurrency: a number or "automatic"`)
	checkCmd.Flags().Duration("timeout", 0, "timeout per probe")
	checkCmd.Flags().String("user-agent", "", "User-Agent header sent with probes")
	checkCmd.Flags().Int("max-redirects", -1, "redirects to follow per probe")
	checkCmd.Flags().StringSlice("ignore", nil, "skip links starting with this prefix (repeatable)")
	checkCmd.Flags().StringSlice("file-types", nil, "restrict scanning to formats: html, md, tex, bib")
	checkCmd.Flags().String("cache-file", "", "verdict cache database path")
	checkCmd.Flags().Int("cache-hours", -1, "hours a URL verdict stays fresh")
	checkCmd.Flags().Bool("no-cache", false, "use a throwaway in-memory cache for this run")
	checkCmd.Flags().String("write-to", "", `report destination: "cli" or a file path`)
	checkCmd.Flags().String("format", "", "report format: cli or markdown")
	checkCmd.Flags().String("base-url", "", "show file paths as URLs under this base in the report")
	checkCmd.Flags().String("export", "", "also write the run result as YAML to this path")
	checkCmd.Flags().Bool("fail-on-dead", false, "exit with code 2 when any target is dead")

	rootCmd.AddCommand(checkCmd)
}

// applyCheckFlags lays explicit command-line flags over the loaded
// configuration. Only flags the user actually set are applied.
func applyCheckFlags(cmd *cobra.Command, cfg *types.Config) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Check.Workers, _ = flags.GetString("workers")
	}
	if flags.Changed("timeout") {
		cfg.Check.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("user-agent") {
		cfg.Check.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("max-redirects") {
		cfg.Check.MaxRedirects, _ = flags.GetInt("max-redirects")
	}
	if flags.Changed("ignore") {
		cfg.Check.IgnoreTargets, _ = flags.GetStringSlice("ignore")
	}
	if flags.Changed("file-types") {
		cfg.Scan.FileTypes, _ = flags.GetStringSlice("file-types")
	}
	if flags.Changed("cache-file") {
		cfg.Cache.File, _ = flags.GetString("cache-file")
	}
	if flags.Changed("cache-hours") {
		cfg.Cache.LifetimeHours, _ = flags.GetInt("cache-hours")
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Disabled, _ = flags.GetBool("no-cache")
	}
	if flags.Changed("write-to") {
		cfg.Report.WriteTo, _ = flags.GetString("write-to")
	}
	if flags.Changed("format") {
		format, _ := flags.GetString("format")
		cfg.Report.Format = types.ReportFormat(format)
	}
	if flags.Changed("base-url") {
		cfg.Report.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("export") {
		cfg.Report.Export, _ = flags.GetString("export")
	}
	if flags.Changed("fail-on-dead") {
		cfg.Check.FailOnDead, _ = flags.GetBool("fail-on-dead")
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Scan.Path = args[0]
	}
	applyCheckFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	started := time.Now()
	log.Info().
		Str("run_id", runID).
		Str("path", cfg.Scan.Path).
		Msg("starting link verification")

	// --- discovery and extraction ---

	docs, walkDefects, err := discover.Find(cfg.Scan.Path, cfg.Scan.FileTypes)
	if err != nil {
		return err
	}
	log.Info().Int("files", len(docs)).Msg("discovered documents")

	reg := registry.New()
	scan := scanDocuments(docs, cfg.Check.IgnoreTargets, reg, walkDefects, log)
	log.Info().
		Int("occurrences", reg.OccurrenceCount()).
		Int("targets", reg.TargetCount()).
		Int("malformed", len(scan.malformed)).
		Msg("extracted links")

	// --- checking ---

	cachePath := cfg.Cache.File
	if cfg.Cache.Disabled {
		cachePath = cache.MemoryPath
	}
	store, err := cache.Open(cachePath)
	if err != nil {
		return err
	}
	defer store.Close()

	workers, _ := cfg.Check.ResolveWorkers()
	results, summary, err := schedule.Run(context.Background(), reg.Targets(), store, check.New(cfg.Check), schedule.Options{
		Workers:  workers,
		Lifetime: cfg.Cache.Lifetime(),
		Logger:   log,
	})
	if err != nil {
		return err
	}
	if summary.Dead > 0 {
		log.Warn().Int("dead", summary.Dead).Msg("dead link targets found")
	}

	// --- reporting ---

	run := &types.RunResult{
		ID:           runID,
		Timestamp:    started,
		Root:         cfg.Scan.Path,
		Files:        reg.FanOut(results),
		ParseErrors:  scan.parseErrors,
		AccessErrors: scan.accessErrors,
		Malformed:    scan.malformed,
		Stats: types.RunStats{
			FilesScanned:  scan.filesScanned,
			Occurrences:   reg.OccurrenceCount(),
			UniqueTargets: summary.Targets,
			Probed:        summary.Probed,
			CacheHits:     summary.CacheHits,
			OK:            summary.OK,
			Dead:          summary.Dead,
			Unknown:       summary.Unknown,
			Duration:      time.Since(started),
		},
	}

	reporter := report.New(cfg.Report, os.Stdout)
	if err := reporter.Write(run); err != nil {
		return err
	}
	if cfg.Report.Export != "" {
		if err := report.WriteYAML(run, cfg.Report.Export); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Report.Export).Msg("wrote YAML export")
	}

	log.Info().
		Int("targets", summary.Targets).
		Int("probed", summary.Probed).
		Int("cache_hits", summary.CacheHits).
		Int("ok", summary.OK).
		Int("dead", summary.Dead).
		Int("unknown", summary.Unknown).
		Dur("duration", run.Stats.Duration).
		Msg("run complete")

	if cfg.Check.FailOnDead && summary.Dead > 0 {
		return &schedule.DeadLinksError{Count: summary.Dead}
	}
	return nil
}

// --- extraction stage ---

// scanResult accumulates what the extraction stage found besides the
// registered occurrences.
type scanResult struct {
	filesScanned int
	parseErrors  []types.FileDefect
	accessErrors []types.FileDefect
	malformed    []types.MalformedLink
}

// scanDocuments reads and extracts every discovered document, filing
// occurrences into the registry. Unreadable and unparseable files are
// recorded and skipped; the run continues with the remaining files.
func scanDocuments(docs []discover.Document, ignore []string, reg *registry.Registry, walkDefects []types.FileDefect, log zerolog.Logger) scanResult {
	out := scanResult{accessErrors: walkDefects}

	for _, doc := range docs {
		data, err := os.ReadFile(doc.Path)
		if err != nil {
			log.Warn().Err(err).Str("file", doc.Path).Msg("cannot read file")
			out.accessErrors = append(out.accessErrors, types.FileDefect{Path: doc.Path, Reason: err.Error()})
			continue
		}
		out.filesScanned++

		ext, err := extract.ForFormat(doc.Format)
		if err != nil {
			out.parseErrors = append(out.parseErrors, types.FileDefect{Path: doc.Path, Reason: err.Error()})
			continue
		}
		occs, err := ext.Extract(string(data), doc.Path)
		if err != nil {
			log.Warn().Err(err).Str("file", doc.Path).Msg("extraction failed")
			out.parseErrors = append(out.parseErrors, types.FileDefect{Path: doc.Path, Reason: err.Error()})
			continue
		}
		log.Debug().Str("file", doc.Path).Int("links", len(occs)).Msg("extracted")

		for _, occ := range occs {
			if ignored(occ.Raw, ignore) {
				continue
			}
			if err := reg.Register(occ); err != nil {
				out.malformed = append(out.malformed, types.MalformedLink{
					Occurrence: occ,
					Reason:     malformedReason(err),
				})
			}
		}
	}
	return out
}

// ignored reports whether a raw link matches one of the configured
// ignore prefixes.
func ignored(raw string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return false
}

func malformedReason(err error) string {
	var merr *normalize.MalformedTargetError
	if errors.As(err, &merr) {
		return merr.Reason
	}
	return err.Error()
}
