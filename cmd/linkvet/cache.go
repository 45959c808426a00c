package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/linkvet/internal/cache"
	"github.com/pdiddy/linkvet/internal/normalize"
	"github.com/pdiddy/linkvet/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the verdict cache",
	Long: `Cache manages the SQLite database where check verdicts live between
runs. Use stats to see what is cached and clear to drop verdicts, either
wholesale or for a single target.`,
}

// --- stats subcommand ---

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show verdict counts and the age of the cache",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := openCacheStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Cache file", stats.Path},
		{"Schema version", stats.SchemaVersion},
		{"Records", stats.Records},
		{"URL verdicts", stats.ByKind[types.KindURL]},
		{"DOI verdicts", stats.ByKind[types.KindDOI]},
		{"OK", stats.ByStatus[types.StatusOK]},
		{"Dead", stats.ByStatus[types.StatusDead]},
		{"Unknown", stats.ByStatus[types.StatusUnknown]},
	})
	if stats.Records > 0 {
		t.AppendRows([]table.Row{
			{"Oldest check", stats.Oldest.Local().Format("2006-01-02 15:04:05")},
			{"Newest check", stats.Newest.Local().Format("2006-01-02 15:04:05")},
		})
	}
	t.Render()
	return nil
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop cached verdicts",
	Long: `Clear removes every cached verdict, forcing the next run to probe all
targets again. With --target, only that link or DOI is removed; the
target is normalized the same way the check command normalizes it.`,
	RunE: runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := openCacheStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	target, _ := cmd.Flags().GetString("target")
	if target == "" {
		n, err := store.Clear(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d cached verdict(s)\n", n)
		return nil
	}

	normalized, err := normalize.Normalize(target, normalize.Classify(target))
	if err != nil {
		return err
	}
	n, err := store.Remove(context.Background(), normalized)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d cached verdict(s) for %s\n", n, normalized)
	return nil
}

// --- shared plumbing ---

// openCacheStore opens the cache the same way the check command would:
// configured path, overridden by --cache-file.
func openCacheStore(cmd *cobra.Command) (*cache.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := cfg.Cache.File
	if cmd.Flags().Changed("cache-file") {
		path, _ = cmd.Flags().GetString("cache-file")
	}
	return cache.Open(path)
}

func init() {
	cacheCmd.PersistentFlags().String("cache-file", "", "verdict cache database path")
	cacheClearCmd.Flags().String("target", "", "remove only this link or DOI")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
