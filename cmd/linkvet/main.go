// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the linkvet CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/linkvet/internal/schedule"
	"github.com/pdiddy/linkvet/pkg/types"
)

// Build metadata, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command for the linkvet CLI.
var rootCmd = &cobra.Command{
	Use:   "linkvet",
	Short: "Verify that external links in documents are alive",
	Long: `linkvet extracts the external links from a corpus of HTML, Markdown,
LaTeX, and BibTeX documents and verifies that each distinct target is
reachable. Verdicts are cached between runs, so unchanged links cost
nothing to re-verify; DOIs that resolved once are trusted forever.

Run "linkvet check" on a directory to get a report of dead, unreachable,
and permanently moved links, and "linkvet cache" to inspect or reset the
verdict cache.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./linkvet.yaml or ~/.config/linkvet/linkvet.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("linkvet")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "linkvet"))
		}
	}

	viper.SetEnvPrefix("LINKVET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration: built-in defaults,
// overlaid with the config file and LINKVET_* environment variables.
// Flag overrides are applied by each command on top of this.
func loadConfig() (types.Config, error) {
	cfg := types.Default()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var dead *schedule.DeadLinksError
		if errors.As(err, &dead) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
