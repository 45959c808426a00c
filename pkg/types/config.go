package types

import (
	"strconv"
	"time"
)

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the per-probe HTTP timeout (default 5s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// UserAgent is the User-Agent header sent with every probe
	// (e.g. "linkvet/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
}

// ScanConfig holds settings for document discovery.
type ScanConfig struct {
	// Path is the root directory searched for documents.
	Path string `json:"path" yaml:"path" mapstructure:"path" validate:"required"`

	// FileTypes restricts discovery to a subset of the supported
	// formats: html, md, tex, bib. Empty means all of them.
	FileTypes []string `json:"file_types,omitempty" yaml:"file_types,omitempty" mapstructure:"file_types" validate:"omitempty,dive,oneof=html md tex bib"`
}

// CheckConfig holds settings for the checking stage.
type CheckConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Workers is the probe concurrency: a positive integer, or
	// "automatic" to scale with the number of pending checks.
	Workers string `json:"workers" yaml:"workers" mapstructure:"workers" validate:"workerspec"`

	// MaxRedirects caps how many redirects a single probe follows (default 5).
	MaxRedirects int `json:"max_redirects" yaml:"max_redirects" mapstructure:"max_redirects" validate:"min=0"`

	// IgnoreTargets lists raw link prefixes excluded from checking.
	IgnoreTargets []string `json:"ignore_targets,omitempty" yaml:"ignore_targets,omitempty" mapstructure:"ignore_targets"`

	// FailOnDead makes the run exit nonzero when any target is dead,
	// after all targets have been checked and reported.
	FailOnDead bool `json:"fail_on_dead" yaml:"fail_on_dead" mapstructure:"fail_on_dead"`
}

// ResolveWorkers parses the Workers setting. automatic is true when the
// pool should size itself from the pending check count.
func (c CheckConfig) ResolveWorkers() (n int, automatic bool) {
	if c.Workers == "" || c.Workers == WorkersAutomatic {
		return 0, true
	}
	n, err := strconv.Atoi(c.Workers)
	if err != nil || n <= 0 {
		return 0, true
	}
	return n, false
}

// WorkersAutomatic selects automatic worker pool sizing.
const WorkersAutomatic = "automatic"

// CacheConfig holds settings for the verdict cache.
type CacheConfig struct {
	// File is the SQLite cache file path (default "linkvet-cache.sqlite3").
	File string `json:"file" yaml:"file" mapstructure:"file" validate:"required"`

	// LifetimeHours is how long a URL verdict stays fresh. Zero means
	// URLs are re-checked on every run. DOI verdicts never expire.
	LifetimeHours int `json:"lifetime_hours" yaml:"lifetime_hours" mapstructure:"lifetime_hours" validate:"min=0"`

	// Disabled switches to an in-memory cache that is discarded when
	// the run ends.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`
}

// Lifetime returns the URL verdict lifetime as a duration.
func (c CacheConfig) Lifetime() time.Duration {
	return time.Duration(c.LifetimeHours) * time.Hour
}

// ReportFormat selects the report rendering.
type ReportFormat string

const (
	ReportCLI      ReportFormat = "cli"
	ReportMarkdown ReportFormat = "markdown"
)

// ReportConfig holds settings for report output.
type ReportConfig struct {
	// WriteTo is "cli" for stdout, or a file path.
	WriteTo string `json:"write_to" yaml:"write_to" mapstructure:"write_to" validate:"required"`

	// Format selects the rendering: cli or markdown.
	Format ReportFormat `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=cli markdown"`

	// BaseURL, when set, replaces the scan root in reported file paths
	// so reports point at the published site instead of local files.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Export, when set, writes the machine-readable run result as YAML
	// to this path.
	Export string `json:"export,omitempty" yaml:"export,omitempty" mapstructure:"export"`
}

// LogConfig holds settings for structured logging.
type LogConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error,
	// fatal, panic, or disabled.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`

	// Format is console for human-readable output or json for machines.
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=console json"`

	// File, when set, also writes logs to this path with rotation.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`

	// MaxSizeMB is the rotation threshold for the log file (default 10).
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb" validate:"min=1"`

	// MaxBackups is how many rotated files to keep (default 3).
	MaxBackups int `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups" validate:"min=0"`
}

// Config groups all component configurations.
type Config struct {
	Scan   ScanConfig   `json:"scan" yaml:"scan" mapstructure:"scan"`
	Check  CheckConfig  `json:"check" yaml:"check" mapstructure:"check"`
	Cache  CacheConfig  `json:"cache" yaml:"cache" mapstructure:"cache"`
	Report ReportConfig `json:"report" yaml:"report" mapstructure:"report"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}

// Default returns the configuration used when no file, environment, or
// flag overrides are present.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			Path: ".",
		},
		Check: CheckConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   5 * time.Second,
				UserAgent: "linkvet/0.1 (+https://github.com/pdiddy/linkvet)",
			},
			Workers:      WorkersAutomatic,
			MaxRedirects: 5,
		},
		Cache: CacheConfig{
			File:          "linkvet-cache.sqlite3",
			LifetimeHours: 24,
		},
		Report: ReportConfig{
			WriteTo: "cli",
			Format:  ReportCLI,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
