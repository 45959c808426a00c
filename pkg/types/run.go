// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FileDefect is a per-file problem found before any checking happened:
// a document that failed parsing or a file that could not be read.
type FileDefect struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// MalformedLink is an occurrence whose raw target could not be parsed
// as a URL or DOI. It is reported as a defect of the document and never
// probed.
type MalformedLink struct {
	Occurrence LinkOccurrence `json:"occurrence" yaml:"occurrence"`
	Reason     string         `json:"reason" yaml:"reason"`
}

// RunStats aggregates the counts of one whole verification run.
type RunStats struct {
	FilesScanned  int           `json:"files_scanned" yaml:"files_scanned"`
	Occurrences   int           `json:"occurrences" yaml:"occurrences"`
	UniqueTargets int           `json:"unique_targets" yaml:"unique_targets"`
	Probed        int           `json:"probed" yaml:"probed"`
	CacheHits     int           `json:"cache_hits" yaml:"cache_hits"`
	OK            int           `json:"ok" yaml:"ok"`
	Dead          int           `json:"dead" yaml:"dead"`
	Unknown       int           `json:"unknown" yaml:"unknown"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
}

// ChecksPerSecond returns the probe rate over the run duration.
func (s RunStats) ChecksPerSecond() float64 {
	secs := s.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.Probed) / secs
}

// RunResult is the complete outcome of one verification run, everything
// the report and the machine-readable export render.
type RunResult struct {
	ID           string          `json:"id" yaml:"id"`
	Timestamp    time.Time       `json:"timestamp" yaml:"timestamp"`
	Root         string          `json:"root" yaml:"root"`
	Stats        RunStats        `json:"stats" yaml:"stats"`
	Files        []FileResults   `json:"files" yaml:"files"`
	ParseErrors  []FileDefect    `json:"parse_errors,omitempty" yaml:"parse_errors,omitempty"`
	AccessErrors []FileDefect    `json:"access_errors,omitempty" yaml:"access_errors,omitempty"`
	Malformed    []MalformedLink `json:"malformed,omitempty" yaml:"malformed,omitempty"`
}

// HasDefects reports whether the run found anything worth fixing.
func (r *RunResult) HasDefects() bool {
	if len(r.ParseErrors) > 0 || len(r.AccessErrors) > 0 || len(r.Malformed) > 0 {
		return true
	}
	return r.Stats.Dead > 0 || r.Stats.Unknown > 0
}
