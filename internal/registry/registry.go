// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry deduplicates link occurrences into distinct checkable
// targets while keeping every source location for reporting.
package registry

import (
	"github.com/pdiddy/linkvet/internal/normalize"
	"github.com/pdiddy/linkvet/pkg/types"
)

// Registry files occurrences under their normalized target. Entries keep
// first-registration order so downstream output is deterministic no
// matter in which order checks complete.
type Registry struct {
	entries  []*types.TargetEntry
	byTarget map[string]*types.TargetEntry
	order    []registered
}

// registered pairs one occurrence with the target it normalized to.
type registered struct {
	occ    types.LinkOccurrence
	target string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byTarget: make(map[string]*types.TargetEntry)}
}

// Register normalizes the occurrence's raw link and files it under the
// resulting target, creating the entry on first sight. It fails only
// when normalization fails; the caller reports such occurrences as
// malformed and drops them.
func (r *Registry) Register(occ types.LinkOccurrence) error {
	target, err := normalize.Normalize(occ.Raw, occ.Kind)
	if err != nil {
		return err
	}

	entry, ok := r.byTarget[target]
	if !ok {
		entry = &types.TargetEntry{Target: target, Kind: occ.Kind}
		r.byTarget[target] = entry
		r.entries = append(r.entries, entry)
	}
	entry.Occurrences = append(entry.Occurrences, occ)
	r.order = append(r.order, registered{occ: occ, target: target})
	return nil
}

// Targets returns the deduplicated entries in first-registration order.
func (r *Registry) Targets() []types.TargetEntry {
	out := make([]types.TargetEntry, len(r.entries))
	for i, e := range r.entries {
		out[i] = *e
	}
	return out
}

// TargetCount returns the number of distinct targets registered so far.
func (r *Registry) TargetCount() int { return len(r.entries) }

// OccurrenceCount returns the total number of registered occurrences,
// duplicates included.
func (r *Registry) OccurrenceCount() int { return len(r.order) }

// FanOut copies each per-target result onto every occurrence of that
// target, grouped by source file. Files appear in first-occurrence
// order, occurrences within a file in registration order, so two runs
// over the same corpus produce identical output.
func (r *Registry) FanOut(results []types.CheckResult) []types.FileResults {
	byTarget := make(map[string]types.CheckResult, len(results))
	for _, res := range results {
		byTarget[res.Target] = res
	}

	var files []types.FileResults
	index := make(map[string]int)
	for _, reg := range r.order {
		res, ok := byTarget[reg.target]
		if !ok {
			continue
		}
		i, seen := index[reg.occ.File]
		if !seen {
			i = len(files)
			index[reg.occ.File] = i
			files = append(files, types.FileResults{File: reg.occ.File})
		}
		files[i].Results = append(files[i].Results, types.OccurrenceResult{
			Occurrence: reg.occ,
			Result:     res,
		})
	}
	return files
}
