// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule resolves registered targets to verdicts, consulting
// the cache first and driving fresh probes through a bounded worker
// pool.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/linkvet/pkg/types"
)

// Prober checks a single target. *check.Checker implements it; tests
// substitute stubs.
type Prober interface {
	Check(ctx context.Context, target string, kind types.TargetKind) types.CheckResult
}

// VerdictCache is the persistence surface the scheduler needs from the
// cache store.
type VerdictCache interface {
	Lookup(ctx context.Context, target string, kind types.TargetKind) (types.CacheRecord, bool, error)
	Upsert(ctx context.Context, rec types.CacheRecord) error
}

// Options configures one scheduling run.
type Options struct {
	// Workers is the probe pool size. Zero or less sizes the pool from
	// the pending check count.
	Workers int

	// Lifetime is how long a fresh verdict stays valid in the cache.
	Lifetime time.Duration

	Logger zerolog.Logger
}

// Summary aggregates the counts of one run.
type Summary struct {
	Targets   int
	CacheHits int
	Probed    int
	OK        int
	Dead      int
	Unknown   int
	Duration  time.Duration
}

// DeadLinksError reports that a run found dead targets while the
// fail-on-dead gate is on. The run itself completed; the error is
// raised only after every target was resolved and reported.
type DeadLinksError struct {
	Count int
}

func (e *DeadLinksError) Error() string {
	return fmt.Sprintf("found %d dead link target(s)", e.Count)
}

// RecommendWorkers sizes the probe pool from the number of pending
// checks. Probes wait on the network, not the CPU, so the tiers are
// unrelated to core counts.
func RecommendWorkers(pending int) int {
	switch {
	case pending < 25:
		return 4
	case pending < 100:
		return 12
	default:
		return 32
	}
}

// Run resolves every entry either from the cache or through a fresh
// probe and returns one result per target in first-registration order.
// At most one probe is ever in flight per distinct target: entries come
// from the registry, which already collapsed duplicates.
func Run(ctx context.Context, entries []types.TargetEntry, store VerdictCache, prober Prober, opts Options) ([]types.CheckResult, Summary, error) {
	start := time.Now()
	summary := Summary{Targets: len(entries)}
	log := opts.Logger

	byTarget := make(map[string]types.CheckResult, len(entries))
	var pending []types.TargetEntry

	now := time.Now()
	for _, entry := range entries {
		rec, found, err := store.Lookup(ctx, entry.Target, entry.Kind)
		if err != nil {
			log.Warn().Err(err).Str("target", entry.Target).Msg("cache lookup failed, probing instead")
			pending = append(pending, entry)
			continue
		}
		if found && rec.Valid(now) {
			byTarget[entry.Target] = types.CheckResult{
				Target:    entry.Target,
				Kind:      entry.Kind,
				Status:    rec.Status,
				HTTPCode:  rec.HTTPCode,
				Reason:    rec.Reason,
				FromCache: true,
			}
			summary.CacheHits++
			continue
		}
		pending = append(pending, entry)
	}
	summary.Probed = len(pending)

	if len(pending) > 0 {
		workers := opts.Workers
		if workers <= 0 {
			workers = RecommendWorkers(len(pending))
		}
		if workers > len(pending) {
			workers = len(pending)
		}
		log.Debug().Int("workers", workers).Int("pending", len(pending)).Msg("dispatching probes")

		queue := make(chan types.TargetEntry)
		resultCh := make(chan types.CheckResult)

		go func() {
			defer close(queue)
			for _, entry := range pending {
				select {
				case queue <- entry:
				case <-ctx.Done():
					return
				}
			}
		}()

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for entry := range queue {
					res := prober.Check(ctx, entry.Target, entry.Kind)
					if err := store.Upsert(ctx, freshRecord(res, time.Now(), opts.Lifetime)); err != nil {
						log.Warn().Err(err).Str("target", entry.Target).Msg("cache update failed")
					}
					resultCh <- res
				}
			}()
		}

		go func() {
			wg.Wait()
			close(resultCh)
		}()

		for res := range resultCh {
			byTarget[res.Target] = res
			log.Debug().
				Str("target", res.Target).
				Str("status", string(res.Status)).
				Int("code", res.HTTPCode).
				Msg("probed")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, summary, fmt.Errorf("checking interrupted: %w", err)
	}

	// Probe completion order is nondeterministic; hand results back in
	// first-registration order.
	results := make([]types.CheckResult, 0, len(entries))
	for _, entry := range entries {
		res, ok := byTarget[entry.Target]
		if !ok {
			continue
		}
		switch res.Status {
		case types.StatusOK:
			summary.OK++
		case types.StatusDead:
			summary.Dead++
		default:
			summary.Unknown++
		}
		results = append(results, res)
	}
	summary.Duration = time.Since(start)
	return results, summary, nil
}

// freshRecord derives the cache record for a fresh result. A DOI that
// resolved OK never expires: registrars guarantee persistent
// resolution, so a once-valid DOI stays valid. Unknown verdicts expire
// immediately, keeping the record inspectable while forcing a retry on
// the next run. Everything else stays fresh for the configured
// lifetime.
func freshRecord(res types.CheckResult, checkedAt time.Time, lifetime time.Duration) types.CacheRecord {
	rec := types.CacheRecord{
		Target:    res.Target,
		Kind:      res.Kind,
		Status:    res.Status,
		HTTPCode:  res.HTTPCode,
		CheckedAt: checkedAt,
		Reason:    res.Reason,
		Expiry:    types.ExpiryTimed,
	}
	switch {
	case res.Kind == types.KindDOI && res.Status == types.StatusOK:
		rec.Expiry = types.ExpiryPermanent
		rec.ExpiresAt = time.Time{}
	case res.Status == types.StatusUnknown:
		rec.ExpiresAt = checkedAt
	default:
		rec.ExpiresAt = checkedAt.Add(lifetime)
	}
	return rec
}
