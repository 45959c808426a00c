// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Status is the verdict for one checked target.
type Status string

const (
	// StatusOK means the target answered with a success or redirect code.
	StatusOK Status = "ok"

	// StatusDead means the target answered with a client or server error.
	StatusDead Status = "dead"

	// StatusUnknown means no verdict could be reached: the probe failed
	// below the HTTP layer or the server rejected the probe itself.
	StatusUnknown Status = "unknown"
)

// FailureReason classifies why a probe produced StatusUnknown.
type FailureReason string

const (
	ReasonTimeout          FailureReason = "timeout"
	ReasonConnection       FailureReason = "connection_error"
	ReasonProtocolRejected FailureReason = "protocol_rejected"
	ReasonRateLimited      FailureReason = "rate_limited"
	ReasonTooManyRedirects FailureReason = "too_many_redirects"
)

// ExpiryKind selects the cache expiry policy for a record.
type ExpiryKind string

const (
	// ExpiryPermanent marks records that never go stale (DOI targets).
	ExpiryPermanent ExpiryKind = "permanent"

	// ExpiryTimed marks records that go stale at ExpiresAt (URL targets).
	ExpiryTimed ExpiryKind = "timed"
)

// CacheRecord is the persisted verdict for one target. Records are
// written only by the scheduler after a fresh probe and read before
// dispatching one.
type CacheRecord struct {
	Target    string        `json:"target" yaml:"target"`
	Kind      TargetKind    `json:"kind" yaml:"kind"`
	Status    Status        `json:"status" yaml:"status"`
	HTTPCode  int           `json:"http_code,omitempty" yaml:"http_code,omitempty"`
	CheckedAt time.Time     `json:"checked_at" yaml:"checked_at"`
	Expiry    ExpiryKind    `json:"expiry" yaml:"expiry"`
	ExpiresAt time.Time     `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Reason    FailureReason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Valid reports whether the record is still within its expiry window.
// Permanent records never expire; timed records expire at ExpiresAt.
func (r CacheRecord) Valid(now time.Time) bool {
	if r.Expiry == ExpiryPermanent {
		return true
	}
	return now.Before(r.ExpiresAt)
}

// CheckResult is the outcome for one distinct target, fanned out to all
// of the target's occurrences for reporting.
type CheckResult struct {
	Target   string     `json:"target" yaml:"target"`
	Kind     TargetKind `json:"kind" yaml:"kind"`
	Status   Status     `json:"status" yaml:"status"`
	HTTPCode int        `json:"http_code,omitempty" yaml:"http_code,omitempty"`

	// Reason is set when Status is StatusUnknown.
	Reason FailureReason `json:"reason,omitempty" yaml:"reason,omitempty"`

	// FromCache marks verdicts served from the cache without a probe.
	FromCache bool `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`

	// RedirectTo carries the final location when the first response was
	// a permanent redirect (301 or 308). Advisory only: the verdict
	// still describes the response after following redirects.
	RedirectTo string `json:"redirect_to,omitempty" yaml:"redirect_to,omitempty"`
}

// OccurrenceResult pairs one occurrence with its target's verdict.
type OccurrenceResult struct {
	Occurrence LinkOccurrence `json:"occurrence" yaml:"occurrence"`
	Result     CheckResult    `json:"result" yaml:"result"`
}

// FileResults groups per-occurrence verdicts by originating file, in
// first-occurrence order within each file.
type FileResults struct {
	File    string             `json:"file" yaml:"file"`
	Results []OccurrenceResult `json:"results" yaml:"results"`
}
