// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes raw URLs and DOIs into the comparable
// keys used for deduplication and caching.
package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/linkvet/pkg/types"
)

// doiBase is the canonical resolver prefix for normalized DOIs.
const doiBase = "https://doi.org/"

// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// doiPrefixes are the decorations stripped before matching a bare DOI.
var doiPrefixes = []string{
	"doi:",
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
}

// MalformedTargetError reports a link that cannot be parsed as a URL or
// DOI at all. The occurrence is reported as a static defect and never
// probed.
type MalformedTargetError struct {
	Raw    string
	Reason string
}

func (e *MalformedTargetError) Error() string {
	return fmt.Sprintf("malformed target %q: %s", e.Raw, e.Reason)
}

// Classify reports whether raw looks like a DOI or a URL. Extractors
// decide the kind for occurrences; Classify covers callers that receive
// a bare target, such as cache maintenance commands.
func Classify(raw string) types.TargetKind {
	if _, ok := bareDOI(raw); ok {
		return types.KindDOI
	}
	return types.KindURL
}

// Normalize canonicalizes raw according to kind. It is idempotent:
// normalizing an already-canonical string is a no-op.
func Normalize(raw string, kind types.TargetKind) (string, error) {
	switch kind {
	case types.KindDOI:
		return normalizeDOI(raw)
	default:
		return normalizeURL(raw)
	}
}

// normalizeURL lower-cases scheme and host, strips default ports,
// removes the fragment, and re-encodes the query in sorted order. Path
// segments keep their case: path semantics are server-defined.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &MalformedTargetError{Raw: raw, Reason: "empty target"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &MalformedTargetError{Raw: raw, Reason: err.Error()}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &MalformedTargetError{Raw: raw, Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return "", &MalformedTargetError{Raw: raw, Reason: "missing host"}
	}

	u.Host = strings.ToLower(u.Host)
	switch u.Scheme {
	case "http":
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case "https":
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""
	u.RawFragment = ""

	if u.Path == "" {
		u.Path = "/"
	}

	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	return u.String(), nil
}

// normalizeDOI strips resolver and "doi:" decorations, validates the
// bare DOI, lower-cases it (DOI names are case-insensitive), and
// returns the scheme-qualified canonical form.
func normalizeDOI(raw string) (string, error) {
	doi, ok := bareDOI(raw)
	if !ok {
		return "", &MalformedTargetError{Raw: raw, Reason: "not a DOI"}
	}
	return doiBase + strings.ToLower(doi), nil
}

// bareDOI strips known prefixes from raw and reports whether the rest
// matches the DOI syntax.
func bareDOI(raw string) (string, bool) {
	doi := strings.TrimSpace(raw)
	for _, prefix := range doiPrefixes {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			doi = doi[len(prefix):]
			break
		}
	}
	if !doiPattern.MatchString(doi) {
		return "", false
	}
	return doi, true
}
