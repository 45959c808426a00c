// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Format identifies a source document format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatLaTeX    Format = "latex"
	FormatBibTeX   Format = "bibtex"
)

// TargetKind distinguishes plain URLs from DOIs. The kind decides the
// cache expiry policy: DOI verdicts are permanent, URL verdicts expire.
type TargetKind string

const (
	KindURL TargetKind = "url"
	KindDOI TargetKind = "doi"
)

// LinkOccurrence is one textual appearance of a link inside a source
// document. Occurrences are immutable once created by an extractor.
type LinkOccurrence struct {
	// Raw is the link text exactly as it appears in the document.
	Raw string `json:"raw" yaml:"raw"`

	// Kind classifies the occurrence as a URL or a DOI.
	Kind TargetKind `json:"kind" yaml:"kind"`

	// File is the path of the document the occurrence was found in.
	File string `json:"file" yaml:"file"`

	// Line is the 1-based line number of the occurrence, or 0 when the
	// extractor cannot determine one.
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
}

// TargetEntry groups all occurrences that normalize to the same target.
// Occurrence order is insertion order, so reports stay deterministic.
type TargetEntry struct {
	// Target is the normalized form shared by every occurrence.
	Target string `json:"target" yaml:"target"`

	// Kind is the kind of the first occurrence registered for Target.
	Kind TargetKind `json:"kind" yaml:"kind"`

	// Occurrences lists every appearance of Target in registration order.
	Occurrences []LinkOccurrence `json:"occurrences" yaml:"occurrences"`
}
