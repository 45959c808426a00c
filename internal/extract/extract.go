// Package extract pulls link occurrences out of source documents. One
// extractor exists per supported format, behind a shared interface so
// each format's quirks stay isolated from the pipeline.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/linkvet/pkg/types"
)

// Extractor produces the link occurrences of one document. The output
// is finite and in document order; the input is never mutated.
type Extractor interface {
	Extract(text, sourceFile string) ([]types.LinkOccurrence, error)
}

// ParseError reports a document whose extraction failed as a whole.
// The file is skipped; the run continues with the remaining files.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ForFormat returns the extractor for a document format.
func ForFormat(format types.Format) (Extractor, error) {
	switch format {
	case types.FormatHTML:
		return htmlExtractor{}, nil
	case types.FormatMarkdown:
		return markdownExtractor{}, nil
	case types.FormatLaTeX:
		return latexExtractor{}, nil
	case types.FormatBibTeX:
		return bibtexExtractor{}, nil
	default:
		return nil, fmt.Errorf("no extractor for format %q", format)
	}
}

// checkable reports whether raw is an external target worth an
// occurrence. Relative and non-HTTP targets are excluded.
func checkable(raw string) bool {
	lowered := strings.ToLower(raw)
	return strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://")
}

// lineAt returns the 1-based line number of the byte offset in text.
func lineAt(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}

// hit is a raw match with its byte offset, used to merge the results of
// several patterns back into document order.
type hit struct {
	offset int
	raw    string
	kind   types.TargetKind
}

// toOccurrences sorts hits into document order and materializes them.
func toOccurrences(hits []hit, text, sourceFile string) []types.LinkOccurrence {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })

	occs := make([]types.LinkOccurrence, 0, len(hits))
	for _, h := range hits {
		occs = append(occs, types.LinkOccurrence{
			Raw:  h.raw,
			Kind: h.kind,
			File: sourceFile,
			Line: lineAt(text, h.offset),
		})
	}
	return occs
}
