// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"

	"github.com/pdiddy/linkvet/pkg/types"
)

// Markdown link syntaxes. Inline links capture a leading "!" so image
// embeds can be told apart from links and skipped.
var (
	// [text](url) and [text](url "title")
	mdInlinePattern = regexp.MustCompile(`(!?)\[[^\]]*\]\(\s*(\S+?)(?:\s+"[^"]*")?\s*\)`)

	// <http://example.com>
	mdAutolinkPattern = regexp.MustCompile(`<(https?://[^>\s]+)>`)

	// [label]: url
	mdRefDefPattern = regexp.MustCompile(`(?m)^[ \t]{0,3}\[[^\]]+\]:[ \t]+(\S+)`)
)

// markdownExtractor handles inline links, autolinks, and
// reference-style definitions.
type markdownExtractor struct{}

func (markdownExtractor) Extract(text, sourceFile string) ([]types.LinkOccurrence, error) {
	var hits []hit

	for _, m := range mdInlinePattern.FindAllStringSubmatchIndex(text, -1) {
		if m[3] > m[2] {
			// Image embed, not a link.
			continue
		}
		raw := text[m[4]:m[5]]
		if !checkable(raw) {
			continue
		}
		hits = append(hits, hit{offset: m[0], raw: raw, kind: types.KindURL})
	}

	for _, m := range mdAutolinkPattern.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[2]:m[3]]
		if !checkable(raw) {
			continue
		}
		hits = append(hits, hit{offset: m[0], raw: raw, kind: types.KindURL})
	}

	for _, m := range mdRefDefPattern.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[2]:m[3]]
		if !checkable(raw) {
			continue
		}
		hits = append(hits, hit{offset: m[0], raw: raw, kind: types.KindURL})
	}

	return toOccurrences(hits, text, sourceFile), nil
}
