// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/linkvet/pkg/types"
)

// bibFieldPattern matches url and doi fields in either brace or quote
// delimiters: url = {https://...}, doi = "10.1000/182".
var bibFieldPattern = regexp.MustCompile(`(?i)\b(url|doi)\s*=\s*(?:\{([^{}]*)\}|"([^"]*)")`)

// bibtexExtractor reads url fields verbatim as URL occurrences and doi
// fields as DOI occurrences, so DOI resolution and permanent caching
// apply to the latter.
type bibtexExtractor struct{}

func (bibtexExtractor) Extract(text, sourceFile string) ([]types.LinkOccurrence, error) {
	var hits []hit

	for _, m := range bibFieldPattern.FindAllStringSubmatchIndex(text, -1) {
		field := strings.ToLower(text[m[2]:m[3]])

		value := ""
		if m[4] >= 0 {
			value = text[m[4]:m[5]]
		} else if m[6] >= 0 {
			value = text[m[6]:m[7]]
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch field {
		case "doi":
			hits = append(hits, hit{offset: m[0], raw: value, kind: types.KindDOI})
		case "url":
			if !checkable(value) {
				continue
			}
			hits = append(hits, hit{offset: m[0], raw: value, kind: types.KindURL})
		}
	}

	return toOccurrences(hits, text, sourceFile), nil
}
