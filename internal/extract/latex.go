// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"

	"github.com/pdiddy/linkvet/pkg/types"
)

// LaTeX link commands. \href takes the target in its first brace group;
// an optional bracket argument before it is tolerated. The hyperref
// baseurl option is ignored: targets are never relativized against it.
var (
	latexURLPattern  = regexp.MustCompile(`\\url\{([^}]*)\}`)
	latexHrefPattern = regexp.MustCompile(`\\href(?:\[[^\]]*\])?\{([^}]*)\}\{[^}]*\}`)
)

// latexExtractor handles \url{...} and \href{...}{...}.
type latexExtractor struct{}

func (latexExtractor) Extract(text, sourceFile string) ([]types.LinkOccurrence, error) {
	var hits []hit

	for _, pattern := range []*regexp.Regexp{latexURLPattern, latexHrefPattern} {
		for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
			raw := text[m[2]:m[3]]
			if !checkable(raw) {
				continue
			}
			hits = append(hits, hit{offset: m[0], raw: raw, kind: types.KindURL})
		}
	}

	return toOccurrences(hits, text, sourceFile), nil
}
