// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/linkvet/pkg/types"
)

// htmlExtractor reads href attributes of anchor elements. Image and
// media sources are not link references and are left alone, as are
// mailto: and other non-HTTP schemes.
type htmlExtractor struct{}

func (htmlExtractor) Extract(text, sourceFile string) ([]types.LinkOccurrence, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, &ParseError{File: sourceFile, Err: err}
	}

	var occs []types.LinkOccurrence
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !checkable(href) {
			return
		}
		// The parser does not expose source positions, so anchors
		// carry no line number.
		occs = append(occs, types.LinkOccurrence{
			Raw:  href,
			Kind: types.KindURL,
			File: sourceFile,
		})
	})
	return occs, nil
}
