package extract

import (
	"testing"

	"github.com/pdiddy/linkvet/pkg/types"
)

func mustExtract(t *testing.T, format types.Format, text string) []types.LinkOccurrence {
	t.Helper()
	ext, err := ForFormat(format)
	if err != nil {
		t.Fatalf("ForFormat(%q): %v", format, err)
	}
	occs, err := ext.Extract(text, "test-input")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return occs
}

func raws(occs []types.LinkOccurrence) []string {
	out := make([]string, len(occs))
	for i, o := range occs {
		out[i] = o.Raw
	}
	return out
}

func assertRaws(t *testing.T, occs []types.LinkOccurrence, want []string) {
	t.Helper()
	got := raws(occs)
	if len(got) != len(want) {
		t.Fatalf("extracted %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("occurrence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestForFormatUnknown(t *testing.T) {
	if _, err := ForFormat(types.Format("docx")); err == nil {
		t.Fatal("ForFormat accepted an unknown format")
	}
}

func TestHTMLExtract(t *testing.T) {
	text := `<html><body>
<a href="https://example.com/page">page</a>
<a href=" https://example.com/padded ">padded</a>
<a href="/relative/path">relative</a>
<a href="mailto:someone@example.com">mail</a>
<a href="#anchor">fragment</a>
<img src="https://example.com/image.png">
<a id="no-href">nothing</a>
</body></html>`

	occs := mustExtract(t, types.FormatHTML, text)
	assertRaws(t, occs, []string{
		"https://example.com/page",
		"https://example.com/padded",
	})
	for _, o := range occs {
		if o.Kind != types.KindURL {
			t.Errorf("kind = %q, want url", o.Kind)
		}
		if o.Line != 0 {
			t.Errorf("html occurrences carry no line numbers, got %d", o.Line)
		}
		if o.File != "test-input" {
			t.Errorf("file = %q, want test-input", o.File)
		}
	}
}

func TestMarkdownExtract(t *testing.T) {
	text := `# Heading

An [inline link](https://example.com/inline) and one
[with a title](https://example.com/titled "the title").

![an image](https://example.com/embed.png)

A bare autolink <https://example.com/auto> in a sentence.

A [relative](./local.md) link and a [mail](mailto:x@y.z) link.

[ref]: https://example.com/refdef
[local]: ./other.md`

	occs := mustExtract(t, types.FormatMarkdown, text)
	assertRaws(t, occs, []string{
		"https://example.com/inline",
		"https://example.com/titled",
		"https://example.com/auto",
		"https://example.com/refdef",
	})

	wantLines := []int{3, 4, 8, 12}
	for i, o := range occs {
		if o.Line != wantLines[i] {
			t.Errorf("occurrence %d line = %d, want %d", i, o.Line, wantLines[i])
		}
	}
}

func TestMarkdownPaddedTarget(t *testing.T) {
	occs := mustExtract(t, types.FormatMarkdown, `[spaced]( https://example.com/spaced )`)
	assertRaws(t, occs, []string{"https://example.com/spaced"})
}

func TestLaTeXExtract(t *testing.T) {
	text := `\documentclass{article}
\begin{document}
See \url{https://example.com/direct} for details.
Also \href{https://example.com/linked}{the linked text}
and \href[pdfnewwindow=true]{https://example.com/optioned}{with options}.
A local \href{sec:intro}{reference} stays out.
\end{document}`

	occs := mustExtract(t, types.FormatLaTeX, text)
	assertRaws(t, occs, []string{
		"https://example.com/direct",
		"https://example.com/linked",
		"https://example.com/optioned",
	})
	wantLines := []int{3, 4, 5}
	for i, o := range occs {
		if o.Line != wantLines[i] {
			t.Errorf("occurrence %d line = %d, want %d", i, o.Line, wantLines[i])
		}
	}
}

func TestBibTeXExtract(t *testing.T) {
	text := `@article{smith2020,
  author = {Smith, Jane},
  title = {A Paper},
  url = {https://example.com/paper.pdf},
  doi = {10.1000/example.123},
}

@misc{jones2021,
  URL = "https://example.com/misc",
  DOI = "10.5555/OTHER",
  note = {url = nothing here},
}

@book{local1999,
  url = {ftp://archive.example.com/book},
}`

	occs := mustExtract(t, types.FormatBibTeX, text)
	assertRaws(t, occs, []string{
		"https://example.com/paper.pdf",
		"10.1000/example.123",
		"https://example.com/misc",
		"10.5555/OTHER",
	})

	wantKinds := []types.TargetKind{types.KindURL, types.KindDOI, types.KindURL, types.KindDOI}
	for i, o := range occs {
		if o.Kind != wantKinds[i] {
			t.Errorf("occurrence %d (%s) kind = %q, want %q", i, o.Raw, o.Kind, wantKinds[i])
		}
	}
	if occs[0].Line != 4 || occs[1].Line != 5 {
		t.Errorf("lines = %d, %d; want 4, 5", occs[0].Line, occs[1].Line)
	}
}

func TestMarkdownKeepsDocumentOrder(t *testing.T) {
	text := `[z]: https://example.com/first
Then [a link](https://example.com/second) and <https://example.com/third>.`

	occs := mustExtract(t, types.FormatMarkdown, text)
	assertRaws(t, occs, []string{
		"https://example.com/first",
		"https://example.com/second",
		"https://example.com/third",
	})
}

func TestExtractEmptyDocument(t *testing.T) {
	for _, format := range []types.Format{
		types.FormatHTML, types.FormatMarkdown, types.FormatLaTeX, types.FormatBibTeX,
	} {
		if occs := mustExtract(t, format, ""); len(occs) != 0 {
			t.Errorf("%s: empty document produced %d occurrences", format, len(occs))
		}
	}
}
