// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"testing"

	"github.com/pdiddy/linkvet/pkg/types"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Scheme and host are case-insensitive.
		{"upper scheme", "HTTPS://example.com/path", "https://example.com/path"},
		{"upper host", "https://EXAMPLE.COM/path", "https://example.com/path"},
		{"mixed case", "HtTpS://ExAmPlE.cOm/Path", "https://example.com/Path"},

		// Default ports are stripped; explicit others are kept.
		{"https default port", "https://example.com:443/x", "https://example.com/x"},
		{"http default port", "http://example.com:80/x", "http://example.com/x"},
		{"custom port kept", "https://example.com:8443/x", "https://example.com:8443/x"},
		{"http on 443 kept", "http://example.com:443/x", "http://example.com:443/x"},

		// Fragments never reach the network.
		{"fragment removed", "https://example.com/page#section", "https://example.com/page"},
		{"fragment only path", "https://example.com/#top", "https://example.com/"},

		// Path case is server-defined and preserved.
		{"path case kept", "https://example.com/CaseSensitive/Path", "https://example.com/CaseSensitive/Path"},
		{"trailing path slash kept", "https://example.com/dir/", "https://example.com/dir/"},

		// Bare hosts gain the root slash.
		{"bare host", "https://example.com", "https://example.com/"},
		{"bare host with port", "http://example.com:80", "http://example.com/"},

		// Query parameters are re-encoded in sorted order.
		{"query sorted", "https://example.com/s?b=2&a=1", "https://example.com/s?a=1&b=2"},
		{"query kept", "https://example.com/s?q=go+links", "https://example.com/s?q=go+links"},

		// Surrounding whitespace is tolerated.
		{"padded", "  https://example.com/x  ", "https://example.com/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input, types.KindURL)
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://EXAMPLE.com:443/Path?b=2&a=1#frag",
		"http://example.com:80",
		"https://example.com/dir/",
		"https://example.com/s?q=go+links",
	}
	for _, input := range inputs {
		once, err := Normalize(input, types.KindURL)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", input, err)
		}
		twice, err := Normalize(once, types.KindURL)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", once, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizeURLFragmentVariantsCollapse(t *testing.T) {
	a, err := Normalize("https://example.com/x#one", types.KindURL)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Normalize("https://example.com/x#two", types.KindURL)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("fragment variants normalize differently: %q vs %q", a, b)
	}
	if a != "https://example.com/x" {
		t.Errorf("normalized = %q, want %q", a, "https://example.com/x")
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", "10.1000/abc", "https://doi.org/10.1000/abc"},
		{"doi prefix", "doi:10.1000/abc", "https://doi.org/10.1000/abc"},
		{"upper doi prefix", "DOI:10.1000/abc", "https://doi.org/10.1000/abc"},
		{"resolver prefix", "https://doi.org/10.1000/abc", "https://doi.org/10.1000/abc"},
		{"http resolver", "http://doi.org/10.1000/abc", "https://doi.org/10.1000/abc"},
		{"dx resolver", "https://dx.doi.org/10.1000/abc", "https://doi.org/10.1000/abc"},
		{"case folded", "10.1000/ABC.Def", "https://doi.org/10.1000/abc.def"},
		{"long registrant", "10.123456789/x", "https://doi.org/10.123456789/x"},
		{"real world shape", "10.1145/1234567.1234568", "https://doi.org/10.1145/1234567.1234568"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input, types.KindDOI)
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDOIIdempotent(t *testing.T) {
	once, err := Normalize("doi:10.1000/ABC", types.KindDOI)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Normalize(once, types.KindDOI)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("DOI normalization not idempotent: first %q, second %q", once, twice)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  types.TargetKind
	}{
		{"empty url", "", types.KindURL},
		{"whitespace url", "   ", types.KindURL},
		{"no scheme", "example.com/x", types.KindURL},
		{"relative path", "../other/page.html", types.KindURL},
		{"ftp scheme", "ftp://example.com/file", types.KindURL},
		{"mailto scheme", "mailto:someone@example.com", types.KindURL},
		{"missing host", "https://", types.KindURL},
		{"space in host", "https://exa mple.com/x", types.KindURL},
		{"not a doi", "11.1000/abc", types.KindDOI},
		{"doi missing suffix", "10.1000/", types.KindDOI},
		{"doi with space", "10.1000/a b", types.KindDOI},
		{"empty doi", "", types.KindDOI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.input, tt.kind)
			if err == nil {
				t.Fatalf("Normalize(%q, %s) = nil error, want MalformedTargetError", tt.input, tt.kind)
			}
			var merr *MalformedTargetError
			if !errors.As(err, &merr) {
				t.Errorf("error type = %T, want *MalformedTargetError", err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.TargetKind
	}{
		{"bare doi", "10.1000/abc", types.KindDOI},
		{"doi prefix", "doi:10.1000/abc", types.KindDOI},
		{"resolver doi", "https://doi.org/10.1000/abc", types.KindDOI},
		{"plain url", "https://example.com/x", types.KindURL},
		{"doi-ish path elsewhere", "https://example.com/10.1000/abc", types.KindURL},
		{"arbitrary string", "hello", types.KindURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
