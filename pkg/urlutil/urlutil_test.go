package urlutil

import (
	"net/url"
	"testing"
)

func mustBase(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse base URL %q: %v", raw, err)
	}
	return u
}

func TestCanonicalize(t *testing.T) {
	base := mustBase(t, "https://docs.example.com/guide/")

	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "query preserved as first class finding",
			input:    "https://docs.example.com/guide?utm_source=twitter",
			expected: "https://docs.example.com/guide?utm_source=twitter",
			ok:       true,
		},
		{
			name:     "fragment dropped",
			input:    "https://docs.example.com/guide#index",
			expected: "https://docs.example.com/guide",
			ok:       true,
		},
		{
			name:     "fragment dropped but query kept",
			input:    "https://docs.example.com/guide?utm_source=twitter#index",
			expected: "https://docs.example.com/guide?utm_source=twitter",
			ok:       true,
		},
		{
			name:     "scheme lowercased",
			input:    "HTTPS://docs.example.com/guide",
			expected: "https://docs.example.com/guide",
			ok:       true,
		},
		{
			name:     "host lowercased",
			input:    "https://DOCS.EXAMPLE.COM/guide",
			expected: "https://docs.example.com/guide",
			ok:       true,
		},
		{
			name:     "path case preserved",
			input:    "HTTPS://DOCS.EXAMPLE.COM/GUIDE",
			expected: "https://docs.example.com/GUIDE",
			ok:       true,
		},
		{
			name:     "repeated slashes collapsed",
			input:    "https://docs.example.com/guide///nested//path",
			expected: "https://docs.example.com/guide/nested/path",
			ok:       true,
		},
		{
			name:     "empty path defaults to root",
			input:    "https://docs.example.com",
			expected: "https://docs.example.com/",
			ok:       true,
		},
		{
			name:     "root path preserved",
			input:    "https://docs.example.com/",
			expected: "https://docs.example.com/",
			ok:       true,
		},
		{
			name:     "relative path resolved against base",
			input:    "../other",
			expected: "https://docs.example.com/other",
			ok:       true,
		},
		{
			name:     "protocol relative gets https prefix",
			input:    "//cdn.example.com/asset.js",
			expected: "https://cdn.example.com/asset.js",
			ok:       true,
		},
		{
			name:  "javascript scheme rejected",
			input: "javascript:alert(1)",
			ok:    false,
		},
		{
			name:  "mailto scheme rejected",
			input: "mailto:a@example.com",
			ok:    false,
		},
		{
			name:  "data scheme rejected",
			input: "data:text/plain;base64,aGVsbG8=",
			ok:    false,
		},
		{
			name:  "tel scheme rejected",
			input: "tel:+15551234567",
			ok:    false,
		},
		{
			name:  "bare fragment rejected",
			input: "#section",
			ok:    false,
		},
		{
			name:  "empty string rejected",
			input: "",
			ok:    false,
		},
		{
			name:  "whitespace only rejected",
			input: "   ",
			ok:    false,
		},
		{
			name:  "ftp scheme rejected",
			input: "ftp://files.example.com/a",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Canonicalize(tt.input, base)
			if ok != tt.ok {
				t.Fatalf("Canonicalize(%q) ok = %v, want %v (got %q)", tt.input, ok, tt.ok, got)
			}
			if ok && got != tt.expected {
				t.Errorf("Canonicalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	base := mustBase(t, "https://example.com/")

	inputs := []string{
		"https://docs.example.com/guide/",
		"https://docs.example.com/guide?utm_source=twitter",
		"https://docs.example.com/guide#index",
		"HTTPS://DOCS.EXAMPLE.COM/GUIDE/?a=1#frag",
		"http://example.com/path///",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first, ok := Canonicalize(in, base)
			if !ok {
				t.Fatalf("Canonicalize(%q) rejected, want accepted", in)
			}
			second, ok := Canonicalize(first, base)
			if !ok {
				t.Fatalf("Canonicalize(%q) rejected on second pass", first)
			}
			if first != second {
				t.Errorf("Canonicalize is not idempotent: first=%q second=%q", first, second)
			}
		})
	}
}

func TestCanonicalizeRequiresBaseForRelative(t *testing.T) {
	_, ok := Canonicalize("/relative/path", nil)
	if ok {
		t.Error("Canonicalize accepted a relative reference with no base")
	}
}

func TestLowerASCII(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello", "hello"},
		{"HELLO", "hello"},
		{"hello", "hello"},
		{"HTTPS", "https"},
		{"MixedCASE", "mixedcase"},
		{"already-lower", "already-lower"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := lowerASCII(tt.input)
			if result != tt.expected {
				t.Errorf("lowerASCII(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCollapseSlashes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/", "/path/"},
		{"/path//", "/path/"},
		{"/path///nested", "/path/nested"},
		{"/path", "/path"},
		{"/", "/"},
		{"///", "/"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := collapseSlashes(tt.input)
			if result != tt.expected {
				t.Errorf("collapseSlashes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
