package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

// Canonicalize applies the deterministic normalization rules from the URL
// Normalizer & Scope Gate to a raw URL string, resolved against base.
//
// Rules (applied in order):
//  1. Trim whitespace; reject empty or a scheme this crawler never follows
//     (javascript:, mailto:, data:, tel:, #).
//  2. A leading "//" is treated as protocol-relative and gets "https:" prefixed.
//  3. A schemeless reference is resolved against base (RFC 3986).
//  4. Only http/https survive.
//  5. Host is lowercased; repeated path slashes collapse to one; an empty
//     path becomes "/".
//  6. The fragment is dropped; the query string is kept (query parameters are
//     a first-class finding, unlike path normalization).
//
// Canonicalize is pure, deterministic, and idempotent:
// Canonicalize(Canonicalize(u, b), b) == Canonicalize(u, b).
func Canonicalize(raw string, base *url.URL) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	lower := strings.ToLower(trimmed)
	for _, bad := range rejectedSchemes {
		if strings.HasPrefix(lower, bad) {
			return "", false
		}
	}
	if strings.HasPrefix(trimmed, "#") {
		return "", false
	}

	if strings.HasPrefix(trimmed, "//") {
		trimmed = "https:" + trimmed
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}

	var resolved *url.URL
	if ref.IsAbs() {
		resolved = ref
	} else {
		if base == nil {
			return "", false
		}
		resolved = base.ResolveReference(ref)
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}

	resolved.Host = lowerASCII(resolved.Host)
	resolved.Path = collapseSlashes(resolved.Path)
	if resolved.Path == "" {
		resolved.Path = "/"
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""

	return resolved.String(), true
}

var rejectedSchemes = []string{"javascript:", "mailto:", "data:", "tel:"}

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

func collapseSlashes(path string) string {
	return repeatedSlashes.ReplaceAllString(path, "/")
}

// lowerASCII converts ASCII characters to lowercase without allocating when
// the string is already lowercase.
func lowerASCII(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
