// Package urlnorm implements the URL Normalizer & Scope Gate: it turns a raw
// discovered string into a CanonicalURL, decides whether that URL is in
// scope for the current run, and classifies it for fetchability and
// provenance purposes.
package urlnorm

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/go-recon/reconcrawler/pkg/urlutil"
)

// ignoredExtensions is the closed set of file extensions this crawler never
// fetches, though they may still surface as "files" asset records.
var ignoredExtensions = map[string]struct{}{
	"css": {}, "png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "svg": {}, "ico": {},
	"woff": {}, "woff2": {}, "ttf": {}, "eot": {}, "mp4": {}, "mp3": {}, "pdf": {},
	"zip": {}, "gz": {}, "tar": {}, "rar": {}, "webp": {}, "xml": {}, "bmp": {},
	"tiff": {}, "otf": {}, "mov": {}, "avi": {}, "wmv": {}, "flv": {},
}

// Normalize applies the canonicalization rules to a raw discovered
// reference, resolved against base. It returns ok=false when the reference
// must be rejected (unsupported scheme, empty input, unresolvable relative
// reference).
func Normalize(raw string, base *url.URL) (canonical string, ok bool) {
	return urlutil.Canonicalize(raw, base)
}

// InScope reports whether canonical's host belongs to rootDomain: either an
// exact match or a subdomain of it. A leading "www." is stripped from the
// host before comparison only; the stored/returned URL is untouched.
func InScope(canonical string, rootDomain string) bool {
	u, err := url.Parse(canonical)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	root := strings.ToLower(strings.TrimPrefix(rootDomain, "www."))
	return host == root || strings.HasSuffix(host, "."+root)
}

// IsIgnored reports whether canonical's path extension places it in the
// ignored-extensions set: such a URL is never fetched, though it may still
// be recorded as a "files" asset.
func IsIgnored(canonical string) bool {
	u, err := url.Parse(canonical)
	if err != nil {
		return false
	}
	ext := extensionOf(u.Path)
	if ext == "" {
		return false
	}
	_, ignored := ignoredExtensions[ext]
	return ignored
}

// HasExtension reports whether canonical's path carries any file extension
// at all. Grounded on the Python prototype's Path(...).suffix truthiness
// check: it classifies successfully-fetched, non-ignored URLs into "files"
// independently of the fetchability gate IsIgnored governs.
func HasExtension(canonical string) bool {
	u, err := url.Parse(canonical)
	if err != nil {
		return false
	}
	return extensionOf(u.Path) != ""
}

func extensionOf(p string) string {
	ext := path.Ext(p)
	if ext == "" || ext == "." {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ExtractDirectories returns every parent path prefix of canonical's path
// that ends in "/", up to and including the root "/".
func ExtractDirectories(canonical string) []string {
	u, err := url.Parse(canonical)
	if err != nil {
		return nil
	}
	p := u.Path
	if p == "" {
		p = "/"
	}

	segments := strings.Split(strings.Trim(p, "/"), "/")
	var dirs []string
	prefix := "/"
	dirs = append(dirs, prefix)
	if p == "/" {
		return dirs
	}
	for _, seg := range segments[:len(segments)-1] {
		if seg == "" {
			continue
		}
		prefix += seg + "/"
		dirs = append(dirs, prefix)
	}
	return dirs
}

// ExtractQueryParams returns the sorted, de-duplicated set of query string
// keys present in canonical. Blank values are preserved by url.Query; only
// the keys are reported here.
func ExtractQueryParams(canonical string) []string {
	u, err := url.Parse(canonical)
	if err != nil {
		return nil
	}
	values := u.Query()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
