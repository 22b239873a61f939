package extractor

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-recon/reconcrawler/internal/assetstore"
)

// quotedStringRe captures the contents of a single-quoted, double-quoted, or
// backtick-quoted token that contains no '{', '}', '$', or whitespace — a
// guard against matching template-literal interpolations. Whether the token
// is actually URL-shaped is decided afterward by isURLCandidate.
var quotedStringRe = regexp.MustCompile("\"([^\"\\s{}$]+)\"|'([^'\\s{}$]+)'|`([^`\\s{}$]+)`")

var apiPathRe = regexp.MustCompile(`/api/[A-Za-z0-9_\-./]*`)

// sourceMapCommentRe matches the trailing directive a bundler leaves behind
// in built JS/CSS (`//# sourceMappingURL=...` or the legacy `/*# ... */`
// form) pointing at the `.map` file it was built from.
var sourceMapCommentRe = regexp.MustCompile(`(?m)(?://|/\*)[@#]\s*sourceMappingURL=(\S+?)(?:\s*\*/)?\s*$`)

var emailRe = regexp.MustCompile(`[\w.%+\-]+@[\w.\-]+\.[A-Za-z]{2,63}`)

var cloudPatterns = []struct {
	provider string
	re       *regexp.Regexp
}{
	{"AWS", regexp.MustCompile(`(?i)[a-z0-9.\-]+\.s3\.amazonaws\.com`)},
	{"AWS", regexp.MustCompile(`(?i)[a-z0-9.\-]+\.s3-[a-z0-9\-]+\.amazonaws\.com`)},
	{"AWS", regexp.MustCompile(`(?i)s3://[a-z0-9.\-]+`)},
	{"GCP", regexp.MustCompile(`(?i)storage\.googleapis\.com/[a-z0-9._\-/]+`)},
	{"AZURE", regexp.MustCompile(`(?i)[a-z0-9]+\.blob\.core\.windows\.net`)},
}

var secretPatterns = []struct {
	rule string
	re   *regexp.Regexp
}{
	{"generic-api-key", regexp.MustCompile(`(?i)(?:api[_-]?key|x-api-key)\s*[:=]\s*['"]?([A-Za-z0-9_\-]{20,})['"]?`)},
	{"google-api-key", regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`)},
	{"slack-token", regexp.MustCompile(`xox[baprs]-[0-9A-Za-z\-]+`)},
	{"slack-webhook", regexp.MustCompile(`(?i)hooks\.slack\.com/services/[A-Za-z0-9/]+`)},
	{"github-token", regexp.MustCompile(`gh[pous]_[A-Za-z0-9]{36}`)},
	{"aws-access-key-id", regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{"aws-secret-key", regexp.MustCompile(`(?i)aws(.{0,20})?secret(.{0,20})?['"]\s*[:=]\s*['"][A-Za-z0-9/+=]{40}['"]`)},
	{"pem-private-key", regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`)},
	{"generic-credential", regexp.MustCompile(`(?i)(?:password|token|secret)\s*[:=]\s*['"]([^'"\s]{8,})['"]`)},
}

// RegexExtractor implements the Text Regex extractor: it scans
// arbitrary text for quoted URLs/paths, API endpoint literals, emails,
// cloud storage buckets, and leaked secrets. In-scope URL matches are
// admitted to the Frontier terminally (at maxDepth); everything else is
// recorded directly into the Asset Store.
type RegexExtractor struct {
	maxDepth int
}

// NewRegexExtractor builds a RegexExtractor that admits discovered URLs at
// maxDepth (terminal — found but not recursed).
func NewRegexExtractor(maxDepth int) *RegexExtractor {
	return &RegexExtractor{maxDepth: maxDepth}
}

// Extract scans text for every pattern the Text Regex extractor defines and
// reports discoveries against base/sourceURL via sink.
func (r *RegexExtractor) Extract(text string, base *url.URL, sourceURL string, sink Sink) {
	r.extractURLs(text, base, sourceURL, sink)
	r.extractAPIPaths(text, sourceURL, sink)
	r.extractEmails(text, sourceURL, sink)
	r.extractCloudBuckets(text, sourceURL, sink)
	r.extractSecrets(text, sourceURL, sink)
	r.extractSourceMapRef(text, base, sourceURL, sink)
}

// extractSourceMapRef looks for a trailing sourceMappingURL directive and
// admits the referenced .map file so the worker pool fetches it and the
// Source Map extractor gets a turn at it.
func (r *RegexExtractor) extractSourceMapRef(text string, base *url.URL, sourceURL string, sink Sink) {
	match := sourceMapCommentRe.FindStringSubmatch(text)
	if match == nil {
		return
	}
	mapRef := strings.TrimSpace(match[1])
	if mapRef == "" || strings.HasPrefix(mapRef, "data:") {
		return
	}
	sink.Admit(mapRef, base, r.maxDepth, sourceURL)
}

func (r *RegexExtractor) extractURLs(text string, base *url.URL, sourceURL string, sink Sink) {
	for _, match := range quotedStringRe.FindAllStringSubmatch(text, -1) {
		candidate := firstNonEmpty(match[1:])
		if candidate == "" || !isURLCandidate(candidate) {
			continue
		}
		sink.Admit(candidate, base, r.maxDepth, sourceURL)
	}
}

func (r *RegexExtractor) extractAPIPaths(text string, sourceURL string, sink Sink) {
	for _, match := range apiPathRe.FindAllString(text, -1) {
		sink.Add(assetstore.CategoryAPIEndpoints, match, sourceURL)
	}
}

func (r *RegexExtractor) extractEmails(text string, sourceURL string, sink Sink) {
	for _, match := range emailRe.FindAllString(text, -1) {
		sink.Add(assetstore.CategoryEmails, match, sourceURL)
	}
}

func (r *RegexExtractor) extractCloudBuckets(text string, sourceURL string, sink Sink) {
	for _, pattern := range cloudPatterns {
		for _, match := range pattern.re.FindAllString(text, -1) {
			sink.Add(assetstore.CategoryCloudBuckets, pattern.provider+":"+match, sourceURL)
		}
	}
}

func (r *RegexExtractor) extractSecrets(text string, sourceURL string, sink Sink) {
	for _, pattern := range secretPatterns {
		for _, match := range pattern.re.FindAllString(text, -1) {
			sink.Add(assetstore.CategorySecrets, pattern.rule+":"+match, sourceURL)
		}
	}
}

func firstNonEmpty(groups []string) string {
	for _, g := range groups {
		if g != "" {
			return g
		}
	}
	return ""
}

func isURLCandidate(s string) bool {
	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "//"):
		return true
	case strings.HasPrefix(s, "./"), strings.HasPrefix(s, "../"), strings.HasPrefix(s, "/"):
		return true
	}
	return false
}

// ParseJSON is a thin json.Unmarshal wrapper shared by the DOM extractor's
// inline-script handling and the worker's top-level JSON classification.
func ParseJSON(text string) (any, bool) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}
	return value, true
}
