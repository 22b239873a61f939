package extractor

import (
	"encoding/json"
	"net/url"

	"github.com/go-recon/reconcrawler/internal/assetstore"
)

// sourceMapPayload is the subset of the Source Map v3 format this extractor
// cares about. "mappings", "names", and "version" carry nothing a recon
// crawler wants and are left unparsed.
type sourceMapPayload struct {
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
}

// SourceMapExtractor implements the source-map parser: given a fetched
// `.map` document (found via a trailing sourceMappingURL comment the Text
// Regex extractor already admits), it records every listed original source
// path as a file asset and re-runs the Text Regex extractor over any
// recovered sourcesContent, surfacing URLs and secrets a minified bundle
// was built to hide.
type SourceMapExtractor struct {
	regex *RegexExtractor
}

// NewSourceMapExtractor builds a SourceMapExtractor that scans recovered
// original source text with regex.
func NewSourceMapExtractor(regex *RegexExtractor) *SourceMapExtractor {
	return &SourceMapExtractor{regex: regex}
}

// Extract parses body as a source map and reports its findings against
// base/sourceURL via sink. A malformed or non-source-map payload is a
// silent no-op — the sourceMappingURL comment that led here is itself a
// heuristic, not a guarantee.
func (s *SourceMapExtractor) Extract(body string, base *url.URL, sourceURL string, sink Sink) {
	var payload sourceMapPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return
	}

	for _, source := range payload.Sources {
		if source == "" {
			continue
		}
		sink.Add(assetstore.CategoryFiles, source, sourceURL)
	}

	for _, content := range payload.SourcesContent {
		if content == "" {
			continue
		}
		s.regex.Extract(content, base, sourceURL, sink)
	}
}
