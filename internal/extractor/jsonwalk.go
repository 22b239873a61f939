package extractor

import (
	"net/url"
	"strings"

	"github.com/go-recon/reconcrawler/internal/assetstore"
)

// maxJSONWalkDepth bounds recursion on attacker-controlled or simply very
// deeply nested JSON payloads (config blobs, Next.js page props).
const maxJSONWalkDepth = 128

// routeKeys are the object keys whose string value is treated as an
// application route even when it doesn't otherwise look like a URL path.
var routeKeys = map[string]struct{}{
	"page": {}, "route": {}, "asPath": {}, "pathname": {}, "href": {}, "url": {},
}

// JSONWalker implements the JSON Walker extractor: it recursively
// descends a parsed JSON value looking for route-shaped and path-shaped
// string values. Path discoveries are admitted at maxDepth — found but not
// recursed, the same terminal treatment the Text Regex extractor gives a
// discovered URL.
type JSONWalker struct {
	maxDepth int
}

// NewJSONWalker builds a JSONWalker that admits discoveries at maxDepth.
func NewJSONWalker(maxDepth int) *JSONWalker {
	return &JSONWalker{maxDepth: maxDepth}
}

// Walk descends value, recording discoveries against base/sourceURL via
// sink. value is typically the result of json.Unmarshal into any.
func (w *JSONWalker) Walk(value any, base *url.URL, sourceURL string, sink Sink) {
	w.walk(value, "", base, sourceURL, sink, 0)
}

func (w *JSONWalker) walk(value any, key string, base *url.URL, sourceURL string, sink Sink, depth int) {
	if depth > maxJSONWalkDepth {
		return
	}

	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			w.walk(child, k, base, sourceURL, sink, depth+1)
		}
	case []any:
		for _, child := range v {
			w.walk(child, key, base, sourceURL, sink, depth+1)
		}
	case string:
		w.visitString(key, v, base, sourceURL, sink)
	}
}

func (w *JSONWalker) visitString(key, value string, base *url.URL, sourceURL string, sink Sink) {
	if !strings.HasPrefix(value, "/") {
		return
	}

	if _, isRouteKey := routeKeys[key]; isRouteKey {
		if canonical, ok := sink.Normalize(value, base); ok {
			sink.Add(assetstore.CategoryEndpoints, canonical, sourceURL)
		}
		return
	}

	if len(value) > 1 {
		sink.Admit(value, base, w.maxDepth, sourceURL)
	}
}
