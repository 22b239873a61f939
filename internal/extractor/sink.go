// Package extractor implements the DOM, Text Regex, and JSON Walker
// extraction strategies. Extractors are side-effect-free except for
// the calls they make into Sink, and are safe to run concurrently on
// different documents.
package extractor

import (
	"net/url"

	"github.com/go-recon/reconcrawler/internal/assetstore"
)

// Sink is the single chokepoint every extractor writes discoveries through.
// Its implementation (owned by the worker pool) resolves a raw reference
// against base, applies the scope gate, and decides whether the result
// becomes a frontier admission, an endpoints/external_endpoints/subdomains
// asset record, or both.
type Sink interface {
	// Admit resolves raw against base, applies the scope gate, and either
	// enqueues it to the Frontier at depth (in-scope) or records it as
	// external_endpoints/subdomains (out-of-scope). It is a no-op on an
	// unresolvable reference.
	Admit(raw string, base *url.URL, depth int, source string)

	// Normalize resolves raw against base without admitting it anywhere;
	// extractors use it when they need the canonical form of a value that
	// is headed for a category other than endpoints (e.g. a <script src>
	// headed for "files", a form action headed for "forms").
	Normalize(raw string, base *url.URL) (canonical string, ok bool)

	// Add records value directly under category, bypassing the scope gate.
	// It returns true if the value was newly recorded.
	Add(category assetstore.Category, value string, source string) bool
}
