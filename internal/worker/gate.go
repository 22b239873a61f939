// Package worker implements the N-concurrent worker pool and the
// scope-gating Gate that is the single chokepoint every extractor's
// discoveries flow through on their way to the Frontier and Asset Store.
package worker

import (
	"net/url"

	"github.com/rs/zerolog"

	"github.com/go-recon/reconcrawler/internal/assetstore"
	"github.com/go-recon/reconcrawler/internal/frontier"
	"github.com/go-recon/reconcrawler/internal/robots"
	"github.com/go-recon/reconcrawler/internal/runstate"
	"github.com/go-recon/reconcrawler/internal/urlnorm"
)

// Gate implements extractor.Sink. It is the only place a raw discovered
// reference is normalized, scope-checked, and routed to either the
// Frontier, the endpoints/external_endpoints/subdomains categories, or
// both. DOM-discovered and regex/JSON-walker-discovered links share this
// one admission policy: callers
// pass whatever depth is appropriate for their extraction strategy
// (depth+1 for DOM links, maxDepth for terminal regex/JSON hits), and Gate
// applies the same scope/ignored-extension/subdomain classification to
// both.
type Gate struct {
	frontier   *frontier.Frontier
	store      *assetstore.Store
	runState   *runstate.RunState
	rootDomain string
	logger     zerolog.Logger

	// robotsPolicy is nil until the Seed Controller's robots.txt fetch
	// completes, which happens before Run starts any worker goroutines —
	// no synchronization needed for the handoff.
	robotsPolicy *robots.RobotsResponse
}

// NewGate builds a Gate scoped to rootDomain.
func NewGate(f *frontier.Frontier, store *assetstore.Store, rs *runstate.RunState, rootDomain string, logger zerolog.Logger) *Gate {
	return &Gate{frontier: f, store: store, runState: rs, rootDomain: rootDomain, logger: logger}
}

// SetRobotsPolicy installs the parsed robots.txt the Seed Controller fetched
// for this run. Gate never uses it to refuse a fetch — robots.txt stays a
// discovery source, not an access policy — it only drives the debug-level
// denial log Admit emits for paths a site's robots.txt would have denied.
func (g *Gate) SetRobotsPolicy(resp robots.RobotsResponse) {
	g.robotsPolicy = &resp
}

// Normalize resolves raw against base without admitting or classifying it.
func (g *Gate) Normalize(raw string, base *url.URL) (string, bool) {
	return urlnorm.Normalize(raw, base)
}

// Add records value directly under category, bypassing the scope gate.
func (g *Gate) Add(category assetstore.Category, value string, source string) bool {
	return g.store.Add(category, value, source)
}

// Admit resolves raw against base and classifies it:
//   - unresolvable reference: dropped silently.
//   - in-scope, ignored extension (css/png/pdf/...): recorded to "files"
//     only — never fetched, never counted as an endpoint.
//   - in-scope, fetchable: recorded to "endpoints"; its host is recorded
//     to "subdomains" if it differs from root_domain; admitted to the
//     Frontier at depth.
//   - out of scope: recorded to "external_endpoints" only.
func (g *Gate) Admit(raw string, base *url.URL, depth int, source string) {
	canonical, ok := urlnorm.Normalize(raw, base)
	if !ok {
		return
	}

	if !urlnorm.InScope(canonical, g.rootDomain) {
		g.store.Add(assetstore.CategoryExternalEndpoints, canonical, source)
		return
	}

	if urlnorm.IsIgnored(canonical) {
		g.store.Add(assetstore.CategoryFiles, canonical, source)
		return
	}

	g.logRobotsDenial(canonical)

	g.store.Add(assetstore.CategoryEndpoints, canonical, source)
	g.recordSubdomain(canonical)

	entry := frontier.NewFrontierEntry(canonical, depth, source)
	if g.frontier.Admit(entry) && g.runState != nil {
		g.runState.SetQueueDepth(g.frontier.QueueDepth())
	}
}

// logRobotsDenial emits a debug-level log when canonical's path matches a
// robots.txt Disallow rule. It never blocks admission — the crawler fetches
// the URL regardless, purely recording that robots.txt would have said no.
func (g *Gate) logRobotsDenial(canonical string) {
	if g.robotsPolicy == nil {
		return
	}
	u, err := url.Parse(canonical)
	if err != nil {
		return
	}
	if g.robotsPolicy.IsDisallowed(u.Path) {
		g.logger.Debug().Str("url", canonical).Msg("robots.txt disallows this path, fetching anyway")
	}
}

func (g *Gate) recordSubdomain(canonical string) {
	u, err := url.Parse(canonical)
	if err != nil {
		return
	}
	host := u.Hostname()
	if host == "" || !isSubdomainOf(host, g.rootDomain) {
		return
	}
	g.store.Add(assetstore.CategorySubdomains, host, canonical)
}

func isSubdomainOf(host, rootDomain string) bool {
	if host == rootDomain {
		return false
	}
	return len(host) > len(rootDomain) && host[len(host)-len(rootDomain)-1:] == "."+rootDomain
}
