// Package seed implements the Seed Controller: it resolves the
// initial target into a locked root_domain, admits the first Frontier
// entry, and optionally kicks off the Robots/Sitemap and Wayback discovery
// sources.
package seed

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-recon/reconcrawler/internal/extractor"
	"github.com/go-recon/reconcrawler/internal/fetcher"
	"github.com/go-recon/reconcrawler/internal/robots"
	"github.com/go-recon/reconcrawler/internal/wayback"
	"github.com/go-recon/reconcrawler/pkg/failure"
	"github.com/go-recon/reconcrawler/pkg/retry"
	"github.com/go-recon/reconcrawler/pkg/timeutil"
)

// seedResolveMaxAttempts governs how many times the initial seed fetch is
// retried before falling back to the user-supplied host ("seed target
// whose connect fails three times, then succeeds" property).
const seedResolveMaxAttempts = 3

func seedResolveRetryParam() retry.RetryParam {
	return retry.NewRetryParam(
		200*time.Millisecond,
		100*time.Millisecond,
		time.Now().UnixNano(),
		seedResolveMaxAttempts,
		timeutil.NewBackoffParam(200*time.Millisecond, 2.0, 2*time.Second),
	)
}

// seedDepth is where the initial target lands in the Frontier.
const seedDepth = 0

// ingesterDepth is where URLs discovered by the out-of-band sources
// (robots, sitemap, Wayback) are admitted — one hop out from the seed.
const ingesterDepth = 1

// Controller resolves a target into root_domain and seeds the Frontier.
// Resolving root_domain is split from seeding because root_domain must be
// known before the Gate (and therefore the Sink) can be constructed: a
// Controller first resolves, the caller builds its scope-gated worker pool
// from the result, and only then calls Seed with that pool's Sink.
type Controller struct {
	fetcher    *fetcher.Fetcher
	userAgent  string
	useSitemap bool
	useWayback bool
	waybackCap int
	logger     zerolog.Logger
}

// New builds a Controller.
func New(f *fetcher.Fetcher, userAgent string, useSitemap, useWayback bool, waybackCap int, logger zerolog.Logger) *Controller {
	return &Controller{
		fetcher:    f,
		userAgent:  userAgent,
		useSitemap: useSitemap,
		useWayback: useWayback,
		waybackCap: waybackCap,
		logger:     logger,
	}
}

// ResolveRootDomain prepends a scheme if target lacks one, GETs it
// following redirects, and derives root_domain from
// wherever that landed — or, on connection failure, from the user-supplied
// host directly. It returns the URL that should be seeded at depth 0
// alongside the resolved root_domain.
func (c *Controller) ResolveRootDomain(ctx context.Context, target string) (seedURL, rootDomain string) {
	seedURL = withScheme(target)

	result := retry.Retry(seedResolveRetryParam(), func() (fetcher.Response, failure.ClassifiedError) {
		resp, err := c.fetcher.Get(ctx, seedURL)
		if err != nil {
			return fetcher.Response{}, err.(failure.ClassifiedError)
		}
		return resp, nil
	})

	if result.Err() != nil {
		c.logger.Warn().Err(result.Err()).Int("attempts", result.Attempts()).Str("target", seedURL).
			Msg("seed fetch failed, falling back to supplied host")
		return seedURL, fallbackHost(target)
	}

	finalURL := result.Value().FinalURL
	if finalURL == "" {
		finalURL = seedURL
	}
	return finalURL, rootDomainOf(finalURL)
}

// Seed admits seedURL at depth 0 through sink, then triggers whichever
// discovery sources are enabled. sink is normally
// the worker Pool's Sink(), so the seed URL passes through the same scope
// gate as every other admission and lands in "endpoints" like the rest.
func (c *Controller) Seed(ctx context.Context, sink extractor.Sink, seedURL, rootDomain string) {
	sink.Admit(seedURL, nil, seedDepth, "seed")

	if c.useSitemap {
		c.ingestRobotsAndSitemap(ctx, sink, seedURL)
	}
	if c.useWayback {
		go c.ingestWayback(sink, rootDomain)
	}
}

// robotsPolicyReceiver is implemented by sinks that want to know what
// robots.txt said, for logging, without robots.txt ever being able to
// refuse a fetch through the Sink interface itself. The worker Pool's Gate
// is the only real implementation.
type robotsPolicyReceiver interface {
	SetRobotsPolicy(robots.RobotsResponse)
}

// ingestRobotsAndSitemap fetches robots.txt from the same origin (scheme
// and host, port included) the seed itself resolved to, rather than
// assuming a bare root_domain always means the standard port — a target
// probed over plain HTTP, or on a non-standard port, still gets its
// robots.txt from where it actually lives.
func (c *Controller) ingestRobotsAndSitemap(ctx context.Context, sink extractor.Sink, seedURL string) {
	origin, err := url.Parse(seedURL)
	if err != nil {
		return
	}
	base := &url.URL{Scheme: origin.Scheme, Host: origin.Host, Path: "/"}

	robotsFetcher := robots.NewFetcher(c.fetcher.HTTPClient(), c.userAgent)
	resp, err := robotsFetcher.Fetch(ctx, origin.Scheme, origin.Host)
	if err != nil {
		c.logger.Debug().Err(err).Str("origin", base.String()).Msg("robots.txt fetch failed")
		return
	}
	if resp.CrawlDelay > 0 {
		c.fetcher.SetCrawlDelay(origin.Host, resp.CrawlDelay)
	}

	if policyReceiver, ok := sink.(robotsPolicyReceiver); ok {
		policyReceiver.SetRobotsPolicy(resp)
	}

	for _, path := range resp.CollectPaths() {
		sink.Admit(path, base, ingesterDepth, "robots")
	}

	for _, sitemapURL := range resp.Sitemaps {
		locs, err := robots.FetchSitemap(ctx, c.fetcher.HTTPClient(), sitemapURL, c.userAgent)
		if err != nil {
			c.logger.Debug().Err(err).Str("sitemap", sitemapURL).Msg("sitemap fetch failed")
			continue
		}
		for _, loc := range locs {
			sink.Admit(loc, base, ingesterDepth, "sitemap")
		}
	}
}

// ingestWayback runs detached from Seed: its completion does not gate
// shutdown beyond the Frontier draining. It builds its own
// context rather than inheriting the caller's, since the run's overall
// cancellation is driven by SIGINT/Frontier drain, not by Seed returning.
func (c *Controller) ingestWayback(sink extractor.Sink, rootDomain string) {
	base, err := url.Parse("https://" + rootDomain + "/")
	if err != nil {
		return
	}

	urls, err := wayback.Fetch(context.Background(), c.fetcher.HTTPClient(), c.userAgent, rootDomain, c.waybackCap)
	if err != nil {
		c.logger.Debug().Err(err).Str("root_domain", rootDomain).Msg("wayback ingestion failed")
		return
	}

	for _, discovered := range urls {
		sink.Admit(discovered, base, ingesterDepth, "wayback")
	}
}

// withScheme prepends https:// to target when it carries no scheme (
// step 1).
func withScheme(target string) string {
	if strings.Contains(target, "://") {
		return target
	}
	return "https://" + target
}

// rootDomainOf extracts the host from finalURL and strips a single leading
// "www.".
func rootDomainOf(finalURL string) string {
	u, err := url.Parse(finalURL)
	if err != nil {
		return finalURL
	}
	return stripWWW(u.Hostname())
}

// fallbackHost derives root_domain from the user-supplied target when the
// seed fetch fails outright, without ever attempting a network round trip.
// Parsing "//"+target as a scheme-relative URL lets
// net/url split off the host whether or not target already carried a
// scheme or a port.
func fallbackHost(target string) string {
	authority := target
	if idx := strings.Index(authority, "://"); idx != -1 {
		authority = authority[idx+3:]
	}
	u, err := url.Parse("//" + authority)
	if err != nil || u.Hostname() == "" {
		return stripWWW(authority)
	}
	return stripWWW(u.Hostname())
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}
