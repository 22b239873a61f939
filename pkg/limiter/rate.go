// Package limiter provides per-host request pacing for the Fetcher, backed
// by golang.org/x/time/rate: one token bucket per host, lazily created,
// replenished at a rate derived from a robots.txt crawl-delay (when one is
// known) or from the run's configured jitter ceiling.
package limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter hands out one token-bucket limiter per host, so a burst of
// admits against the same host serializes to its configured pace while
// distinct hosts never block each other.
type HostLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	defaultGap  time.Duration
	crawlDelays map[string]time.Duration
}

// NewHostLimiter builds a HostLimiter whose default per-host gap (used
// until a host-specific robots.txt crawl-delay is learned) is defaultGap.
// A zero defaultGap disables default pacing; hosts with no explicit
// crawl-delay are then unbounded.
func NewHostLimiter(defaultGap time.Duration) *HostLimiter {
	return &HostLimiter{
		limiters:    make(map[string]*rate.Limiter),
		defaultGap:  defaultGap,
		crawlDelays: make(map[string]time.Duration),
	}
}

// SetCrawlDelay overrides the pacing gap for host, typically sourced from a
// robots.txt Crawl-delay directive. It replaces any limiter already built
// for that host so the new pace takes effect on the next Wait.
func (h *HostLimiter) SetCrawlDelay(host string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.crawlDelays[host] = delay
	delete(h.limiters, host)
}

// Wait blocks until host's bucket admits one more request, or ctx is done.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	l := h.limiterFor(host)
	if l == nil {
		return nil
	}
	return l.Wait(ctx)
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	if l, ok := h.limiters[host]; ok {
		return l
	}

	gap := h.defaultGap
	if d, ok := h.crawlDelays[host]; ok {
		gap = d
	}
	if gap <= 0 {
		h.limiters[host] = nil
		return nil
	}

	l := rate.NewLimiter(rate.Every(gap), 1)
	h.limiters[host] = l
	return l
}
