// Package runstate holds the shared, mutable counters every worker
// updates and the low-frequency status reader polls: urls_processed,
// urls_failed, queue_depth, current_url, root_domain, and a ring buffer of
// recent log lines.
package runstate

import (
	"sync/atomic"

	"github.com/go-recon/reconcrawler/internal/logging"
)

// RunState is safe for concurrent use. The zero value is not usable;
// construct with New.
type RunState struct {
	rootDomain string

	urlsProcessed atomic.Int64
	urlsFailed    atomic.Int64
	queueDepth    atomic.Int64

	currentURL atomic.Pointer[string]
	recent     *logging.RingBuffer
}

// New builds a RunState for rootDomain, backed by recent for the recent-
// activity feed (may be nil if the caller doesn't want one).
func New(rootDomain string, recent *logging.RingBuffer) *RunState {
	empty := ""
	rs := &RunState{rootDomain: rootDomain, recent: recent}
	rs.currentURL.Store(&empty)
	return rs
}

// RootDomain returns the scan's root domain, fixed for the run's lifetime.
func (r *RunState) RootDomain() string {
	return r.rootDomain
}

// IncrementProcessed records one successfully fetched and classified URL.
func (r *RunState) IncrementProcessed() {
	r.urlsProcessed.Add(1)
}

// IncrementFailed records one URL whose fetch failed.
func (r *RunState) IncrementFailed() {
	r.urlsFailed.Add(1)
}

// SetQueueDepth overwrites the reported Frontier queue depth.
func (r *RunState) SetQueueDepth(depth int) {
	r.queueDepth.Store(int64(depth))
}

// SetCurrentURL records the URL a worker is actively fetching.
func (r *RunState) SetCurrentURL(url string) {
	r.currentURL.Store(&url)
}

// Snapshot is an immutable point-in-time read of RunState, safe to hand to
// a UI loop or a signal handler without locking.
type Snapshot struct {
	RootDomain    string
	URLsProcessed int64
	URLsFailed    int64
	QueueDepth    int64
	CurrentURL    string
	RecentLogs    []string
}

// Snapshot reads every counter without blocking writers.
func (r *RunState) Snapshot() Snapshot {
	var recentLogs []string
	if r.recent != nil {
		recentLogs = r.recent.Recent()
	}
	return Snapshot{
		RootDomain:    r.rootDomain,
		URLsProcessed: r.urlsProcessed.Load(),
		URLsFailed:    r.urlsFailed.Load(),
		QueueDepth:    r.queueDepth.Load(),
		CurrentURL:    *r.currentURL.Load(),
		RecentLogs:    recentLogs,
	}
}
