// Package frontier implements the bounded crawl Frontier: a deduplicating,
// concurrency-safe FIFO of FrontierEntry values plus the admits-vs-dones
// completion barrier that drives pool shutdown.
//
// Frontier Responsibilities
//   - Maintain FIFO ordering (depth is carried per entry, not by queue
//     discipline, so FIFO is sufficient for a breadth-biased crawl).
//   - Deduplicate admitted URLs via VisitedSet.
//   - Track crawl depth and enforce max_depth.
//   - Know nothing about fetching, extraction, or storage.
package frontier

import (
	"sync"

	"github.com/go-recon/reconcrawler/pkg/hashutil"
)

// Frontier is the shared queue every worker pulls from and every discovery
// admits into.
type Frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    FIFOQueue[FrontierEntry]
	visited  Set[string]
	maxDepth int
	pending  int // admitted entries not yet marked Done
	closed   bool
}

// New builds an empty Frontier bounded to maxDepth.
func New(maxDepth int) *Frontier {
	f := &Frontier{
		queue:    *NewFIFOQueue[FrontierEntry](),
		visited:  NewSet[string](),
		maxDepth: maxDepth,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Admit attempts to enqueue entry. It returns false if entry.Depth exceeds
// maxDepth, or if entry.URL has already been admitted this run — exactly
// one concurrent caller succeeds for a given URL. Admission is the only
// place VisitedSet is mutated.
func (f *Frontier) Admit(entry FrontierEntry) bool {
	if entry.Depth() > f.maxDepth {
		return false
	}

	key := visitedKey(entry.URL())

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	if f.visited.Contains(key) {
		return false
	}
	f.visited.Add(key)
	f.queue.Enqueue(entry)
	f.pending++
	f.cond.Broadcast()
	return true
}

// Pull blocks until an entry is available or the Frontier has been
// signalled for shutdown, in which case ok is false.
func (f *Frontier) Pull() (entry FrontierEntry, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.queue.Size() == 0 {
		if f.closed {
			return FrontierEntry{}, false
		}
		f.cond.Wait()
	}
	entry, _ = f.queue.Dequeue()
	return entry, true
}

// Done marks one previously-admitted entry as fully processed (fetched,
// extracted, and its discoveries submitted for admission — or dropped).
// When the queue is empty and no admitted entry remains in flight, the
// Frontier closes and every blocked Pull wakes with ok=false.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending--
	if f.pending <= 0 && f.queue.Size() == 0 {
		f.closed = true
		f.cond.Broadcast()
	}
}

// Shutdown forces the Frontier closed regardless of pending work — used on
// operator interrupt to stop admitting new entries and wake every worker.
func (f *Frontier) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
}

// QueueDepth reports the number of entries currently queued, for RunState.
func (f *Frontier) QueueDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Size()
}

// VisitedCount reports the number of URLs ever admitted, for RunState.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Size()
}

// visitedKey reduces a canonical URL to its blake3 digest before it enters
// VisitedSet, so membership checks compare fixed-size hashes rather than
// arbitrarily long query strings.
func visitedKey(canonicalURL string) string {
	digest, err := hashutil.HashBytes([]byte(canonicalURL), hashutil.HashAlgoBLAKE3)
	if err != nil {
		return canonicalURL
	}
	return digest
}
