package frontier_test

import (
	"sync"
	"testing"

	"github.com/go-recon/reconcrawler/internal/frontier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmitRejectsBeyondMaxDepth(t *testing.T) {
	f := frontier.New(2)

	admitted := f.Admit(frontier.NewFrontierEntry("https://example.com/a", 3, "seed"))
	assert.False(t, admitted)
	assert.Equal(t, 0, f.QueueDepth())
}

func TestAdmitDeduplicatesSameURL(t *testing.T) {
	f := frontier.New(5)

	first := f.Admit(frontier.NewFrontierEntry("https://example.com/a", 0, "seed"))
	second := f.Admit(frontier.NewFrontierEntry("https://example.com/a", 1, "https://example.com/b"))

	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, 1, f.QueueDepth())
}

func TestAdmitExactlyOneWinsUnderConcurrency(t *testing.T) {
	f := frontier.New(5)

	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Admit(frontier.NewFrontierEntry("https://example.com/shared", 0, "seed")) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestPullReturnsFIFOOrder(t *testing.T) {
	f := frontier.New(5)
	require.True(t, f.Admit(frontier.NewFrontierEntry("https://example.com/a", 0, "seed")))
	require.True(t, f.Admit(frontier.NewFrontierEntry("https://example.com/b", 0, "seed")))

	first, ok := f.Pull()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", first.URL())

	second, ok := f.Pull()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/b", second.URL())
}

func TestPullBlocksThenClosesWhenDrained(t *testing.T) {
	f := frontier.New(5)
	require.True(t, f.Admit(frontier.NewFrontierEntry("https://example.com/a", 0, "seed")))

	done := make(chan struct{})
	var secondOK bool
	go func() {
		entry, ok := f.Pull()
		assert.True(t, ok)
		f.Done() // no further discoveries from this entry

		_, ok2 := f.Pull()
		secondOK = ok2
		close(done)
		_ = entry
	}()

	<-done
	assert.False(t, secondOK)
}

func TestDoneKeepsFrontierOpenWhileDiscoveriesAreAdmitted(t *testing.T) {
	f := frontier.New(5)
	require.True(t, f.Admit(frontier.NewFrontierEntry("https://example.com/a", 0, "seed")))

	entry, ok := f.Pull()
	require.True(t, ok)

	// Simulate discovering one new URL before marking the pulled entry done.
	require.True(t, f.Admit(frontier.NewFrontierEntry("https://example.com/b", 1, entry.URL())))
	f.Done()

	next, ok := f.Pull()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/b", next.URL())
}

func TestShutdownWakesBlockedPull(t *testing.T) {
	f := frontier.New(5)

	done := make(chan bool)
	go func() {
		_, ok := f.Pull()
		done <- ok
	}()

	f.Shutdown()
	assert.False(t, <-done)
}

func TestFrontierEntryAccessors(t *testing.T) {
	entry := frontier.NewFrontierEntry("https://example.com/a", 2, "wayback")
	assert.Equal(t, "https://example.com/a", entry.URL())
	assert.Equal(t, 2, entry.Depth())
	assert.Equal(t, "wayback", entry.Source())
}
