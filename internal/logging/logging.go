// Package logging wires the crawler onto github.com/rs/zerolog, providing a
// console-friendly logger plus a bounded in-memory ring buffer that backs
// RunState's recent-log-lines view.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// New builds the package-level logger used across the worker pool, fetcher,
// and extractors. verbose lowers the minimum level to Debug; otherwise Info
// and above are emitted.
func New(verbose bool, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// RingBuffer is a fixed-capacity, concurrency-safe log line buffer backing
// RunState's "recent log lines" field. It implements io.Writer so it can be
// chained as a zerolog MultiLevelWriter target alongside the console writer.
type RingBuffer struct {
	mu       sync.Mutex
	lines    []string
	capacity int
	next     int
	full     bool
}

// NewRingBuffer creates a ring buffer holding at most capacity lines.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{lines: make([]string, capacity), capacity: capacity}
}

func (r *RingBuffer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[r.next] = string(p)
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
	return len(p), nil
}

// Recent returns the buffered lines in chronological order, oldest first.
func (r *RingBuffer) Recent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]string, r.next)
		copy(out, r.lines[:r.next])
		return out
	}
	out := make([]string, r.capacity)
	copy(out, r.lines[r.next:])
	copy(out[r.capacity-r.next:], r.lines[:r.next])
	return out
}
