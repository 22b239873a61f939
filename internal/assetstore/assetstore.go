// Package assetstore implements the deduplicating, category-partitioned
// Asset Store: the single mutation point that turns a raw discovered value
// into a recorded finding.
package assetstore

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-recon/reconcrawler/internal/frontier"
)

// Category is one member of the closed set of asset categories.
type Category string

const (
	CategoryEndpoints         Category = "endpoints"
	CategoryExternalEndpoints Category = "external_endpoints"
	CategoryAPIEndpoints      Category = "api_endpoints"
	CategoryDirectories       Category = "directories"
	CategoryFiles             Category = "files"
	CategoryInputs            Category = "inputs"
	CategoryParams            Category = "params"
	CategoryForms             Category = "forms"
	CategoryEmails            Category = "emails"
	CategoryCloudBuckets      Category = "cloud_buckets"
	CategorySecrets           Category = "secrets"
	CategorySubdomains        Category = "subdomains"
	CategoryComments          Category = "comments"
	CategoryTech              Category = "tech"
)

// AllCategories lists the closed category set in the order they appear in
// the generated report.
var AllCategories = []Category{
	CategoryEndpoints, CategoryExternalEndpoints, CategoryAPIEndpoints,
	CategoryDirectories, CategoryFiles, CategoryInputs, CategoryParams,
	CategoryForms, CategoryEmails, CategoryCloudBuckets, CategorySecrets,
	CategorySubdomains, CategoryComments, CategoryTech,
}

// sensitiveCategories get a high-priority log line on every new sighting.
var sensitiveCategories = frontier.NewSet[Category]()

func init() {
	sensitiveCategories.Add(CategorySecrets)
	sensitiveCategories.Add(CategoryCloudBuckets)
	sensitiveCategories.Add(CategorySubdomains)
}

// maxValueBytes is the defensive upper bound on a single asset value.
const maxValueBytes = 2000

// Record is one sighting of a value within a category.
type Record struct {
	Value     string    `json:"value"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// EventSink is notified of every newly accepted asset, in addition to the
// category list it is appended to. It supplements the final-report-only
// design with the streaming discovery feed the Python prototype emitted;
// the default sink (NoopEventSink) does nothing.
type EventSink interface {
	Notify(category Category, record Record)
}

// NoopEventSink discards every notification.
type NoopEventSink struct{}

func (NoopEventSink) Notify(Category, Record) {}

// Store is the concurrency-safe Asset Store. The zero value is not usable;
// construct with New.
type Store struct {
	mu       sync.Mutex
	records  map[Category][]Record
	seen     map[Category]frontier.Set[string]
	filter   map[Category]struct{} // nil/empty means all categories active
	sink     EventSink
	logger   *zerolog.Logger
	nowFunc  func() time.Time
}

// New builds an Asset Store. filter, when non-empty, restricts add() to the
// named categories; a nil sink defaults to NoopEventSink.
func New(filter map[string]struct{}, sink EventSink, logger *zerolog.Logger) *Store {
	if sink == nil {
		sink = NoopEventSink{}
	}
	var catFilter map[Category]struct{}
	if len(filter) > 0 {
		catFilter = make(map[Category]struct{}, len(filter))
		for k := range filter {
			catFilter[Category(k)] = struct{}{}
		}
	}
	return &Store{
		records: make(map[Category][]Record),
		seen:    make(map[Category]frontier.Set[string]),
		filter:  catFilter,
		sink:    sink,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Add is the store's sole mutator. It returns true if value was newly
// recorded under category, false if it was rejected (filtered out, empty,
// oversized, or a duplicate).
func (s *Store) Add(category Category, value string, source string) bool {
	if s.filter != nil {
		if _, active := s.filter[category]; !active {
			return false
		}
	}
	if value == "" || len(value) > maxValueBytes {
		return false
	}

	s.mu.Lock()
	seen, ok := s.seen[category]
	if !ok {
		seen = frontier.NewSet[string]()
		s.seen[category] = seen
	}
	if seen.Contains(value) {
		s.mu.Unlock()
		return false
	}
	seen.Add(value)
	record := Record{Value: value, Source: source, Timestamp: s.nowFunc().UTC()}
	s.records[category] = append(s.records[category], record)
	s.mu.Unlock()

	if sensitiveCategories.Contains(category) && s.logger != nil {
		s.logger.Warn().
			Str("category", string(category)).
			Str("value", value).
			Str("source", source).
			Msg("sensitive asset discovered")
	}

	s.sink.Notify(category, record)
	return true
}

// Snapshot returns the accumulated records by category. It must only be
// called after the worker pool has drained.
func (s *Store) Snapshot() map[Category][]Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Category][]Record, len(s.records))
	for cat, records := range s.records {
		cp := make([]Record, len(records))
		copy(cp, records)
		out[cat] = cp
	}
	return out
}

// Count returns the total number of records accepted across all categories.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, records := range s.records {
		total += len(records)
	}
	return total
}
