package extractor_test

import (
	"net/url"

	"github.com/go-recon/reconcrawler/internal/assetstore"
)

// admission records one Sink.Admit call for assertions.
type admission struct {
	raw    string
	depth  int
	source string
}

// fakeSink is an in-memory extractor.Sink used across the extractor tests.
// Normalize resolves against base with no scope gating; Admit always
// succeeds and simply records the call.
type fakeSink struct {
	admissions []admission
	records    map[assetstore.Category][]string
}

func newFakeSink() *fakeSink {
	return &fakeSink{records: make(map[assetstore.Category][]string)}
}

func (s *fakeSink) Admit(raw string, base *url.URL, depth int, source string) {
	s.admissions = append(s.admissions, admission{raw: raw, depth: depth, source: source})
}

func (s *fakeSink) Normalize(raw string, base *url.URL) (string, bool) {
	if base == nil {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false
		}
		return u.String(), true
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}

func (s *fakeSink) Add(category assetstore.Category, value string, source string) bool {
	for _, existing := range s.records[category] {
		if existing == value {
			return false
		}
	}
	s.records[category] = append(s.records[category], value)
	return true
}

func (s *fakeSink) valuesIn(category assetstore.Category) []string {
	return s.records[category]
}
