package extractor_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-recon/reconcrawler/internal/assetstore"
	"github.com/go-recon/reconcrawler/internal/extractor"
)

func TestJSONWalker_RouteKeyGoesToEndpoints(t *testing.T) {
	value, ok := extractor.ParseJSON(`{"pageProps":{"route":"/dashboard/settings"}}`)
	require.True(t, ok)

	sink := newFakeSink()
	base, _ := url.Parse("https://example.com/")

	extractor.NewJSONWalker(3).Walk(value, base, "https://example.com/", sink)
	assert.Contains(t, sink.valuesIn(assetstore.CategoryEndpoints), "https://example.com/dashboard/settings")
	assert.Empty(t, sink.admissions)
}

func TestJSONWalker_PathShapedStringAdmitsAtMaxDepth(t *testing.T) {
	value, ok := extractor.ParseJSON(`{"links":["/about", "not-a-path", "/"]}`)
	require.True(t, ok)

	sink := newFakeSink()
	base, _ := url.Parse("https://example.com/")

	extractor.NewJSONWalker(5).Walk(value, base, "https://example.com/", sink)

	var raws []string
	for _, a := range sink.admissions {
		raws = append(raws, a.raw)
		assert.Equal(t, 5, a.depth)
	}
	assert.Equal(t, []string{"/about"}, raws)
}

func TestJSONWalker_IgnoresNonStringAndNonPathValues(t *testing.T) {
	value, ok := extractor.ParseJSON(`{"count": 42, "enabled": true, "name": "no-slash-here"}`)
	require.True(t, ok)

	sink := newFakeSink()
	base, _ := url.Parse("https://example.com/")

	extractor.NewJSONWalker(3).Walk(value, base, "https://example.com/", sink)
	assert.Empty(t, sink.admissions)
	assert.Empty(t, sink.valuesIn(assetstore.CategoryEndpoints))
}

func TestJSONWalker_DescendsNestedArraysAndObjects(t *testing.T) {
	value, ok := extractor.ParseJSON(`{"a":[{"b":{"href":"/nested/deep"}}]}`)
	require.True(t, ok)

	sink := newFakeSink()
	base, _ := url.Parse("https://example.com/")

	extractor.NewJSONWalker(3).Walk(value, base, "https://example.com/", sink)
	assert.Contains(t, sink.valuesIn(assetstore.CategoryEndpoints), "https://example.com/nested/deep")
}
