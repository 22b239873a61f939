package extractor_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-recon/reconcrawler/internal/assetstore"
	"github.com/go-recon/reconcrawler/internal/extractor"
)

func TestSourceMapExtractor_RecordsSourcesAsFiles(t *testing.T) {
	body := `{
		"version": 3,
		"sources": ["../src/app.js", "../src/util.js"],
		"sourcesContent": ["", ""]
	}`
	sink := newFakeSink()
	base, _ := url.Parse("https://example.com/assets/app.bundle.js.map")
	regex := extractor.NewRegexExtractor(3)

	extractor.NewSourceMapExtractor(regex).Extract(body, base, "https://example.com/assets/app.bundle.js.map", sink)

	assert.ElementsMatch(t, []string{"../src/app.js", "../src/util.js"}, sink.valuesIn(assetstore.CategoryFiles))
}

func TestSourceMapExtractor_ScansRecoveredSourceForSecrets(t *testing.T) {
	body := `{
		"sources": ["../src/config.js"],
		"sourcesContent": ["const apiKey = 'abcdefghijklmnopqrst1234';"]
	}`
	sink := newFakeSink()
	base, _ := url.Parse("https://example.com/assets/app.bundle.js.map")
	regex := extractor.NewRegexExtractor(3)

	extractor.NewSourceMapExtractor(regex).Extract(body, base, "https://example.com/assets/app.bundle.js.map", sink)

	secrets := sink.valuesIn(assetstore.CategorySecrets)
	assert.NotEmpty(t, secrets)
}

func TestSourceMapExtractor_MalformedPayloadIsNoOp(t *testing.T) {
	sink := newFakeSink()
	base, _ := url.Parse("https://example.com/assets/app.bundle.js.map")
	regex := extractor.NewRegexExtractor(3)

	extractor.NewSourceMapExtractor(regex).Extract("not json", base, "https://example.com/assets/app.bundle.js.map", sink)

	assert.Empty(t, sink.valuesIn(assetstore.CategoryFiles))
	assert.Empty(t, sink.admissions)
}
