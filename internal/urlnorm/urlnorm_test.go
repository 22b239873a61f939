package urlnorm

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBase(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestNormalize(t *testing.T) {
	base := mustBase(t, "https://www.example.com/docs/")

	canonical, ok := Normalize("../api/users?id=1#frag", base)
	require.True(t, ok)
	assert.Equal(t, "https://www.example.com/api/users?id=1", canonical)

	_, ok = Normalize("javascript:void(0)", base)
	assert.False(t, ok)
}

func TestInScope(t *testing.T) {
	tests := []struct {
		name       string
		canonical  string
		rootDomain string
		want       bool
	}{
		{"exact host match", "https://example.com/a", "example.com", true},
		{"subdomain in scope", "https://blog.example.com/a", "example.com", true},
		{"www stripped on both sides", "https://www.example.com/a", "www.example.com", true},
		{"unrelated host out of scope", "https://evil.com/a", "example.com", false},
		{"suffix collision out of scope", "https://notexample.com/a", "example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InScope(tt.canonical, tt.rootDomain)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsIgnored(t *testing.T) {
	assert.True(t, IsIgnored("https://example.com/logo.PNG"))
	assert.True(t, IsIgnored("https://example.com/archive.tar"))
	assert.False(t, IsIgnored("https://example.com/api/users"))
	assert.False(t, IsIgnored("https://example.com/report.docx"))
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("https://example.com/report.docx"))
	assert.True(t, HasExtension("https://example.com/logo.png"))
	assert.False(t, HasExtension("https://example.com/api/users"))
	assert.False(t, HasExtension("https://example.com/"))
}

func TestExtractDirectories(t *testing.T) {
	got := ExtractDirectories("https://example.com/a/b/c?x=1")
	assert.Equal(t, []string{"/", "/a/", "/a/b/"}, got)

	got = ExtractDirectories("https://example.com/")
	assert.Equal(t, []string{"/"}, got)
}

func TestExtractQueryParams(t *testing.T) {
	got := ExtractQueryParams("https://example.com/search?q=go&page=&sort=asc")
	assert.Equal(t, []string{"page", "q", "sort"}, got)

	got = ExtractQueryParams("https://example.com/search")
	assert.Empty(t, got)
}
