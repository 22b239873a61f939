package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-recon/reconcrawler/internal/assetstore"
	"github.com/go-recon/reconcrawler/internal/report"
	"github.com/go-recon/reconcrawler/internal/runstate"
)

func TestBuild_OnlyIncludesNonEmptyCategories(t *testing.T) {
	store := assetstore.New(nil, nil, nil)
	store.Add(assetstore.CategoryEndpoints, "https://example.com/", "seed")
	store.Add(assetstore.CategoryTech, "nginx", "https://example.com/")

	rs := runstate.New("example.com", nil)
	rs.IncrementProcessed()

	started := time.Unix(1000, 0)
	finished := time.Unix(1090, 0)

	r := report.Build("example.com", started, finished, store, rs, nil)

	assert.Equal(t, "example.com", r.BaseDomain)
	assert.Equal(t, "00:01:30", r.Duration)
	assert.Equal(t, []string{"nginx"}, r.Technologies)
	assert.Nil(t, r.Filters)
	require.Contains(t, r.Findings, string(assetstore.CategoryEndpoints))
	assert.NotContains(t, r.Findings, string(assetstore.CategoryTech))
	assert.NotContains(t, r.Findings, string(assetstore.CategoryParams))
	assert.EqualValues(t, 1, r.Stats.Processed)
}

func TestBuild_PreservesFilterList(t *testing.T) {
	store := assetstore.New(nil, nil, nil)
	rs := runstate.New("example.com", nil)

	r := report.Build("example.com", time.Unix(0, 0), time.Unix(5, 0), store, rs, []string{"endpoints", "secrets"})

	assert.Equal(t, []string{"endpoints", "secrets"}, r.Filters)
}

func TestWrite_CreatesParentDirAndValidJSON(t *testing.T) {
	store := assetstore.New(nil, nil, nil)
	store.Add(assetstore.CategoryEmails, "a@example.com", "https://example.com/")
	rs := runstate.New("example.com", nil)

	r := report.Build("example.com", time.Unix(0, 0), time.Unix(1, 0), store, rs, nil)

	outPath := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, report.Write(outPath, r))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "example.com", decoded["target"])
}
