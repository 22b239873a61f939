package worker_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-recon/reconcrawler/internal/assetstore"
	"github.com/go-recon/reconcrawler/internal/fetcher"
	"github.com/go-recon/reconcrawler/internal/frontier"
	"github.com/go-recon/reconcrawler/internal/runstate"
	"github.com/go-recon/reconcrawler/internal/worker"
)

func TestPool_Run_CrawlsSeedAndDiscoveredLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/a">a</a><a href="/a?q=1">aq</a></body></html>`))
	})
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>leaf</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)
	rootDomain := parsed.Hostname()

	f := frontier.New(5)
	store := assetstore.New(nil, nil, nil)
	rs := runstate.New(rootDomain, nil)
	ft, err := fetcher.New(fetcher.Options{Timeout: 5 * time.Second})
	require.NoError(t, err)

	pool := worker.New(worker.Deps{
		Threads:  2,
		Frontier: f,
		Store:    store,
		RunState: rs,
		Fetcher:  ft,
		MaxDepth: 5,
		Logger:   zerolog.Nop(),
	})

	pool.Sink().Admit(srv.URL+"/", nil, 0, "seed")

	pool.Run(context.Background())

	snap := store.Snapshot()
	var endpoints []string
	for _, r := range snap[assetstore.CategoryEndpoints] {
		endpoints = append(endpoints, r.Value)
	}
	assert.Contains(t, endpoints, srv.URL+"/")
	assert.Contains(t, endpoints, srv.URL+"/a")
	assert.Contains(t, endpoints, srv.URL+"/a?q=1")

	var params []string
	for _, r := range snap[assetstore.CategoryParams] {
		params = append(params, r.Value)
	}
	assert.Contains(t, params, "q")

	snapshot := rs.Snapshot()
	assert.GreaterOrEqual(t, snapshot.URLsProcessed, int64(2))
}

func TestPool_Run_FailedFetchCountsAsFailedAndDrains(t *testing.T) {
	f := frontier.New(3)
	store := assetstore.New(nil, nil, nil)
	rs := runstate.New("127.0.0.1", nil)
	ft, err := fetcher.New(fetcher.Options{Timeout: 200 * time.Millisecond})
	require.NoError(t, err)

	pool := worker.New(worker.Deps{
		Threads:  1,
		Frontier: f,
		Store:    store,
		RunState: rs,
		Fetcher:  ft,
		MaxDepth: 3,
		Logger:   zerolog.Nop(),
	})

	pool.Sink().Admit("http://127.0.0.1:1/unreachable", nil, 0, "seed")

	pool.Run(context.Background())

	assert.EqualValues(t, 1, rs.Snapshot().URLsFailed)
}

func TestPool_Run_FetchedExtensionedURLAlsoLandsInFiles(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="/data.json">data</a></body></html>`))
	})
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)

	f := frontier.New(5)
	store := assetstore.New(nil, nil, nil)
	rs := runstate.New(parsed.Hostname(), nil)
	ft, err := fetcher.New(fetcher.Options{Timeout: 5 * time.Second})
	require.NoError(t, err)

	pool := worker.New(worker.Deps{
		Threads:  1,
		Frontier: f,
		Store:    store,
		RunState: rs,
		Fetcher:  ft,
		MaxDepth: 5,
		Logger:   zerolog.Nop(),
	})

	pool.Sink().Admit(srv.URL+"/", nil, 0, "seed")
	pool.Run(context.Background())

	snap := store.Snapshot()
	var endpoints, files []string
	for _, r := range snap[assetstore.CategoryEndpoints] {
		endpoints = append(endpoints, r.Value)
	}
	for _, r := range snap[assetstore.CategoryFiles] {
		files = append(files, r.Value)
	}
	assert.Contains(t, endpoints, srv.URL+"/data.json")
	assert.Contains(t, files, srv.URL+"/data.json")
}

func TestPool_Run_NonHTTPStatusSkipsExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)

	f := frontier.New(3)
	store := assetstore.New(nil, nil, nil)
	rs := runstate.New(parsed.Hostname(), nil)
	ft, err := fetcher.New(fetcher.Options{Timeout: 2 * time.Second})
	require.NoError(t, err)

	pool := worker.New(worker.Deps{
		Threads:  1,
		Frontier: f,
		Store:    store,
		RunState: rs,
		Fetcher:  ft,
		MaxDepth: 3,
		Logger:   zerolog.Nop(),
	})

	require.True(t, f.Admit(frontier.NewFrontierEntry(srv.URL+"/missing", 0, "seed")))
	pool.Run(context.Background())

	assert.EqualValues(t, 1, rs.Snapshot().URLsProcessed)
	assert.Empty(t, store.Snapshot()[assetstore.CategoryEndpoints])
}
