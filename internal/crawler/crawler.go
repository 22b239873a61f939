// Package crawler wires the Seed Controller, Asset Store, Frontier, worker
// Pool, and report writer into a single run. It is the only place
// that owns the full collaborator graph; every other internal package sees
// just the collaborators it needs.
package crawler

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-recon/reconcrawler/internal/assetstore"
	"github.com/go-recon/reconcrawler/internal/config"
	"github.com/go-recon/reconcrawler/internal/fetcher"
	"github.com/go-recon/reconcrawler/internal/frontier"
	"github.com/go-recon/reconcrawler/internal/logging"
	"github.com/go-recon/reconcrawler/internal/report"
	"github.com/go-recon/reconcrawler/internal/runstate"
	"github.com/go-recon/reconcrawler/internal/seed"
	"github.com/go-recon/reconcrawler/internal/wayback"
	"github.com/go-recon/reconcrawler/internal/worker"
)

// recentLogCapacity bounds the in-memory recent-activity feed RunState
// exposes to a status reader.
const recentLogCapacity = 200

// Crawler runs one crawl from a Config to a finished Asset Store, and
// optionally a written JSON report.
type Crawler struct {
	cfg    config.Config
	logger zerolog.Logger
	recent *logging.RingBuffer

	// runState is populated once Run resolves root_domain, and nil before
	// that — StatusSnapshot reports the zero Snapshot until then.
	runState *runstate.RunState
}

// New builds a Crawler from cfg. out receives the human-readable log
// stream (nil defaults to os.Stderr); logs are always also captured into
// the RunState recent-activity ring buffer regardless of out.
func New(cfg config.Config, out io.Writer) *Crawler {
	if out == nil {
		out = os.Stderr
	}
	recent := logging.NewRingBuffer(recentLogCapacity)
	logger := logging.New(cfg.Verbose(), io.MultiWriter(out, recent))
	return &Crawler{cfg: cfg, logger: logger, recent: recent}
}

// StatusSnapshot returns the current RunState snapshot for a status reader
// (4Hz UI loop). Safe to call concurrently with Run.
func (c *Crawler) StatusSnapshot() runstate.Snapshot {
	if c.runState == nil {
		return runstate.Snapshot{}
	}
	return c.runState.Snapshot()
}

// Run executes one full crawl: resolve the seed, drain the Frontier, and
// write the report if an output path is configured. It returns once the
// Frontier has drained or ctx is cancelled (operator interrupt).
func (c *Crawler) Run(ctx context.Context) error {
	started := time.Now()

	ft, err := fetcher.New(fetcher.Options{
		Timeout:       c.cfg.Timeout(),
		IgnoreSSL:     c.cfg.IgnoreSSL(),
		ProxyURL:      c.cfg.Proxy(),
		JitterSeconds: c.cfg.JitterSeconds(),
	})
	if err != nil {
		return fmt.Errorf("configure fetcher: %w", err)
	}

	seedCtrl := seed.New(ft, c.cfg.UserAgent(), c.cfg.UseSitemap(), c.cfg.UseWayback(), wayback.DefaultLimit, c.logger)
	seedURL, rootDomain := seedCtrl.ResolveRootDomain(ctx, c.cfg.Target())
	c.logger.Info().Str("root_domain", rootDomain).Str("seed_url", seedURL).Msg("resolved seed")

	c.runState = runstate.New(rootDomain, c.recent)
	store := assetstore.New(c.cfg.CategoryFilter(), nil, &c.logger)
	f := frontier.New(c.cfg.MaxDepth())

	pool := worker.New(worker.Deps{
		Threads:  c.cfg.Threads(),
		Frontier: f,
		Store:    store,
		RunState: c.runState,
		Fetcher:  ft,
		MaxDepth: c.cfg.MaxDepth(),
		Logger:   c.logger,
	})

	seedCtrl.Seed(ctx, pool.Sink(), seedURL, rootDomain)

	pool.Run(ctx)

	finished := time.Now()
	c.logger.Info().
		Int64("processed", c.runState.Snapshot().URLsProcessed).
		Int64("failed", c.runState.Snapshot().URLsFailed).
		Dur("duration", finished.Sub(started)).
		Msg("crawl finished")

	if c.cfg.OutputPath() == "" {
		return nil
	}

	rep := report.Build(c.cfg.Target(), started, finished, store, c.runState, sortedFilterList(c.cfg))
	if err := report.Write(c.cfg.OutputPath(), rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// sortedFilterList renders Config's category filter as the report's
// "filters" field: nil (JSON null) when no filter is active, otherwise a
// stable-ordered list of the active category names.
func sortedFilterList(cfg config.Config) []string {
	filter := cfg.CategoryFilter()
	if len(filter) == 0 {
		return nil
	}
	out := make([]string, 0, len(filter))
	for _, category := range assetstore.AllCategories {
		if _, ok := filter[string(category)]; ok {
			out = append(out, string(category))
		}
	}
	return out
}
