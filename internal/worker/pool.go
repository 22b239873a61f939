package worker

import (
	"context"
	"mime"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/go-recon/reconcrawler/internal/assetstore"
	"github.com/go-recon/reconcrawler/internal/extractor"
	"github.com/go-recon/reconcrawler/internal/fetcher"
	"github.com/go-recon/reconcrawler/internal/frontier"
	"github.com/go-recon/reconcrawler/internal/runstate"
	"github.com/go-recon/reconcrawler/internal/urlnorm"
)

// Pool is the N-worker pool driving the crawl loop. Construct with
// New and start with Run, which blocks until the Frontier drains or ctx is
// cancelled.
type Pool struct {
	threads int

	frontier *frontier.Frontier
	store    *assetstore.Store
	runState *runstate.RunState
	fetcher  *fetcher.Fetcher
	gate     *Gate

	dom       *extractor.DOMExtractor
	regex     *extractor.RegexExtractor
	json      *extractor.JSONWalker
	sourceMap *extractor.SourceMapExtractor

	logger zerolog.Logger
}

// Deps bundles the collaborators a Pool is built from.
type Deps struct {
	Threads  int
	Frontier *frontier.Frontier
	Store    *assetstore.Store
	RunState *runstate.RunState
	Fetcher  *fetcher.Fetcher
	MaxDepth int
	Logger   zerolog.Logger
}

// New builds a Pool. It owns the Gate and the extractor set internally so
// callers only need to wire the shared collaborators.
func New(deps Deps) *Pool {
	rootDomain := deps.RunState.RootDomain()
	gate := NewGate(deps.Frontier, deps.Store, deps.RunState, rootDomain, deps.Logger)
	regex := extractor.NewRegexExtractor(deps.MaxDepth)
	jsonWalker := extractor.NewJSONWalker(deps.MaxDepth)

	return &Pool{
		threads:   deps.Threads,
		frontier:  deps.Frontier,
		store:     deps.Store,
		runState:  deps.RunState,
		fetcher:   deps.Fetcher,
		gate:      gate,
		dom:       extractor.NewDOMExtractor(regex, jsonWalker),
		regex:     regex,
		json:      jsonWalker,
		sourceMap: extractor.NewSourceMapExtractor(regex),
		logger:    deps.Logger,
	}
}

// Sink exposes the Pool's Gate as an extractor.Sink so the Seed Controller
// can admit seed URLs through the same scope-gating chokepoint every
// extractor uses, rather than enqueueing directly to the Frontier.
func (p *Pool) Sink() extractor.Sink {
	return p.gate
}

// Run starts threads workers and blocks until every worker exits, which
// happens when the Frontier closes (drained, or Shutdown was called).
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.workerLoop(ctx)
		}()
	}
	wg.Wait()
}

func (p *Pool) workerLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			p.frontier.Shutdown()
			return
		}

		entry, ok := p.frontier.Pull()
		if !ok {
			return
		}

		p.process(ctx, entry)
		p.frontier.Done()
		p.runState.SetQueueDepth(p.frontier.QueueDepth())
	}
}

func (p *Pool) process(ctx context.Context, entry frontier.FrontierEntry) {
	p.runState.SetCurrentURL(entry.URL())

	resp, err := p.fetcher.Get(ctx, entry.URL())
	if err != nil {
		p.runState.IncrementFailed()
		p.logger.Debug().Err(err).Str("url", entry.URL()).Msg("fetch failed")
		return
	}

	p.runState.IncrementProcessed()
	p.recordURLShape(resp.FinalURL, entry.URL())

	if isUnresolvedOrError(resp.Status) {
		return
	}

	p.recordFileExtension(resp.FinalURL, entry.URL())
	p.extract(resp, entry)
	p.detectTech(resp)
}

// recordFileExtension additionally files a successfully fetched, non-ignored
// URL under CategoryFiles when its path carries a recognized extension
// (.pdf, .json, .xml, ...), on top of the CategoryEndpoints record Admit
// already made for it. Ignored-extension URLs never reach here — Admit
// diverts those to CategoryFiles only and never enqueues them.
func (p *Pool) recordFileExtension(finalURL, fallbackURL string) {
	target := finalURL
	if target == "" {
		target = fallbackURL
	}
	if urlnorm.HasExtension(target) {
		p.store.Add(assetstore.CategoryFiles, target, target)
	}
}

// recordURLShape extracts query params and path directories from the
// final (post-redirect) URL.
func (p *Pool) recordURLShape(finalURL, fallbackURL string) {
	target := finalURL
	if target == "" {
		target = fallbackURL
	}
	for _, param := range urlnorm.ExtractQueryParams(target) {
		p.store.Add(assetstore.CategoryParams, param, target)
	}
	for _, dir := range urlnorm.ExtractDirectories(target) {
		p.store.Add(assetstore.CategoryDirectories, dir, target)
	}
}

func isUnresolvedOrError(status int) bool {
	if status >= 400 {
		return true
	}
	if status >= 300 && status < 400 {
		return true
	}
	return false
}

func (p *Pool) extract(resp fetcher.Response, entry frontier.FrontierEntry) {
	raw := resp.FinalURL
	if raw == "" {
		raw = entry.URL()
	}
	base, err := url.Parse(raw)
	if err != nil {
		return
	}

	sourceURL := resp.FinalURL
	if sourceURL == "" {
		sourceURL = entry.URL()
	}

	mediaType := mediaTypeOf(resp.ContentType())
	switch {
	case strings.HasSuffix(base.Path, ".map"):
		p.sourceMap.Extract(resp.Body, base, sourceURL, p.gate)
	case isHTML(mediaType):
		if err := p.dom.Extract(resp.Body, base, sourceURL, entry.Depth(), p.gate); err != nil {
			p.logger.Debug().Err(err).Str("url", sourceURL).Msg("dom extraction failed")
		}
	case isJSON(mediaType):
		p.regex.Extract(resp.Body, base, sourceURL, p.gate)
		if value, ok := extractor.ParseJSON(resp.Body); ok {
			p.json.Walk(value, base, sourceURL, p.gate)
		}
	case isJavaScript(mediaType):
		p.regex.Extract(resp.Body, base, sourceURL, p.gate)
	}
}

func (p *Pool) detectTech(resp fetcher.Response) {
	for _, tech := range extractor.DetectTech(resp.Headers, resp.Body) {
		p.store.Add(assetstore.CategoryTech, tech, resp.FinalURL)
	}
}

func mediaTypeOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return strings.ToLower(mt)
}

func isHTML(mediaType string) bool {
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func isJSON(mediaType string) bool {
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func isJavaScript(mediaType string) bool {
	switch mediaType {
	case "application/javascript", "text/javascript", "application/ecmascript":
		return true
	}
	return false
}
