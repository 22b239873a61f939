// Package fetcher implements the HTTP Fetcher: GET/HEAD with a
// bounded timeout, redirect following, optional proxy, TLS verification
// toggle, and the random pre-request jitter sleep. It never parses a
// response body — that is the Extractors' job once the Worker has routed a
// Response to them.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-recon/reconcrawler/pkg/limiter"
)

const maxRedirects = 10
const connectTimeout = 10 * time.Second

// userAgentPool is the fixed set of browser-like User-Agent strings the
// Fetcher samples from uniformly at random per request
var userAgentPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
}

// decodableContentTypePrefixes lists the Content-Type prefixes eligible for
// body decoding; anything else (images, fonts, archives, video)
// yields an empty body even on a 200 OK.
var decodableContentTypePrefixes = []string{
	"text/",
	"application/json",
	"application/xml",
	"application/javascript",
}

// Options configures a Fetcher. Timeout and JitterSeconds come directly
// from the run Configuration; ProxyURL and IgnoreSSL are optional.
type Options struct {
	Timeout       time.Duration
	IgnoreSSL     bool
	ProxyURL      string
	JitterSeconds float64
}

// Fetcher performs GET/HEAD requests against the open web on behalf of the
// worker pool.
type Fetcher struct {
	client        *http.Client
	jitterSeconds float64
	hosts         *limiter.HostLimiter

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New builds a Fetcher from opts. An invalid ProxyURL is reported
// immediately rather than silently ignored, matching configuration-
// error-at-startup policy.
func New(opts Options) (*Fetcher, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.IgnoreSSL}, //nolint:gosec // reconnaissance tool, verification is opt-in
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
	}
	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: stopped after %d redirects", errRedirectLimit, maxRedirects)
			}
			return nil
		},
	}

	return &Fetcher{
		client:        client,
		jitterSeconds: opts.JitterSeconds,
		hosts:         limiter.NewHostLimiter(0),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SetCrawlDelay paces every future request to host at least delay apart,
// typically sourced from a robots.txt Crawl-delay directive discovered by
// the Seed Controller. Hosts with no declared delay stay unpaced beyond the
// per-request jitter sleep.
func (f *Fetcher) SetCrawlDelay(host string, delay time.Duration) {
	f.hosts.SetCrawlDelay(host, delay)
}

var errRedirectLimit = errors.New("redirect limit")

// HTTPClient returns the underlying client, already configured with this
// run's timeout, proxy, and TLS settings, so the Seed Controller can hand
// the same transport to the Robots/Sitemap and Wayback ingesters instead of
// building a second one.
func (f *Fetcher) HTTPClient() *http.Client {
	return f.client
}

// randomUserAgent picks one User-Agent uniformly at random from the pool.
func (f *Fetcher) randomUserAgent() string {
	f.rngMu.Lock()
	defer f.rngMu.Unlock()
	return userAgentPool[f.rng.Intn(len(userAgentPool))]
}

// jitterSleep blocks for a uniform random duration in [0, jitterSeconds]
// before a request. It respects ctx cancellation.
func (f *Fetcher) jitterSleep(ctx context.Context) {
	if f.jitterSeconds <= 0 {
		return
	}
	f.rngMu.Lock()
	delay := time.Duration(f.rng.Float64() * f.jitterSeconds * float64(time.Second))
	f.rngMu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func setBrowserHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
}

// Get performs a GET against rawURL. It never returns a transport error for
// a non-2xx/3xx status code — the Worker is responsible for
// inspecting Response.Status and classifying accordingly — only genuine
// transport-layer failures (DNS, connect, TLS, timeout, redirect overflow)
// come back as a *Error.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (Response, error) {
	f.jitterSleep(ctx)
	return f.do(ctx, http.MethodGet, rawURL, true)
}

// Head performs a HEAD against rawURL, used for an optional content-type
// prefetch. HEAD failures must be treated by the caller as "this looks like
// HTML" rather than propagated as fatal.
func (f *Fetcher) Head(ctx context.Context, rawURL string) (Response, error) {
	return f.do(ctx, http.MethodHead, rawURL, false)
}

func (f *Fetcher) do(ctx context.Context, method, rawURL string, decodeBody bool) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return Response{}, &Error{URL: rawURL, Cause: CauseNetworkFailure, Wrapped: err}
	}
	setBrowserHeaders(req, f.randomUserAgent())

	if err := f.hosts.Wait(ctx, req.URL.Host); err != nil {
		return Response{}, &Error{URL: rawURL, Cause: CauseTimeout, Wrapped: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Response{}, classifyTransportError(rawURL, err)
	}
	defer resp.Body.Close()

	result := Response{
		FinalURL:  resp.Request.URL.String(),
		Headers:   resp.Header,
		Status:    resp.StatusCode,
		FetchedAt: time.Now().UTC(),
	}

	if !decodeBody || !isDecodable(resp.Header.Get("Content-Type")) {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1)) //nolint:errcheck // draining for keep-alive reuse
		return result, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &Error{URL: rawURL, Cause: CauseReadBodyFailed, Wrapped: err}
	}
	result.Body = strings.ToValidUTF8(string(body), "�")
	return result, nil
}

func isDecodable(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	for _, prefix := range decodableContentTypePrefixes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

func classifyTransportError(rawURL string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return &Error{URL: rawURL, Cause: CauseTimeout, Wrapped: err}
	}
	if errors.Is(err, errRedirectLimit) {
		return &Error{URL: rawURL, Cause: CauseRedirectLimit, Wrapped: err}
	}
	var tlsErr *tls.RecordHeaderError
	if errors.As(err, &tlsErr) {
		return &Error{URL: rawURL, Cause: CauseTLSFailure, Wrapped: err}
	}
	return &Error{URL: rawURL, Cause: CauseNetworkFailure, Wrapped: err}
}

type timeouter interface {
	Timeout() bool
}

func isTimeout(err error) bool {
	var t timeouter
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return false
}
