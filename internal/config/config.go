package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config is the immutable run configuration. It is built once by the Seed
// Controller before any worker starts and never mutated afterward.
type Config struct {
	//===============
	// Target
	//===============
	// target is the root domain of the scan, without scheme (e.g. "example.com").
	target string

	//===============
	// Limits
	//===============
	// threads is the number of concurrent crawl workers.
	threads int
	// maxDepth is the maximum number of hops from a seed URL.
	maxDepth int

	//===============
	// Discovery sources
	//===============
	useWayback bool
	useSitemap bool

	//===============
	// Fetch
	//===============
	timeoutSeconds time.Duration
	ignoreSSL      bool
	proxy          string
	userAgent      string

	//===============
	// Politeness
	//===============
	jitterSeconds float64

	//===============
	// Output
	//===============
	categoryFilter map[string]struct{} // empty/nil means all categories
	outputPath     string
	verbose        bool
}

type configDTO struct {
	Target         string   `json:"target"`
	Threads        int      `json:"threads,omitempty"`
	MaxDepth       int      `json:"maxDepth,omitempty"`
	UseWayback     bool     `json:"useWayback,omitempty"`
	UseSitemap     bool     `json:"useSitemap,omitempty"`
	TimeoutSeconds float64  `json:"timeoutSeconds,omitempty"`
	IgnoreSSL      bool     `json:"ignoreSsl,omitempty"`
	Proxy          string   `json:"proxy,omitempty"`
	UserAgent      string   `json:"userAgent,omitempty"`
	JitterSeconds  float64  `json:"jitterSeconds,omitempty"`
	CategoryFilter []string `json:"categoryFilter,omitempty"`
	OutputPath     string   `json:"outputPath,omitempty"`
	Verbose        bool     `json:"verbose,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg, err := WithDefault(dto.Target).Build()
	if err != nil {
		return Config{}, err
	}

	if dto.Threads != 0 {
		cfg.threads = dto.Threads
	}
	if dto.MaxDepth != 0 {
		cfg.maxDepth = dto.MaxDepth
	}
	cfg.useWayback = dto.UseWayback
	cfg.useSitemap = dto.UseSitemap
	if dto.TimeoutSeconds != 0 {
		cfg.timeoutSeconds = time.Duration(dto.TimeoutSeconds * float64(time.Second))
	}
	cfg.ignoreSSL = dto.IgnoreSSL
	if dto.Proxy != "" {
		cfg.proxy = dto.Proxy
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.JitterSeconds != 0 {
		cfg.jitterSeconds = dto.JitterSeconds
	}
	if len(dto.CategoryFilter) > 0 {
		cfg.categoryFilter = toSet(dto.CategoryFilter)
	}
	if dto.OutputPath != "" {
		cfg.outputPath = dto.OutputPath
	}
	cfg.verbose = dto.Verbose

	return cfg, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// WithConfigFile loads a Config from a JSON file on disk, layering it over
// the defaults produced by WithDefault.
func WithConfigFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	var dto configDTO
	if err := json.Unmarshal(content, &dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(dto)
}

// WithDefault creates a new Config builder seeded with target and default
// values for everything else. target is mandatory and must not be empty.
func WithDefault(target string) *Config {
	return &Config{
		target:         target,
		threads:        10,
		maxDepth:       5,
		useWayback:     false,
		useSitemap:     true,
		timeoutSeconds: 15 * time.Second,
		ignoreSSL:      true,
		proxy:          "",
		userAgent:      "reconcrawler/1.0",
		jitterSeconds:  0.5,
		categoryFilter: nil,
		outputPath:     "report.json",
		verbose:        false,
	}
}

func (c *Config) WithThreads(threads int) *Config {
	c.threads = threads
	return c
}

func (c *Config) WithMaxDepth(depth int) *Config {
	c.maxDepth = depth
	return c
}

func (c *Config) WithUseWayback(use bool) *Config {
	c.useWayback = use
	return c
}

func (c *Config) WithUseSitemap(use bool) *Config {
	c.useSitemap = use
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeoutSeconds = timeout
	return c
}

func (c *Config) WithIgnoreSSL(ignore bool) *Config {
	c.ignoreSSL = ignore
	return c
}

func (c *Config) WithProxy(proxy string) *Config {
	c.proxy = proxy
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithJitterSeconds(jitter float64) *Config {
	c.jitterSeconds = jitter
	return c
}

func (c *Config) WithCategoryFilter(categories []string) *Config {
	if len(categories) == 0 {
		c.categoryFilter = nil
		return c
	}
	c.categoryFilter = toSet(categories)
	return c
}

func (c *Config) WithOutputPath(path string) *Config {
	c.outputPath = path
	return c
}

func (c *Config) WithVerbose(verbose bool) *Config {
	c.verbose = verbose
	return c
}

func (c *Config) Build() (Config, error) {
	if c.target == "" {
		return Config{}, fmt.Errorf("%w: target cannot be empty", ErrInvalidConfig)
	}
	if c.threads <= 0 {
		return Config{}, fmt.Errorf("%w: threads must be positive", ErrInvalidConfig)
	}
	if c.jitterSeconds < 0 {
		return Config{}, fmt.Errorf("%w: jitterSeconds must be >= 0", ErrInvalidConfig)
	}
	return *c, nil
}

func (c Config) Target() string {
	return c.target
}

func (c Config) Threads() int {
	return c.threads
}

func (c Config) MaxDepth() int {
	return c.maxDepth
}

func (c Config) UseWayback() bool {
	return c.useWayback
}

func (c Config) UseSitemap() bool {
	return c.useSitemap
}

func (c Config) Timeout() time.Duration {
	return c.timeoutSeconds
}

func (c Config) IgnoreSSL() bool {
	return c.ignoreSSL
}

func (c Config) Proxy() string {
	return c.proxy
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) JitterSeconds() float64 {
	return c.jitterSeconds
}

// CategoryFilter returns the active category filter. A nil/empty result
// means all categories are active.
func (c Config) CategoryFilter() map[string]struct{} {
	if c.categoryFilter == nil {
		return nil
	}
	out := make(map[string]struct{}, len(c.categoryFilter))
	for k, v := range c.categoryFilter {
		out[k] = v
	}
	return out
}

func (c Config) OutputPath() string {
	return c.outputPath
}

func (c Config) Verbose() bool {
	return c.verbose
}
