// Package scribble reads Scribble Hub pages into typed records. A Client runs
// one query per method call: it consults the cache, fetches the page on a
// miss, assembles records and caches them. Failures are logged and reported
// as a nil result, never as an error.
package scribble

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pevans/scribble/cache"
	"github.com/pevans/scribble/fetch"
	"github.com/pevans/scribble/scraper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL   = "https://www.scribblehub.com"
	DefaultUserAgent = "scribble/1.0 (+https://github.com/pevans/scribble)"
)

// ClientConfig holds configuration for a Client.
type ClientConfig struct {
	// Site root, without a trailing slash
	BaseURL string
	// Sent with every request
	UserAgent string
	// Sent with story page requests only
	Referrer string
	// Timeout per page fetch
	Timeout time.Duration
	// Maximum number of listing fetches in flight
	ListingConcurrency int
	Logger             *slog.Logger
}

// DefaultClientConfig returns the default configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:            DefaultBaseURL,
		UserAgent:          DefaultUserAgent,
		Referrer:           DefaultBaseURL + "/",
		Timeout:            10 * time.Second,
		ListingConcurrency: 1,
	}
}

// Client runs queries against the site. It is safe for concurrent use.
type Client struct {
	fetcher fetch.Fetcher
	cache   *cache.Cache
	layout  *scraper.Layout
	logger  *slog.Logger
	tracer  trace.Tracer

	baseURL string
	timeout time.Duration

	// Listing fetches hold a slot for their whole fetch
	listingSemaphore chan struct{}

	mu        sync.RWMutex
	userAgent string
	referrer  string
}

// NewClient creates a client. A nil cache gets an unbounded one; a nil config
// uses DefaultClientConfig.
func NewClient(fetcher fetch.Fetcher, c *cache.Cache, config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if c == nil {
		c = cache.New(nil)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	concurrency := config.ListingConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Client{
		fetcher:          fetcher,
		cache:            c,
		layout:           scraper.DefaultLayout(),
		logger:           logger,
		tracer:           otel.Tracer("github.com/pevans/scribble"),
		baseURL:          baseURL,
		timeout:          config.Timeout,
		listingSemaphore: make(chan struct{}, concurrency),
		userAgent:        config.UserAgent,
		referrer:         config.Referrer,
	}
}

// Cache returns the client's cache, for toggling categories.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// SetLayout replaces the selectors used to read pages.
func (c *Client) SetLayout(layout *scraper.Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layout = layout
}

// SetUserAgent changes the user agent from the next call on.
func (c *Client) SetUserAgent(ua string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userAgent = ua
}

// UserAgent returns the current user agent.
func (c *Client) UserAgent() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userAgent
}

// SetReferrer changes the referrer sent with story pages from the
// next call on.
func (c *Client) SetReferrer(referrer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.referrer = referrer
}

// Referrer returns the current referrer.
func (c *Client) Referrer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.referrer
}

func (c *Client) currentLayout() *scraper.Layout {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layout
}

// request builds a fetch request carrying the current settings.
func (c *Client) request(url, referrer string) fetch.Request {
	return fetch.Request{
		URL:       url,
		UserAgent: c.UserAgent(),
		Referrer:  referrer,
		Timeout:   c.timeout,
	}
}
