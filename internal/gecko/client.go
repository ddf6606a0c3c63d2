package gecko

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public CoinGecko REST API.
	DefaultBaseURL = "https://api.coingecko.com/api/v3"

	// Range values for market_chart requests.
	daysFullYear = "365"
	daysMax      = "max"
)

// Client provides throttled, retrying access to the CoinGecko REST API.
type Client struct {
	baseURL    string
	apiKey     string
	vsCurrency string
	httpClient *http.Client
	logger     *slog.Logger
	gate       *gate

	retryLimit    int
	backoffStep   time.Duration
	backoffCap    time.Duration
	backoffJitter time.Duration

	marketsTimeout time.Duration
	chartTimeout   time.Duration
	pageSize       int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new API client. Without options it applies the
// production throttle and retry policy.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		vsCurrency: "usd",
		httpClient: &http.Client{},
		logger:     slog.Default(),
		gate:       newGate(3 * time.Second),

		retryLimit:    30,
		backoffStep:   500 * time.Millisecond,
		backoffCap:    8 * time.Second,
		backoffJitter: 300 * time.Millisecond,

		marketsTimeout: 15 * time.Second,
		chartTimeout:   20 * time.Second,
		pageSize:       250,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithMinInterval sets the minimum spacing between upstream calls.
func WithMinInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.gate = newGate(d)
	}
}

// WithRetryLimit sets the attempt ceiling for retryable failures.
func WithRetryLimit(limit int) ClientOption {
	return func(c *Client) {
		c.retryLimit = limit
	}
}

// WithBackoff sets the retry delay policy: delay before retry n is
// min(step*n, cap) plus uniform random jitter.
func WithBackoff(step, cap, jitter time.Duration) ClientOption {
	return func(c *Client) {
		c.backoffStep = step
		c.backoffCap = cap
		c.backoffJitter = jitter
	}
}

// WithTimeouts sets the per-call timeouts for market list and chart requests.
func WithTimeouts(markets, chart time.Duration) ClientOption {
	return func(c *Client) {
		c.marketsTimeout = markets
		c.chartTimeout = chart
	}
}

// WithVsCurrency sets the quote currency for all requests.
func WithVsCurrency(currency string) ClientOption {
	return func(c *Client) {
		c.vsCurrency = currency
	}
}

// WithPageSize sets the market list page size.
func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		c.pageSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
