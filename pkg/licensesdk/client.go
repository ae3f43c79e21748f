package licensesdk

import (
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/aussiebroadwan/licensor/pkg/hostx"
	"github.com/sony/gobreaker"
)

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 10 * time.Second

// Environment describes the installation making the calls.
type Environment struct {
	// Runtime defaults to the Go runtime version.
	Runtime       string
	ClientVersion string

	// Domain is the installation's host. When empty it is derived from URL.
	Domain string
	URL    string
}

// Client calls the public license endpoints. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	devBypass  bool
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	env        Environment
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout replaces the default 10s per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient supplies the underlying HTTP client. The client uses a
// shallow copy of hc whose zero Timeout becomes DefaultTimeout; hc itself is
// left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		if cp.Timeout == 0 {
			cp.Timeout = DefaultTimeout
		}
		c.httpClient = &cp
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithDevBypass toggles answering development domains locally. Default: on.
func WithDevBypass(enabled bool) Option {
	return func(c *Client) {
		c.devBypass = enabled
	}
}

// WithBreaker routes calls through a circuit breaker built from st. Network
// errors and 5xx responses count as failures; while open, calls fail fast.
func WithBreaker(st gobreaker.Settings) Option {
	return func(c *Client) {
		c.breaker = gobreaker.NewCircuitBreaker(st)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// DefaultBreakerSettings trips after five consecutive failures and probes
// again after a minute.
func DefaultBreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// New creates a client for the authority at baseURL.
func New(baseURL string, env Environment, opts ...Option) *Client {
	if env.Runtime == "" {
		env.Runtime = runtime.Version()
	}
	if env.Domain == "" {
		env.Domain = env.URL
	}
	env.Domain = hostx.Normalize(env.Domain)

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "licensesdk/" + env.ClientVersion,
		devBypass:  true,
		env:        env,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Domain returns the normalized installation domain sent with every call.
func (c *Client) Domain() string { return c.env.Domain }

func (c *Client) context() ClientContext {
	return ClientContext{
		Runtime:       c.env.Runtime,
		ClientVersion: c.env.ClientVersion,
		URL:           c.env.URL,
	}
}

func (c *Client) bypass() bool {
	return c.devBypass && hostx.IsDevelopment(c.env.Domain)
}
