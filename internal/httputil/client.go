// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

// FailureKind classifies why a call produced no result.
type FailureKind int

const (
	// KindNetwork covers transport errors: DNS, refused connections, timeouts.
	KindNetwork FailureKind = iota + 1
	// KindRateLimited means HTTP 429 persisted after every retry.
	KindRateLimited
	// KindStatus is any other non-200 response.
	KindStatus
	// KindMalformed means the body could not be decoded.
	KindMalformed
)

func (k FailureKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRateLimited:
		return "rate_limited"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Failure is the "no result" outcome of a call. Callers treat it as a normal
// result, never as a reason to abort a batch.
type Failure struct {
	Kind       FailureKind
	URL        string
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	switch {
	case f.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d from %s", f.Kind, f.StatusCode, f.URL)
	case f.Err != nil:
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.URL, f.Err)
	default:
		return fmt.Sprintf("%s: %s", f.Kind, f.URL)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// IsKind reports whether err is a *Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}

// ClientConfig configures a Client.
type ClientConfig struct {
	HTTP types.HTTPConfig

	// APIKey is sent as the x-api-key header when non-empty.
	APIKey string

	// MaxRetries is the number of additional attempts after a 429.
	MaxRetries int

	// WaitWithKey and WaitWithoutKey are the 429 waits with and without APIKey.
	WaitWithKey    time.Duration
	WaitWithoutKey time.Duration

	// Limiter is shared by every client that talks to the same hosts.
	// Nil means a private limiter built from HTTP.MinInterval.
	Limiter *Limiter

	Logger *slog.Logger
}

// Client issues GET and HEAD requests with an identifying user agent, an
// optional API key, an optional proxy, and bounded retry on HTTP 429.
type Client struct {
	http      *http.Client
	userAgent string
	apiKey    string
	policy    RetryPolicy
	limiter   *Limiter
	logger    *slog.Logger
}

// NewClient builds a Client. It fails only when the proxy URL is invalid.
func NewClient(cfg ClientConfig) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.HTTP.Proxy != "" {
		proxyURL, err := url.Parse(cfg.HTTP.Proxy)
		if err != nil || proxyURL.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q", cfg.HTTP.Proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	userAgent := cfg.HTTP.UserAgent
	if userAgent == "" {
		userAgent = types.DefaultUserAgent
	}

	wait := cfg.WaitWithoutKey
	if cfg.APIKey != "" {
		wait = cfg.WaitWithKey
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = NewLimiter(cfg.HTTP.MinInterval)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:      &http.Client{Timeout: timeout, Transport: transport},
		userAgent: userAgent,
		apiKey:    cfg.APIKey,
		policy:    RetryPolicy{MaxRetries: cfg.MaxRetries, Wait: wait},
		limiter:   limiter,
		logger:    logger,
	}, nil
}

// HasAPIKey reports whether requests carry an API key.
func (c *Client) HasAPIKey() bool { return c.apiKey != "" }

// Get fetches rawURL with params appended and returns the body of a 200
// response. Every other outcome is a *Failure.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	reqURL := rawURL
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &Failure{Kind: KindRateLimited, URL: reqURL, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("request failed", "url", reqURL, "status", resp.StatusCode, "body", string(body))
		return nil, &Failure{Kind: KindStatus, URL: reqURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{Kind: KindNetwork, URL: reqURL, Err: err}
	}
	return body, nil
}

// GetJSON fetches rawURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, v any) error {
	body, err := c.Get(ctx, rawURL, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &Failure{Kind: KindMalformed, URL: rawURL, Err: err}
	}
	return nil
}

// Head issues a HEAD request and returns the status code.
func (c *Client) Head(ctx context.Context, rawURL string) (int, error) {
	resp, err := c.do(ctx, http.MethodHead, rawURL)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// Status issues a GET request and returns only the status code.
func (c *Client) Status(ctx context.Context, rawURL string) (int, error) {
	resp, err := c.do(ctx, http.MethodGet, rawURL)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, &Failure{Kind: KindNetwork, URL: reqURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := DoWithRetry(ctx, c.http, req, c.policy, c.limiter, c.logger)
	if err != nil {
		c.logger.Debug("request error", "url", reqURL, "error", err)
		return nil, &Failure{Kind: KindNetwork, URL: reqURL, Err: err}
	}
	return resp, nil
}
