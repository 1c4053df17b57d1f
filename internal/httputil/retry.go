// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the rate-limited HTTP client shared by every
// component that talks to remote services.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RetryPolicy controls how DoWithRetry reacts to HTTP 429 responses.
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first 429.
	MaxRetries int

	// Wait is the fixed pause before each retry.
	Wait time.Duration
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) after a fixed wait. Any other status, and any transport error,
// is returned immediately. Before each wait the limiter (when non-nil) is
// paused for the request host so concurrent callers back off together.
//
// If the context is cancelled during a wait the function returns ctx.Err().
// After exhausting retries the last 429 response is returned so the caller
// can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy, limiter *Limiter, logger *slog.Logger) (*http.Response, error) {
	if logger == nil {
		logger = slog.Default()
	}
	host := req.URL.Host

	for attempt := 0; ; attempt++ {
		if err := limiter.Wait(ctx, host); err != nil {
			return nil, err
		}

		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		if attempt >= policy.MaxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		limiter.Pause(host, policy.Wait)
		logger.Warn("rate limited, retrying",
			"url", req.URL.String(), "wait", policy.Wait,
			"attempt", attempt+1, "max_attempts", policy.MaxRetries+1)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(policy.Wait):
		}
	}
}
