// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// Retrying repeats failed completions that look transient.
type Retrying struct {
	Client   Client
	Attempts uint
	Delay    time.Duration
	Logger   *slog.Logger
}

// Complete calls the wrapped client, retrying rate limits, server errors and
// transport failures up to Attempts times in total.
func (r *Retrying) Complete(ctx context.Context, req Request) (string, error) {
	attempts := r.Attempts
	if attempts == 0 {
		attempts = 1
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return retry.DoWithData(
		func() (string, error) {
			return r.Client.Complete(ctx, req)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(r.Delay),
		retry.MaxJitter(r.Delay/2+time.Millisecond),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("retrying LLM request", "attempt", n+1, "error", err)
		}),
	)
}

// Close releases the wrapped client's resources when it holds any.
func (r *Retrying) Close() error {
	if c, ok := r.Client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return true
}
