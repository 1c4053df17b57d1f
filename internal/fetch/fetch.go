// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves faculty pages and turns their HTML into plain text
// suitable for structured extraction.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/pdiddy/faculty-scout/internal/httputil"
)

// PageFetcher returns the raw body of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// HTTPFetcher fetches pages through the shared rate-limited client.
type HTTPFetcher struct {
	Client *httputil.Client
	Logger *slog.Logger
}

// Fetch retrieves pageURL. Any failure is returned as an error; callers treat
// it as empty content.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid URL %q", pageURL)
	}

	body, err := f.Client.Get(ctx, pageURL, nil)
	if err != nil {
		if f.Logger != nil {
			f.Logger.Warn("page fetch failed", "url", pageURL, "error", err)
		}
		return "", err
	}
	return string(body), nil
}

// Text fetches pageURL and returns its cleaned text, or "" on any failure.
func Text(ctx context.Context, f PageFetcher, pageURL string) string {
	raw, err := f.Fetch(ctx, pageURL)
	if err != nil {
		return ""
	}
	text, err := Clean(raw)
	if err != nil {
		return ""
	}
	return text
}
