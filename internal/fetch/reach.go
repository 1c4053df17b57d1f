// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"log/slog"
	"net/http"
)

// Prober issues status-only requests. *httputil.Client satisfies it.
type Prober interface {
	Head(ctx context.Context, rawURL string) (int, error)
	Status(ctx context.Context, rawURL string) (int, error)
}

// Reachability is the outcome of probing a sample of profile links.
type Reachability struct {
	Checked  []string
	NotFound []string
	Errors   []string
}

// AllNotFound reports whether every checked link answered 404.
func (r Reachability) AllNotFound() bool {
	return len(r.Checked) > 0 && len(r.NotFound) == len(r.Checked)
}

// SampleLinks picks up to n links spread evenly across links.
func SampleLinks(links []string, n int) []string {
	if n <= 0 || len(links) == 0 {
		return nil
	}
	if n >= len(links) {
		return append([]string(nil), links...)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = links[i*len(links)/n]
	}
	return out
}

// CheckReachability probes a sample of links with HEAD, confirming a 404 with
// GET since some servers reject HEAD. Connection failures and other error
// statuses are recorded but do not count as 404.
func CheckReachability(ctx context.Context, p Prober, links []string, sample int, logger *slog.Logger) Reachability {
	if logger == nil {
		logger = slog.Default()
	}

	var r Reachability
	for _, link := range SampleLinks(links, sample) {
		r.Checked = append(r.Checked, link)

		code, err := p.Head(ctx, link)
		if err == nil && code == http.StatusNotFound {
			code, err = p.Status(ctx, link)
		}
		switch {
		case err != nil:
			logger.Warn("link check failed", "url", link, "error", err)
			r.Errors = append(r.Errors, link)
		case code == http.StatusNotFound:
			logger.Warn("profile link not found", "url", link)
			r.NotFound = append(r.NotFound, link)
		case code >= 400:
			logger.Warn("profile link error", "url", link, "status", code)
			r.Errors = append(r.Errors, link)
		}
	}
	return r
}
