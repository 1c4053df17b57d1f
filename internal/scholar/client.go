// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar talks to the Semantic Scholar Graph API and runs the staged
// author search used to find candidate identities for a scraped person.
package scholar

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/faculty-scout/internal/httputil"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// Field lists stay flat. Dotted sub-fields (papers.title) are rejected with a
// 400 by some deployments, so papers come from their own endpoint.
const (
	authorFields           = "authorId,name,affiliations,paperCount,citationCount"
	paperFields            = "title,year,citationCount,tldr"
	paperFieldsWithoutTLDR = "title,year,citationCount"
)

// Client is the Semantic Scholar author API boundary.
type Client struct {
	http       *httputil.Client
	baseURL    string
	paperLimit int
	logger     *slog.Logger
}

// NewClient builds a Client that sends requests through the shared limiter.
func NewClient(cfg types.ScholarConfig, httpCfg types.HTTPConfig, limiter *httputil.Limiter, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	hc, err := httputil.NewClient(httputil.ClientConfig{
		HTTP:           httpCfg,
		APIKey:         cfg.APIKey,
		MaxRetries:     cfg.MaxRetries,
		WaitWithKey:    cfg.RetryWaitWithKey,
		WaitWithoutKey: cfg.RetryWaitWithoutKey,
		Limiter:        limiter,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("semantic scholar client: %w", err)
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = types.DefaultConfig().Scholar.BaseURL
	}
	limit := cfg.PaperLimit
	if limit <= 0 {
		limit = 25
	}
	return &Client{http: hc, baseURL: base, paperLimit: limit, logger: logger}, nil
}

// SearchAuthors runs a free-text author search and returns up to limit
// candidates in API rank order. A failed call returns a *httputil.Failure.
func (c *Client) SearchAuthors(ctx context.Context, query string, limit int) ([]types.CandidateAuthor, error) {
	if limit <= 0 {
		limit = 1
	}
	params := url.Values{
		"query":  {query},
		"fields": {authorFields},
		"limit":  {strconv.Itoa(limit)},
	}

	var sr authorSearchResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/author/search", params, &sr); err != nil {
		return nil, err
	}

	out := make([]types.CandidateAuthor, 0, len(sr.Data))
	for _, a := range sr.Data {
		if a.AuthorID == "" {
			c.logger.Warn("dropping author without id", "query", query, "name", a.Name)
			continue
		}
		out = append(out, a.candidate())
	}
	return out, nil
}

// AuthorDetails fetches an author's profile and publication list. Papers are
// requested with tldr first and without it when that call fails.
func (c *Client) AuthorDetails(ctx context.Context, authorID string) (*types.DetailedAuthor, error) {
	authorURL := c.baseURL + "/author/" + url.PathEscape(authorID)

	var a s2Author
	if err := c.http.GetJSON(ctx, authorURL, url.Values{"fields": {authorFields}}, &a); err != nil {
		return nil, err
	}

	papers, err := c.papers(ctx, authorURL, paperFields)
	if err != nil {
		c.logger.Debug("paper fetch with tldr failed, retrying without", "author_id", authorID, "error", err)
		papers, err = c.papers(ctx, authorURL, paperFieldsWithoutTLDR)
		if err != nil {
			return nil, fmt.Errorf("fetching papers for author %s: %w", authorID, err)
		}
	}

	cand := a.candidate()
	if cand.AuthorID == "" {
		cand.AuthorID = authorID
	}
	return &types.DetailedAuthor{CandidateAuthor: cand, Papers: papers}, nil
}

func (c *Client) papers(ctx context.Context, authorURL, fields string) ([]types.Paper, error) {
	params := url.Values{
		"fields": {fields},
		"limit":  {strconv.Itoa(c.paperLimit)},
	}
	var pr paperListResponse
	if err := c.http.GetJSON(ctx, authorURL+"/papers", params, &pr); err != nil {
		return nil, err
	}

	papers := make([]types.Paper, 0, len(pr.Data))
	for _, p := range pr.Data {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		paper := types.Paper{Title: p.Title, CitationCount: p.CitationCount}
		if p.Year != nil {
			paper.Year = *p.Year
		}
		if p.TLDR != nil {
			paper.TLDR = p.TLDR.Text
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

// Semantic Scholar API JSON structures.
type authorSearchResponse struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Data   []s2Author `json:"data"`
}

type s2Author struct {
	AuthorID      string   `json:"authorId"`
	Name          string   `json:"name"`
	Affiliations  []string `json:"affiliations"`
	PaperCount    int      `json:"paperCount"`
	CitationCount int      `json:"citationCount"`
}

func (a s2Author) candidate() types.CandidateAuthor {
	return types.CandidateAuthor{
		AuthorID:      a.AuthorID,
		Name:          a.Name,
		Affiliations:  a.Affiliations,
		PaperCount:    a.PaperCount,
		CitationCount: a.CitationCount,
	}
}

type paperListResponse struct {
	Data []s2Paper `json:"data"`
}

type s2Paper struct {
	PaperID       string  `json:"paperId"`
	Title         string  `json:"title"`
	Year          *int    `json:"year"`
	CitationCount *int    `json:"citationCount"`
	TLDR          *s2TLDR `json:"tldr"`
}

type s2TLDR struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}
