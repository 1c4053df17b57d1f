// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

// Stage identifies which query of the staged search produced a candidate.
type Stage int

const (
	// StageAffiliation queries "name affiliation".
	StageAffiliation Stage = iota + 1
	// StageKeyword queries "name keyword" when a keyword is configured.
	StageKeyword
	// StageNameOnly queries the bare name and relies on re-ranking.
	StageNameOnly
)

func (s Stage) String() string {
	switch s {
	case StageAffiliation:
		return "affiliation"
	case StageKeyword:
		return "keyword"
	case StageNameOnly:
		return "name_only"
	default:
		return "unknown"
	}
}

// Query is one planned author search.
type Query struct {
	Stage Stage
	Text  string
	Limit int
}

// StageResult is the outcome of running one Query. Err is set when the API
// call produced no result; Candidates is then empty.
type StageResult struct {
	Query      Query
	Candidates []types.CandidateAuthor
	Err        error
}

// AuthorAPI is the subset of the Semantic Scholar client the searcher needs.
type AuthorAPI interface {
	SearchAuthors(ctx context.Context, query string, limit int) ([]types.CandidateAuthor, error)
	AuthorDetails(ctx context.Context, authorID string) (*types.DetailedAuthor, error)
}

// Searcher runs increasingly permissive author queries for one person.
type Searcher struct {
	api    AuthorAPI
	cfg    types.ScholarConfig
	logger *slog.Logger
}

// NewSearcher returns a Searcher backed by api.
func NewSearcher(api AuthorAPI, cfg types.ScholarConfig, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{api: api, cfg: cfg, logger: logger}
}

// Plan returns the queries for a person in the order they are tried.
// Stages without input (no affiliation, no keyword) are skipped.
func (s *Searcher) Plan(name, affiliation, keyword string) []Query {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	affiliation = strings.TrimSpace(affiliation)
	keyword = strings.TrimSpace(keyword)

	var plan []Query
	if affiliation != "" {
		plan = append(plan, Query{Stage: StageAffiliation, Text: name + " " + affiliation, Limit: orDefault(s.cfg.AffiliationLimit, 5)})
	}
	if keyword != "" {
		plan = append(plan, Query{Stage: StageKeyword, Text: name + " " + keyword, Limit: orDefault(s.cfg.KeywordLimit, 5)})
	}
	plan = append(plan, Query{Stage: StageNameOnly, Text: name, Limit: orDefault(s.cfg.NameOnlyLimit, 10)})
	return plan
}

// Run executes the planned queries in order and hands each result to visit.
// It stops as soon as visit reports the person resolved, or when ctx ends.
// A failed query is passed to visit with Err set and never aborts the run.
func (s *Searcher) Run(ctx context.Context, name, affiliation, keyword string, visit func(StageResult) bool) error {
	for _, q := range s.Plan(name, affiliation, keyword) {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Debug("author search", "stage", q.Stage, "query", q.Text, "limit", q.Limit)
		cands, err := s.api.SearchAuthors(ctx, q.Text, q.Limit)
		if err != nil {
			s.logger.Warn("author search returned no result", "stage", q.Stage, "query", q.Text, "error", err)
			cands = nil
		}
		if visit(StageResult{Query: q, Candidates: cands, Err: err}) {
			return nil
		}
	}
	return nil
}

// Details fetches the publication record of one candidate.
func (s *Searcher) Details(ctx context.Context, authorID string) (*types.DetailedAuthor, error) {
	return s.api.AuthorDetails(ctx, authorID)
}

// Search runs the whole plan without a resolution test and returns every
// distinct candidate in stage order. It backs the authors command.
func (s *Searcher) Search(ctx context.Context, name, affiliation, keyword string) ([]types.CandidateAuthor, error) {
	seen := make(map[string]bool)
	var out []types.CandidateAuthor
	err := s.Run(ctx, name, affiliation, keyword, func(r StageResult) bool {
		for _, c := range r.Candidates {
			if !seen[c.AuthorID] {
				seen[c.AuthorID] = true
				out = append(out, c)
			}
		}
		return false
	})
	return out, err
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
