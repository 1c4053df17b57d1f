// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match locks a single bibliographic author identity for a scraped
// person using anchor publications, affiliation evidence and a configurable
// strictness policy.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/faculty-scout/internal/scholar"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// Searcher runs the staged author search and fetches candidate details.
// *scholar.Searcher satisfies it.
type Searcher interface {
	Run(ctx context.Context, name, affiliation, keyword string, visit func(scholar.StageResult) bool) error
	Details(ctx context.Context, authorID string) (*types.DetailedAuthor, error)
}

// Target is the contextual evidence a person is matched against.
type Target struct {
	Name        string
	Affiliation string
	Keyword     string
	Anchors     []string
}

// Config configures a Matcher.
type Config struct {
	Strictness types.Strictness

	// RecentYears keeps papers whose year is at least the current year
	// minus RecentYears on the locked author.
	RecentYears int

	// Now is the clock used for the recent-paper window. Nil means time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Matcher selects the best-matching author for a person.
type Matcher struct {
	searcher Searcher
	cfg      Config
	logger   *slog.Logger
}

// New returns a Matcher. An empty strictness means strict.
func New(searcher Searcher, cfg Config) *Matcher {
	if cfg.Strictness == "" {
		cfg.Strictness = types.StrictnessStrict
	}
	if cfg.RecentYears <= 0 {
		cfg.RecentYears = 2
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{searcher: searcher, cfg: cfg, logger: logger}
}

// Match searches for t.Name stage by stage and returns the verdict of the
// first stage whose candidates satisfy a rule. Without rule-based evidence a
// permissive matcher trusts the first candidate it saw as needs_manual_check;
// a strict matcher returns a verdict with no locked author.
func (m *Matcher) Match(ctx context.Context, t Target) (types.MatchVerdict, error) {
	details := newDetailCache(m.searcher)

	var (
		verdict types.MatchVerdict
		locked  bool
		first   *types.CandidateAuthor
	)
	err := m.searcher.Run(ctx, t.Name, t.Affiliation, t.Keyword, func(r scholar.StageResult) bool {
		if len(r.Candidates) == 0 {
			return false
		}
		if first == nil {
			first = &r.Candidates[0]
		}

		if v, ok := m.MatchCandidates(ctx, r.Query.Stage, r.Candidates, t, details); ok {
			verdict, locked = v, true
			return true
		}

		// The keyword query is trusted on its own in permissive mode. The
		// lock carries no rule evidence, so it is left for the content judge.
		if m.cfg.Strictness == types.StrictnessPermissive && r.Query.Stage == scholar.StageKeyword {
			m.logger.Info("trusting keyword search result", "name", t.Name, "author_id", r.Candidates[0].AuthorID)
			verdict, locked = m.lock(ctx, r.Candidates[0], types.VerifiedByQueryKeyword, details), true
			verdict.TrustedByQuery = true
			return true
		}
		return false
	})
	if err != nil {
		return types.MatchVerdict{VerificationStatus: types.NeedsManualCheck}, err
	}
	if locked {
		return verdict, nil
	}

	if m.cfg.Strictness == types.StrictnessPermissive && first != nil {
		m.logger.Info("no rule matched, using first candidate", "name", t.Name, "author_id", first.AuthorID)
		return m.lock(ctx, *first, types.NeedsManualCheck, details), nil
	}

	m.logger.Info("no author locked", "name", t.Name, "strictness", m.cfg.Strictness)
	return types.MatchVerdict{VerificationStatus: types.NeedsManualCheck}, nil
}

// MatchCandidates applies the matching rules to the candidates of one stage,
// rule by rule in priority order, each rule over all candidates in rank order:
// anchor publication, then university affiliation, then keyword affiliation.
// A university match anywhere in the stage therefore beats a keyword match
// on a higher-ranked candidate; a candidate-major walk would pick the latter.
// details may be nil.
func (m *Matcher) MatchCandidates(ctx context.Context, stage scholar.Stage, candidates []types.CandidateAuthor, t Target, details *DetailCache) (types.MatchVerdict, bool) {
	if details == nil {
		details = newDetailCache(m.searcher)
	}

	if len(t.Anchors) > 0 {
		for _, c := range candidates {
			d, err := details.get(ctx, c.AuthorID)
			if err != nil {
				m.logger.Debug("skipping anchor check", "author_id", c.AuthorID, "error", err)
				continue
			}
			if AnchorMatch(paperTitles(d.Papers), t.Anchors) {
				m.logger.Info("anchor publication match", "name", t.Name, "author_id", c.AuthorID)
				return m.lock(ctx, c, types.VerifiedByAnchorPaper, details), true
			}
		}
	}

	if status, ok := universityStatus(stage); ok {
		for _, c := range candidates {
			if AffiliationMatch(c.Affiliations, t.Affiliation) {
				m.logger.Info("affiliation match", "name", t.Name, "author_id", c.AuthorID, "status", status)
				return m.lock(ctx, c, status, details), true
			}
		}
	}

	if status, ok := keywordStatus(stage); ok && t.Keyword != "" {
		for _, c := range candidates {
			if AffiliationMatch(c.Affiliations, t.Keyword) {
				m.logger.Info("keyword affiliation match", "name", t.Name, "author_id", c.AuthorID, "status", status)
				return m.lock(ctx, c, status, details), true
			}
		}
	}

	return types.MatchVerdict{}, false
}

func universityStatus(stage scholar.Stage) (types.VerificationStatus, bool) {
	switch stage {
	case scholar.StageAffiliation:
		return types.VerifiedByQueryUni, true
	case scholar.StageKeyword:
		return types.VerifiedByQueryKeywordUniMatch, true
	case scholar.StageNameOnly:
		return types.VerifiedByRerankUni, true
	}
	return "", false
}

func keywordStatus(stage scholar.Stage) (types.VerificationStatus, bool) {
	switch stage {
	case scholar.StageKeyword:
		return types.VerifiedByQueryKeyword, true
	case scholar.StageNameOnly:
		return types.VerifiedByRerankKeyword, true
	}
	return "", false
}

// lock builds a confident verdict for c with its recent papers attached.
// When details cannot be fetched the summary record is locked without papers.
func (m *Matcher) lock(ctx context.Context, c types.CandidateAuthor, status types.VerificationStatus, details *DetailCache) types.MatchVerdict {
	locked := &types.DetailedAuthor{CandidateAuthor: c}
	if d, err := details.get(ctx, c.AuthorID); err != nil {
		m.logger.Warn("author details unavailable", "author_id", c.AuthorID, "error", err)
	} else {
		locked.Papers = RecentPapers(d.Papers, m.cfg.Now(), m.cfg.RecentYears)
		if len(d.Affiliations) > 0 {
			locked.Affiliations = d.Affiliations
		}
	}
	return types.MatchVerdict{
		LockedAuthor:       locked,
		VerificationStatus: status,
		IsConfidentMatch:   true,
	}
}

// RecentPapers returns the papers published in now's year minus years or
// later, in input order. Papers without a year are dropped.
func RecentPapers(papers []types.Paper, now time.Time, years int) []types.Paper {
	cutoff := now.Year() - years
	var out []types.Paper
	for _, p := range papers {
		if p.Year > 0 && p.Year >= cutoff {
			out = append(out, p)
		}
	}
	return out
}

func paperTitles(papers []types.Paper) []string {
	titles := make([]string, len(papers))
	for i, p := range papers {
		titles[i] = p.Title
	}
	return titles
}

// DetailCache fetches each candidate's details at most once per person.
type DetailCache struct {
	searcher Searcher
	entries  map[string]detailEntry
}

type detailEntry struct {
	author *types.DetailedAuthor
	err    error
}

func newDetailCache(s Searcher) *DetailCache {
	return &DetailCache{searcher: s, entries: make(map[string]detailEntry)}
}

func (c *DetailCache) get(ctx context.Context, authorID string) (*types.DetailedAuthor, error) {
	if e, ok := c.entries[authorID]; ok {
		return e.author, e.err
	}
	a, err := c.searcher.Details(ctx, authorID)
	if err == nil && a == nil {
		err = fmt.Errorf("no details for author %s", authorID)
	}
	c.entries[authorID] = detailEntry{author: a, err: err}
	return a, err
}
