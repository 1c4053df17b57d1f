// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package judge decides how far a locked author can be trusted. A local
// affiliation check and structural verdicts short-circuit; everything else
// goes to a content judge comparing the scraped profile with the candidate's
// publications.
package judge

import (
	"context"
	"log/slog"

	"github.com/pdiddy/faculty-scout/internal/match"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// ReasonHardMatch is the reason given when the affiliation check succeeds.
const ReasonHardMatch = "Affiliation Hard Match"

// ContentJudge compares a person's profile text with a candidate's record.
type ContentJudge interface {
	JudgeContent(ctx context.Context, person types.ScrapedPerson, author *types.DetailedAuthor, affiliation string) (types.ConfidenceResult, error)
}

// Judge produces a ConfidenceResult for a verdict.
type Judge struct {
	content ContentJudge
	logger  *slog.Logger
}

// New returns a Judge that consults content when structural evidence is
// missing. content may be nil, in which case such verdicts are Low.
func New(content ContentJudge, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{content: content, logger: logger}
}

// Judge rates the verdict for person against affiliation. It never fails:
// errors and panics in the content judge yield Low.
func (j *Judge) Judge(ctx context.Context, person types.ScrapedPerson, verdict types.MatchVerdict, affiliation string) (result types.ConfidenceResult) {
	author := verdict.LockedAuthor
	if author == nil {
		return types.ConfidenceResult{Confidence: types.ConfidenceLow, Reason: "No candidate author locked"}
	}

	if match.AffiliationMatch(author.Affiliations, affiliation) {
		return types.ConfidenceResult{Confidence: types.ConfidenceHigh, Reason: ReasonHardMatch}
	}

	if verdict.Structural() {
		return types.ConfidenceResult{Confidence: types.ConfidenceHigh, Reason: structuralReason(verdict.VerificationStatus)}
	}

	if j.content == nil {
		return types.ConfidenceResult{Confidence: types.ConfidenceLow, Reason: "No content judge configured"}
	}

	defer func() {
		if r := recover(); r != nil {
			j.logger.Warn("content judge panicked", "name", person.Name, "panic", r)
			result = types.ConfidenceResult{Confidence: types.ConfidenceLow, Reason: "Judge failure"}
		}
	}()

	res, err := j.content.JudgeContent(ctx, person, author, affiliation)
	if err != nil {
		j.logger.Warn("content judge failed", "name", person.Name, "error", err)
		return types.ConfidenceResult{Confidence: types.ConfidenceLow, Reason: "Judge failure: " + err.Error()}
	}
	if _, ok := types.ParseConfidence(string(res.Confidence)); !ok {
		j.logger.Warn("content judge returned unknown confidence", "name", person.Name, "confidence", res.Confidence)
		return types.ConfidenceResult{Confidence: types.ConfidenceLow, Reason: "Unparseable judgment"}
	}
	return res
}

func structuralReason(s types.VerificationStatus) string {
	switch s {
	case types.VerifiedByAnchorPaper:
		return "Anchor Publication Match"
	case types.VerifiedByQueryUni:
		return "University Affiliation Match (affiliation query)"
	case types.VerifiedByQueryKeywordUniMatch:
		return "University Affiliation Match (keyword query)"
	case types.VerifiedByQueryKeyword:
		return "Keyword Affiliation Match (keyword query)"
	case types.VerifiedByRerankUni:
		return "University Affiliation Match (name-only re-rank)"
	case types.VerifiedByRerankKeyword:
		return "Keyword Affiliation Match (name-only re-rank)"
	default:
		return "Structural Match (" + string(s) + ")"
	}
}
