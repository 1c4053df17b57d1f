// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve drives the per-person pipeline: match an author identity,
// judge it, pick a summarization source and assemble the report row. Every
// fallback transition is recorded as a Step so each branch is observable.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/faculty-scout/internal/match"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// Matcher locks an author identity for a person.
type Matcher interface {
	Match(ctx context.Context, t match.Target) (types.MatchVerdict, error)
}

// Judge rates a verdict. It must not fail.
type Judge interface {
	Judge(ctx context.Context, person types.ScrapedPerson, verdict types.MatchVerdict, affiliation string) types.ConfidenceResult
}

// Summarizer writes research summaries. An empty string with a nil error
// means there was nothing to summarize.
type Summarizer interface {
	FromPapers(ctx context.Context, name string, papers []types.Paper) (string, error)
	FromBio(ctx context.Context, name, bio string) (string, error)
}

// StepStatus is the outcome of one pipeline step.
type StepStatus string

const (
	StepOK     StepStatus = "ok"
	StepEmpty  StepStatus = "empty"
	StepFailed StepStatus = "failed"
)

// Step names.
const (
	StepMatch           = "match"
	StepJudge           = "judge"
	StepPapers          = "papers"
	StepSummarizePapers = "summarize_papers"
	StepSummarizeBio    = "summarize_bio"
	StepRecover         = "recover"
)

// Step records one transition of the fallback chain.
type Step struct {
	Name   string     `json:"name" yaml:"name"`
	Status StepStatus `json:"status" yaml:"status"`
	Detail string     `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Result is everything the pipeline decided for one person.
type Result struct {
	Person     types.ScrapedPerson    `json:"person" yaml:"person"`
	Row        types.OutputRow        `json:"row" yaml:"row"`
	Verdict    types.MatchVerdict     `json:"verdict" yaml:"verdict"`
	Confidence types.ConfidenceResult `json:"confidence" yaml:"confidence"`
	Trace      []Step                 `json:"trace" yaml:"trace"`
}

func (r *Result) step(name string, status StepStatus, detail string) {
	r.Trace = append(r.Trace, Step{Name: name, Status: status, Detail: detail})
}

// Orchestrator runs the fallback chain for one person at a time. It is safe
// for concurrent use when its collaborators are.
type Orchestrator struct {
	matcher    Matcher
	judge      Judge
	summarizer Summarizer
	logger     *slog.Logger
}

// New returns an Orchestrator.
func New(m Matcher, j Judge, s Summarizer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{matcher: m, judge: j, summarizer: s, logger: logger}
}

// Resolve produces the report row for person. It never fails: collaborator
// errors select the next fallback and a panic triggers the emergency bio
// fallback, ending in an Error row when that yields nothing.
func (o *Orchestrator) Resolve(ctx context.Context, person types.ScrapedPerson, affiliation, keyword string) (res Result) {
	res.Person = person
	res.Row = baseRow(person)
	res.Confidence = types.ConfidenceResult{Confidence: types.ConfidenceLow}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("person pipeline panicked", "name", person.Name, "panic", r)
			res.step(StepRecover, StepFailed, fmt.Sprint(r))
			o.emergency(ctx, &res)
		}
	}()

	verdict, err := o.matcher.Match(ctx, match.Target{
		Name:        person.Name,
		Affiliation: affiliation,
		Keyword:     keyword,
		Anchors:     person.RecentPaperTitles,
	})
	res.Verdict = verdict
	switch {
	case err != nil:
		res.step(StepMatch, StepFailed, err.Error())
	case verdict.LockedAuthor == nil || !verdict.IsConfidentMatch:
		res.step(StepMatch, StepEmpty, "no author locked")
	default:
		res.step(StepMatch, StepOK, fmt.Sprintf("%s (%s)", verdict.LockedAuthor.AuthorID, verdict.VerificationStatus))
	}

	if o.useS2(ctx, &res, affiliation) {
		summary, err := o.summarizer.FromPapers(ctx, person.Name, res.Verdict.LockedAuthor.Papers)
		if recordSummary(&res, StepSummarizePapers, summary, err) {
			o.finish(&res, summary, types.SourceS2Verified)
			return res
		}
	}

	o.fromBio(ctx, &res)
	return res
}

// useS2 reports whether the locked author is trusted and has papers.
func (o *Orchestrator) useS2(ctx context.Context, res *Result, affiliation string) bool {
	v := res.Verdict
	if v.LockedAuthor == nil || !v.IsConfidentMatch {
		return false
	}

	res.Confidence = o.judge.Judge(ctx, res.Person, v, affiliation)
	if !res.Confidence.Accepts() {
		res.step(StepJudge, StepFailed, fmt.Sprintf("%s: %s", res.Confidence.Confidence, res.Confidence.Reason))
		return false
	}
	res.step(StepJudge, StepOK, fmt.Sprintf("%s: %s", res.Confidence.Confidence, res.Confidence.Reason))

	if len(v.LockedAuthor.Papers) == 0 {
		res.step(StepPapers, StepEmpty, "no recent papers")
		return false
	}
	res.step(StepPapers, StepOK, fmt.Sprintf("%d recent papers", len(v.LockedAuthor.Papers)))
	return true
}

func (o *Orchestrator) fromBio(ctx context.Context, res *Result) {
	if strings.TrimSpace(res.Person.BioText) == "" {
		res.step(StepSummarizeBio, StepEmpty, "no bio text")
		o.finish(res, "", types.SourceEmpty)
		return
	}
	summary, err := o.summarizer.FromBio(ctx, res.Person.Name, res.Person.BioText)
	if recordSummary(res, StepSummarizeBio, summary, err) {
		o.finish(res, summary, types.SourceWebBio)
		return
	}
	o.finish(res, "", types.SourceEmpty)
}

// emergency runs after a panic. Only a bio summary can rescue the row.
func (o *Orchestrator) emergency(ctx context.Context, res *Result) {
	defer func() {
		if r := recover(); r != nil {
			res.step(StepSummarizeBio, StepFailed, fmt.Sprint(r))
			o.finish(res, "", types.SourceError)
		}
	}()

	if strings.TrimSpace(res.Person.BioText) != "" {
		summary, err := o.summarizer.FromBio(ctx, res.Person.Name, res.Person.BioText)
		if recordSummary(res, StepSummarizeBio, summary, err) {
			o.finish(res, summary, types.SourceWebBio)
			return
		}
	}
	o.finish(res, "", types.SourceError)
}

func (o *Orchestrator) finish(res *Result, summary string, src types.DataSource) {
	if summary == "" {
		summary = types.NoDataSummary
	}
	res.Row.ResearchSummary = summary
	res.Row.DataSource = src
	o.logger.Info("person resolved", "name", res.Person.Name, "data_source", src)
}

func recordSummary(res *Result, step, summary string, err error) bool {
	switch {
	case err != nil:
		res.step(step, StepFailed, err.Error())
		return false
	case strings.TrimSpace(summary) == "":
		res.step(step, StepEmpty, "empty summary")
		return false
	default:
		res.step(step, StepOK, "")
		return true
	}
}

func baseRow(p types.ScrapedPerson) types.OutputRow {
	return types.OutputRow{
		Name:             p.Name,
		Title:            p.Title,
		Email:            p.Email,
		ResearchKeywords: strings.Join(p.ResearchInterests, ", "),
		ProfileLink:      p.ProfileLink,
	}
}
