// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-scout/internal/match"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

type fakeMatcher struct {
	verdict types.MatchVerdict
	err     error
	panics  bool
}

func (f *fakeMatcher) Match(_ context.Context, t match.Target) (types.MatchVerdict, error) {
	if f.panics {
		panic("matcher exploded")
	}
	return f.verdict, f.err
}

type fakeJudge struct {
	result types.ConfidenceResult
}

func (f *fakeJudge) Judge(context.Context, types.ScrapedPerson, types.MatchVerdict, string) types.ConfidenceResult {
	return f.result
}

type fakeSummarizer struct {
	mu          sync.Mutex
	papersOut   string
	papersErr   error
	bioOut      string
	bioErr      error
	bioPanics   bool
	papersCalls int
	bioCalls    int
}

func (f *fakeSummarizer) FromPapers(_ context.Context, name string, papers []types.Paper) (string, error) {
	f.mu.Lock()
	f.papersCalls++
	f.mu.Unlock()
	return f.papersOut, f.papersErr
}

func (f *fakeSummarizer) FromBio(_ context.Context, name, bio string) (string, error) {
	f.mu.Lock()
	f.bioCalls++
	f.mu.Unlock()
	if f.bioPanics {
		panic("summarizer exploded")
	}
	return f.bioOut, f.bioErr
}

func lockedVerdict(papers ...string) types.MatchVerdict {
	a := &types.DetailedAuthor{CandidateAuthor: types.CandidateAuthor{
		AuthorID: "42", Name: "Angela Garcia", Affiliations: []string{"Stanford University"},
	}}
	for _, p := range papers {
		a.Papers = append(a.Papers, types.Paper{Title: p, Year: 2025})
	}
	return types.MatchVerdict{LockedAuthor: a, VerificationStatus: types.VerifiedByQueryUni, IsConfidentMatch: true}
}

func person(bio string) types.ScrapedPerson {
	return types.ScrapedPerson{
		Name:              "Angela Garcia",
		Title:             "Professor",
		Email:             "angela@stanford.edu",
		ProfileLink:       "https://cs.stanford.edu/angela",
		BioText:           bio,
		ResearchInterests: []string{"robotics", "control"},
	}
}

var high = types.ConfidenceResult{Confidence: types.ConfidenceHigh, Reason: "Affiliation Hard Match"}

func TestResolveFallbackMatrix(t *testing.T) {
	tests := []struct {
		name       string
		verdict    types.MatchVerdict
		judge      types.ConfidenceResult
		bio        string
		papersOut  string
		papersErr  error
		bioOut     string
		bioErr     error
		wantSource types.DataSource
		wantText   string
	}{
		{
			name: "papers summarized", verdict: lockedVerdict("Robot Learning"), judge: high,
			bio: "bio", papersOut: "works on robots", bioOut: "bio summary",
			wantSource: types.SourceS2Verified, wantText: "works on robots",
		},
		{
			name: "papers summary fails falls back to bio", verdict: lockedVerdict("Robot Learning"), judge: high,
			bio: "bio", papersErr: errors.New("llm down"), bioOut: "bio summary",
			wantSource: types.SourceWebBio, wantText: "bio summary",
		},
		{
			name: "empty papers summary falls back to bio", verdict: lockedVerdict("Robot Learning"), judge: high,
			bio: "bio", papersOut: "  ", bioOut: "bio summary",
			wantSource: types.SourceWebBio, wantText: "bio summary",
		},
		{
			name: "no papers uses bio", verdict: lockedVerdict(), judge: high,
			bio: "bio", papersOut: "unused", bioOut: "bio summary",
			wantSource: types.SourceWebBio, wantText: "bio summary",
		},
		{
			name: "low confidence uses bio", verdict: lockedVerdict("Robot Learning"),
			judge: types.ConfidenceResult{Confidence: types.ConfidenceLow, Reason: "different field"},
			bio: "bio", papersOut: "unused", bioOut: "bio summary",
			wantSource: types.SourceWebBio, wantText: "bio summary",
		},
		{
			name: "medium confidence uses papers", verdict: lockedVerdict("Robot Learning"),
			judge: types.ConfidenceResult{Confidence: types.ConfidenceMedium, Reason: "plausible"},
			bio: "bio", papersOut: "works on robots",
			wantSource: types.SourceS2Verified, wantText: "works on robots",
		},
		{
			name: "no match uses bio", verdict: types.MatchVerdict{}, judge: high,
			bio: "bio", bioOut: "bio summary",
			wantSource: types.SourceWebBio, wantText: "bio summary",
		},
		{
			name: "unconfident match uses bio", verdict: func() types.MatchVerdict {
				v := lockedVerdict("Robot Learning")
				v.IsConfidentMatch = false
				return v
			}(), judge: high,
			bio: "bio", papersOut: "unused", bioOut: "bio summary",
			wantSource: types.SourceWebBio, wantText: "bio summary",
		},
		{
			name: "no match and no bio is empty", verdict: types.MatchVerdict{}, judge: high,
			wantSource: types.SourceEmpty, wantText: types.NoDataSummary,
		},
		{
			name: "bio summary fails is empty", verdict: types.MatchVerdict{}, judge: high,
			bio: "bio", bioErr: errors.New("llm down"),
			wantSource: types.SourceEmpty, wantText: types.NoDataSummary,
		},
		{
			name: "everything fails is empty", verdict: lockedVerdict("Robot Learning"), judge: high,
			bio: "bio", papersErr: errors.New("down"), bioErr: errors.New("down"),
			wantSource: types.SourceEmpty, wantText: types.NoDataSummary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSummarizer{papersOut: tt.papersOut, papersErr: tt.papersErr, bioOut: tt.bioOut, bioErr: tt.bioErr}
			o := New(&fakeMatcher{verdict: tt.verdict}, &fakeJudge{result: tt.judge}, s, nil)

			res := o.Resolve(context.Background(), person(tt.bio), "Stanford University", "")

			assert.Equal(t, tt.wantSource, res.Row.DataSource)
			assert.Equal(t, tt.wantText, res.Row.ResearchSummary)
			assert.NotEmpty(t, res.Row.ResearchSummary)
			assert.NotEmpty(t, res.Trace)
		})
	}
}

func TestResolveRowCarriesPersonFields(t *testing.T) {
	o := New(&fakeMatcher{}, &fakeJudge{result: high}, &fakeSummarizer{bioOut: "summary"}, nil)

	res := o.Resolve(context.Background(), person("bio"), "Stanford University", "")

	assert.Equal(t, "Angela Garcia", res.Row.Name)
	assert.Equal(t, "Professor", res.Row.Title)
	assert.Equal(t, "angela@stanford.edu", res.Row.Email)
	assert.Equal(t, "robotics, control", res.Row.ResearchKeywords)
	assert.Equal(t, "https://cs.stanford.edu/angela", res.Row.ProfileLink)
}

func TestResolveSkipsPapersSummaryWithoutTrust(t *testing.T) {
	s := &fakeSummarizer{papersOut: "unused", bioOut: "bio summary"}
	o := New(&fakeMatcher{verdict: lockedVerdict("Robot Learning")},
		&fakeJudge{result: types.ConfidenceResult{Confidence: types.ConfidenceLow}}, s, nil)

	o.Resolve(context.Background(), person("bio"), "Stanford University", "")

	assert.Zero(t, s.papersCalls)
	assert.Equal(t, 1, s.bioCalls)
}

func TestResolveMatchErrorFallsBackToBio(t *testing.T) {
	o := New(&fakeMatcher{err: errors.New("search down")}, &fakeJudge{result: high}, &fakeSummarizer{bioOut: "bio summary"}, nil)

	res := o.Resolve(context.Background(), person("bio"), "Stanford University", "")

	assert.Equal(t, types.SourceWebBio, res.Row.DataSource)
	require.NotEmpty(t, res.Trace)
	assert.Equal(t, Step{Name: StepMatch, Status: StepFailed, Detail: "search down"}, res.Trace[0])
}

func TestResolvePanicRecovery(t *testing.T) {
	tests := []struct {
		name       string
		bio        string
		summarizer *fakeSummarizer
		wantSource types.DataSource
		wantText   string
	}{
		{"bio rescues the row", "bio", &fakeSummarizer{bioOut: "bio summary"}, types.SourceWebBio, "bio summary"},
		{"no bio is an error row", "", &fakeSummarizer{bioOut: "unused"}, types.SourceError, types.NoDataSummary},
		{"bio summary fails is an error row", "bio", &fakeSummarizer{bioErr: errors.New("down")}, types.SourceError, types.NoDataSummary},
		{"bio summary panics is an error row", "bio", &fakeSummarizer{bioPanics: true}, types.SourceError, types.NoDataSummary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(&fakeMatcher{panics: true}, &fakeJudge{result: high}, tt.summarizer, nil)

			var res Result
			require.NotPanics(t, func() {
				res = o.Resolve(context.Background(), person(tt.bio), "Stanford University", "")
			})
			assert.Equal(t, tt.wantSource, res.Row.DataSource)
			assert.Equal(t, tt.wantText, res.Row.ResearchSummary)
			assert.Equal(t, "Angela Garcia", res.Row.Name)
			assert.Contains(t, res.Trace, Step{Name: StepRecover, Status: StepFailed, Detail: "matcher exploded"})
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	newOrch := func() *Orchestrator {
		return New(&fakeMatcher{verdict: lockedVerdict("Robot Learning")}, &fakeJudge{result: high},
			&fakeSummarizer{papersOut: "works on robots"}, nil)
	}

	first := newOrch().Resolve(context.Background(), person("bio"), "Stanford University", "robotics")
	second := newOrch().Resolve(context.Background(), person("bio"), "Stanford University", "robotics")

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Resolve not repeatable (-first +second):\n%s", diff)
	}
}

func TestResolveAllKeepsInputOrder(t *testing.T) {
	people := make([]types.ScrapedPerson, 12)
	for i := range people {
		people[i] = types.ScrapedPerson{Name: fmt.Sprintf("Person %02d", i), BioText: "bio"}
	}

	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			o := New(&fakeMatcher{}, &fakeJudge{result: high}, &fakeSummarizer{bioOut: "bio summary"}, nil)
			var progress bytes.Buffer

			results, summary, err := o.ResolveAll(context.Background(), people, BatchOptions{
				Affiliation: "Stanford University",
				Workers:     workers,
				Progress:    &progress,
			})
			require.NoError(t, err)
			require.Len(t, results, len(people))
			for i, r := range results {
				assert.Equal(t, people[i].Name, r.Row.Name)
			}
			assert.Equal(t, 12, summary.Total)
			assert.Equal(t, 12, summary.Count(types.SourceWebBio))
			assert.False(t, summary.HasFailures())
			assert.Equal(t, 24, strings.Count(progress.String(), "\n"))
		})
	}
}

func TestResolveAllNoPeople(t *testing.T) {
	o := New(&fakeMatcher{}, &fakeJudge{}, &fakeSummarizer{}, nil)

	results, summary, err := o.ResolveAll(context.Background(), nil, BatchOptions{})

	require.ErrorIs(t, err, ErrNoPeople)
	assert.Empty(t, results)
	assert.Zero(t, summary.Total)
}

func TestResolveAllPrepare(t *testing.T) {
	people := []types.ScrapedPerson{{Name: "A"}, {Name: "B"}}
	o := New(&fakeMatcher{}, &fakeJudge{}, &fakeSummarizer{bioOut: "bio summary"}, nil)

	results, summary, err := o.ResolveAll(context.Background(), people, BatchOptions{
		Prepare: func(_ context.Context, p types.ScrapedPerson) types.ScrapedPerson {
			if p.Name == "B" {
				panic("profile page exploded")
			}
			p.BioText = "enriched"
			return p
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "enriched", results[0].Person.BioText)
	assert.Equal(t, types.SourceWebBio, results[0].Row.DataSource)
	assert.Equal(t, "B", results[1].Person.Name)
	assert.Equal(t, types.SourceEmpty, results[1].Row.DataSource)
	assert.Equal(t, 1, summary.Count(types.SourceEmpty))
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Row: types.OutputRow{DataSource: types.SourceS2Verified}},
		{Row: types.OutputRow{DataSource: types.SourceError}},
		{Row: types.OutputRow{DataSource: types.SourceS2Verified}},
		{},
	}

	s := Summarize(results, 0)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Count(types.SourceS2Verified))
	assert.Equal(t, 1, s.Count(types.SourceEmpty))
	assert.True(t, s.HasFailures())
}
