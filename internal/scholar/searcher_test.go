// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

type fakeAPI struct {
	results map[string][]types.CandidateAuthor
	fail    map[string]bool
	queries []string
	limits  []int
}

func (f *fakeAPI) SearchAuthors(_ context.Context, query string, limit int) ([]types.CandidateAuthor, error) {
	f.queries = append(f.queries, query)
	f.limits = append(f.limits, limit)
	if f.fail[query] {
		return nil, errors.New("boom")
	}
	return f.results[query], nil
}

func (f *fakeAPI) AuthorDetails(_ context.Context, id string) (*types.DetailedAuthor, error) {
	return &types.DetailedAuthor{CandidateAuthor: types.CandidateAuthor{AuthorID: id}}, nil
}

func TestPlan(t *testing.T) {
	s := NewSearcher(&fakeAPI{}, types.DefaultConfig().Scholar, nil)

	tests := []struct {
		name                 string
		person, aff, keyword string
		want                 []Query
	}{
		{
			name:   "all stages",
			person: "Wei Wang", aff: "UCLA", keyword: "Computer Science",
			want: []Query{
				{StageAffiliation, "Wei Wang UCLA", 5},
				{StageKeyword, "Wei Wang Computer Science", 5},
				{StageNameOnly, "Wei Wang", 10},
			},
		},
		{
			name:   "no keyword",
			person: "Wei Wang", aff: "UCLA",
			want: []Query{
				{StageAffiliation, "Wei Wang UCLA", 5},
				{StageNameOnly, "Wei Wang", 10},
			},
		},
		{
			name:   "no affiliation",
			person: " Wei Wang ", keyword: "Physics",
			want: []Query{
				{StageKeyword, "Wei Wang Physics", 5},
				{StageNameOnly, "Wei Wang", 10},
			},
		},
		{name: "no name", person: "  ", aff: "UCLA", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Plan(tt.person, tt.aff, tt.keyword))
		})
	}
}

func TestRunStopsWhenResolved(t *testing.T) {
	api := &fakeAPI{results: map[string][]types.CandidateAuthor{
		"Ada UCL": {{AuthorID: "1"}},
	}}
	s := NewSearcher(api, types.DefaultConfig().Scholar, nil)

	var stages []Stage
	err := s.Run(context.Background(), "Ada", "UCL", "Math", func(r StageResult) bool {
		stages = append(stages, r.Query.Stage)
		return len(r.Candidates) > 0
	})
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageAffiliation}, stages)
	assert.Equal(t, []string{"Ada UCL"}, api.queries)
}

func TestRunContinuesPastFailedStage(t *testing.T) {
	api := &fakeAPI{
		fail:    map[string]bool{"Ada UCL": true},
		results: map[string][]types.CandidateAuthor{"Ada": {{AuthorID: "9"}}},
	}
	s := NewSearcher(api, types.DefaultConfig().Scholar, nil)

	var got []StageResult
	err := s.Run(context.Background(), "Ada", "UCL", "", func(r StageResult) bool {
		got = append(got, r)
		return false
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Error(t, got[0].Err)
	assert.Empty(t, got[0].Candidates)
	assert.Equal(t, StageNameOnly, got[1].Query.Stage)
	assert.Equal(t, []int{5, 10}, api.limits)
}

func TestRunHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := &fakeAPI{}
	err := NewSearcher(api, types.DefaultConfig().Scholar, nil).Run(ctx, "Ada", "UCL", "", func(StageResult) bool { return false })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.queries)
}

func TestSearchDeduplicates(t *testing.T) {
	api := &fakeAPI{results: map[string][]types.CandidateAuthor{
		"Ada UCL": {{AuthorID: "1"}, {AuthorID: "2"}},
		"Ada":     {{AuthorID: "2"}, {AuthorID: "3"}},
	}}
	got, err := NewSearcher(api, types.DefaultConfig().Scholar, nil).Search(context.Background(), "Ada", "UCL", "")
	require.NoError(t, err)

	var ids []string
	for _, c := range got {
		ids = append(ids, c.AuthorID)
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}
