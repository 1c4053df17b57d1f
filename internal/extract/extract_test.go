// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-scout/internal/llm"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// --- mock model ---

type mockLLM struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	m.prompts = append(m.prompts, req.Prompt)
	return m.response, m.err
}

// --- CoerceRecords ---

func TestCoerceRecords(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantNames   []string
		wantDropped int
		wantErr     bool
	}{
		{"list", `[{"name":"A"},{"name":"B"}]`, []string{"A", "B"}, 0, false},
		{"bare object", `{"name":"A","title":"Prof"}`, []string{"A"}, 0, false},
		{"wrapped list", `{"faculty":[{"name":"A"}],"count":1}`, []string{"A"}, 0, false},
		{"json strings in list", `[{"name":"A"},"{\"name\":\"B\"}","garbage",42]`, []string{"A", "B"}, 2, false},
		{"doubly encoded", `"[{\"name\":\"A\"}]"`, []string{"A"}, 0, false},
		{"object with string list stays object", `{"name":"A","research_interests":["x","y"]}`, []string{"A"}, 0, false},
		{"not json", `here you go: [..]`, nil, 0, true},
		{"number", `7`, nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped, err := CoerceRecords(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			var names []string
			for _, r := range got {
				names = append(names, r.String("name"))
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantDropped, dropped)
		})
	}
}

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"name":      "  Ada  ",
		"email":     nil,
		"title":     "null",
		"interests": []any{"graphs", "", 3, " nlp "},
		"single":    "one",
	}
	assert.Equal(t, "Ada", r.String("name"))
	assert.Empty(t, r.String("email"))
	assert.Empty(t, r.String("title"))
	assert.Empty(t, r.String("missing"))
	assert.Equal(t, []string{"graphs", "nlp"}, r.Strings("interests"))
	assert.Equal(t, []string{"one"}, r.Strings("single"))
	assert.Nil(t, r.Strings("missing"))
}

// --- FacultyList ---

func TestFacultyList(t *testing.T) {
	m := &mockLLM{response: "```json\n" + `[
		{"name": "Chris Archibald", "title": "Professor", "profile_link": "chris-archibald", "email": "chris@byu.edu"},
		{"name": "Jane Smith", "title": "Assistant Professor", "profile_link": "https://other.example/jane", "email": "not-an-email"},
		{"name": null, "title": "Lecturer", "profile_link": "/x"},
		"{\"name\": \"Bo Li\", \"profile_link\": null}"
	]` + "\n```"}
	e := New(m, nil)

	res, err := e.FacultyList(context.Background(), "https://cs.byu.edu/faculty-directory/", "page text", "faculty-directory")
	require.NoError(t, err)

	require.Len(t, res.People, 3)
	assert.Equal(t, types.ScrapedPerson{
		Name:        "Chris Archibald",
		Title:       "Professor",
		ProfileLink: "https://cs.byu.edu/faculty-directory/chris-archibald",
		Email:       "chris@byu.edu",
	}, res.People[0])
	assert.Empty(t, res.People[1].Email, "invalid email is cleared")
	assert.Equal(t, "Bo Li", res.People[2].Name)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, []string{"https://other.example/jane", ""}, res.HintMismatches)
	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "page text")
}

func TestFacultyListFailures(t *testing.T) {
	_, err := New(&mockLLM{}, nil).FacultyList(context.Background(), "https://x.edu", "  ", "")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = New(&mockLLM{err: errors.New("down")}, nil).FacultyList(context.Background(), "https://x.edu", "t", "")
	assert.Error(t, err)

	_, err = New(&mockLLM{response: "Sorry, I cannot help."}, nil).FacultyList(context.Background(), "https://x.edu", "t", "")
	assert.Error(t, err)
}

// --- Profile and Enrich ---

func TestProfile(t *testing.T) {
	m := &mockLLM{response: `[{"name":"Dr. Ada Lovelace","bio_text":"Works on analytical engines.","email":"ada@ucl.ac.uk",
		"research_interests":["computation","poetry"],"recent_paper_titles":["A","B","C"]}]`}

	prof, err := New(m, nil).Profile(context.Background(), "profile text")
	require.NoError(t, err)
	assert.Equal(t, Profile{
		Name:              "Dr. Ada Lovelace",
		BioText:           "Works on analytical engines.",
		Email:             "ada@ucl.ac.uk",
		ResearchInterests: []string{"computation", "poetry"},
		RecentPaperTitles: []string{"A", "B"},
	}, prof)
}

func TestProfileFailures(t *testing.T) {
	_, err := New(&mockLLM{response: `[]`}, nil).Profile(context.Background(), "t")
	assert.Error(t, err)

	_, err = New(&mockLLM{}, nil).Profile(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestEnrich(t *testing.T) {
	e := New(&mockLLM{}, nil)
	base := types.ScrapedPerson{Name: "A. Lovelace", Title: "Professor", ProfileLink: "https://ucl.ac.uk/ada", Email: "old@ucl.ac.uk"}

	got := e.Enrich(base, Profile{Name: "Ada Lovelace", Email: "ada@ucl.ac.uk", BioText: "Bio.", RecentPaperTitles: []string{"P"}}, "page text")
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "ada@ucl.ac.uk", got.Email)
	assert.Equal(t, "Bio.", got.BioText)
	assert.Equal(t, "Professor", got.Title)
	assert.Equal(t, []string{"P"}, got.RecentPaperTitles)

	got = e.Enrich(base, Profile{}, "page text")
	assert.Equal(t, "A. Lovelace", got.Name)
	assert.Equal(t, "old@ucl.ac.uk", got.Email)
	assert.Equal(t, "page text", got.BioText)
}
