// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-scout/internal/llm"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

type recordingLLM struct {
	out     string
	err     error
	prompts []string
}

func (r *recordingLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	r.prompts = append(r.prompts, req.Prompt)
	return r.out, r.err
}

func TestFromPapersPrompt(t *testing.T) {
	tests := []struct {
		lang     string
		contains []string
	}{
		{"zh", []string{"简体中文", "教授 Ada Lovelace", `"Analytical Engines"`, `"Engines compute."`}},
		{"en", []string{"in English", "Professor Ada Lovelace", `"Analytical Engines"`}},
		{"fr", []string{"in French", "Professor Ada Lovelace"}},
		{"zh-Hant", []string{"简体中文"}},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			r := &recordingLLM{out: "  A summary.  "}
			s, err := New(r, tt.lang, nil)
			require.NoError(t, err)

			got, err := s.FromPapers(context.Background(), "Ada Lovelace", []types.Paper{
				{Title: "Analytical Engines", Year: 2025, TLDR: "Engines compute."},
				{Title: " ", Year: 2025},
			})
			require.NoError(t, err)
			assert.Equal(t, "A summary.", got)
			require.Len(t, r.prompts, 1)
			for _, want := range tt.contains {
				assert.Contains(t, r.prompts[0], want)
			}
		})
	}
}

func TestFromPapersWithoutTitlesSkipsModel(t *testing.T) {
	r := &recordingLLM{out: "x"}
	s, err := New(r, "en", nil)
	require.NoError(t, err)

	got, err := s.FromPapers(context.Background(), "A", []types.Paper{{Title: ""}})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, r.prompts)
}

func TestFromBio(t *testing.T) {
	r := &recordingLLM{out: "Bio summary."}
	s, err := New(r, "en", nil)
	require.NoError(t, err)

	got, err := s.FromBio(context.Background(), "Ada", "Ada studies engines.")
	require.NoError(t, err)
	assert.Equal(t, "Bio summary.", got)
	assert.Contains(t, r.prompts[0], "Bio Text: Ada studies engines.")

	got, err = s.FromBio(context.Background(), "Ada", "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Len(t, r.prompts, 1)
}

func TestSummaryFailure(t *testing.T) {
	s, err := New(&recordingLLM{err: errors.New("503")}, "zh", nil)
	require.NoError(t, err)
	got, err := s.FromBio(context.Background(), "Ada", "bio")
	assert.Error(t, err)
	assert.Empty(t, got)
}

func TestNewRejectsBadLanguage(t *testing.T) {
	_, err := New(&recordingLLM{}, "not a language tag!", nil)
	assert.Error(t, err)

	s, err := New(&recordingLLM{}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "zh", s.Language().String())
}
