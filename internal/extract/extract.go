// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns cleaned page text into typed faculty records with a
// language model, tolerating the loose shapes models return.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/faculty-scout/internal/fetch"
	"github.com/pdiddy/faculty-scout/internal/llm"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// ErrEmptyText is returned when there is no text to extract from.
var ErrEmptyText = errors.New("no text to extract from")

// Extractor asks a language model for structured records.
type Extractor struct {
	client   llm.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// New returns an Extractor backed by client.
func New(client llm.Client, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, validate: validator.New(), logger: logger}
}

// ListResult is the outcome of extracting a faculty directory page.
type ListResult struct {
	People []types.ScrapedPerson

	// Dropped counts items that could not be coerced or failed validation.
	Dropped int

	// HintMismatches lists profile links that do not contain the URL hint.
	HintMismatches []string
}

// FacultyList extracts the people listed in text, the cleaned content of
// pageURL. Relative profile links are joined to pageURL. When hint is set,
// links without it are reported in HintMismatches but kept.
func (e *Extractor) FacultyList(ctx context.Context, pageURL, text, hint string) (ListResult, error) {
	if strings.TrimSpace(text) == "" {
		return ListResult{}, ErrEmptyText
	}

	prompt, err := render(facultyListPromptTmpl, struct{ Text string }{text})
	if err != nil {
		return ListResult{}, fmt.Errorf("rendering prompt: %w", err)
	}
	out, err := e.client.Complete(ctx, llm.Request{Prompt: prompt, JSON: true})
	if err != nil {
		return ListResult{}, fmt.Errorf("faculty list extraction: %w", err)
	}

	records, dropped, err := CoerceRecords(llm.CleanJSONBlock(out))
	if err != nil {
		return ListResult{}, fmt.Errorf("faculty list extraction: %w", err)
	}
	if dropped > 0 {
		e.logger.Warn("dropped malformed list items", "count", dropped)
	}

	res := ListResult{Dropped: dropped}
	for _, r := range records {
		p := types.ScrapedPerson{
			Name:        r.String("name"),
			Title:       r.String("title"),
			ProfileLink: fetch.ResolveLink(pageURL, r.String("profile_link")),
			Email:       r.String("email"),
		}
		if !e.check(&p) {
			res.Dropped++
			continue
		}
		if hint != "" && !strings.Contains(p.ProfileLink, hint) {
			e.logger.Warn("profile link does not match hint", "name", p.Name, "link", p.ProfileLink, "hint", hint)
			res.HintMismatches = append(res.HintMismatches, p.ProfileLink)
		}
		res.People = append(res.People, p)
	}
	return res, nil
}

// Profile is what a person's own page adds to a directory record.
type Profile struct {
	Name              string
	BioText           string
	Email             string
	ResearchInterests []string
	RecentPaperTitles []string
}

// Profile extracts profile fields from text. The caller falls back to the
// raw text as biography when it fails.
func (e *Extractor) Profile(ctx context.Context, text string) (Profile, error) {
	if strings.TrimSpace(text) == "" {
		return Profile{}, ErrEmptyText
	}

	prompt, err := render(profilePromptTmpl, struct {
		Text      string
		MaxTitles int
	}{text, types.MaxAnchorTitles})
	if err != nil {
		return Profile{}, fmt.Errorf("rendering prompt: %w", err)
	}
	out, err := e.client.Complete(ctx, llm.Request{Prompt: prompt, JSON: true})
	if err != nil {
		return Profile{}, fmt.Errorf("profile extraction: %w", err)
	}

	records, _, err := CoerceRecords(llm.CleanJSONBlock(out))
	if err != nil {
		return Profile{}, fmt.Errorf("profile extraction: %w", err)
	}
	if len(records) == 0 {
		return Profile{}, fmt.Errorf("profile extraction: no object in response")
	}

	r := records[0]
	titles := r.Strings("recent_paper_titles")
	if len(titles) > types.MaxAnchorTitles {
		titles = titles[:types.MaxAnchorTitles]
	}
	return Profile{
		Name:              r.String("name"),
		BioText:           r.String("bio_text"),
		Email:             r.String("email"),
		ResearchInterests: r.Strings("research_interests"),
		RecentPaperTitles: titles,
	}, nil
}

// Enrich merges a profile into the directory record. The profile's name and
// email replace the list values when present; an empty biography falls back
// to pageText.
func (e *Extractor) Enrich(p types.ScrapedPerson, prof Profile, pageText string) types.ScrapedPerson {
	if prof.Name != "" {
		p.Name = prof.Name
	}
	if prof.Email != "" {
		p.Email = prof.Email
	}
	p.BioText = prof.BioText
	if p.BioText == "" {
		p.BioText = pageText
	}
	p.ResearchInterests = prof.ResearchInterests
	p.RecentPaperTitles = prof.RecentPaperTitles

	e.check(&p)
	return p
}

// check validates p, clearing optional fields that fail and reporting
// whether the record is usable at all.
func (e *Extractor) check(p *types.ScrapedPerson) bool {
	err := e.validate.Struct(p)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		e.logger.Warn("validation failed", "error", err)
		return false
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			e.logger.Warn("dropping record without name", "link", p.ProfileLink)
			return false
		case "Email":
			e.logger.Debug("clearing invalid email", "name", p.Name, "email", p.Email)
			p.Email = ""
		case "ProfileLink":
			e.logger.Warn("clearing invalid profile link", "name", p.Name, "link", p.ProfileLink)
			p.ProfileLink = ""
		case "RecentPaperTitles":
			p.RecentPaperTitles = p.RecentPaperTitles[:types.MaxAnchorTitles]
		}
	}
	return true
}
