// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/faculty-scout/internal/extract"
	"github.com/pdiddy/faculty-scout/internal/fetch"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// Target is one faculty directory to process.
type Target struct {
	URL        string `json:"url" yaml:"url"`
	University string `json:"university" yaml:"university"`
	URLHint    string `json:"url_hint,omitempty" yaml:"url_hint,omitempty"`
	Keyword    string `json:"keyword,omitempty" yaml:"keyword,omitempty"`
}

// TargetsFile is the YAML batch file format.
type TargetsFile struct {
	Targets []Target `yaml:"targets"`
}

// LoadTargets reads a YAML targets file. Entries without a URL or
// university are rejected.
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading targets file: %w", err)
	}
	var tf TargetsFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing targets file: %w", err)
	}
	for i, t := range tf.Targets {
		if strings.TrimSpace(t.URL) == "" || strings.TrimSpace(t.University) == "" {
			return nil, fmt.Errorf("target %d: url and university are required", i+1)
		}
	}
	return tf.Targets, nil
}

// ListExtractor turns page text into people and profiles.
// *extract.Extractor satisfies it.
type ListExtractor interface {
	FacultyList(ctx context.Context, pageURL, text, hint string) (extract.ListResult, error)
	Profile(ctx context.Context, text string) (extract.Profile, error)
	Enrich(p types.ScrapedPerson, prof extract.Profile, pageText string) types.ScrapedPerson
}

// Pipeline scrapes one directory page and resolves every person on it.
type Pipeline struct {
	Fetcher      fetch.PageFetcher
	Prober       fetch.Prober
	Extractor    ListExtractor
	Orchestrator *Orchestrator
	Config       types.ResolveConfig
	Logger       *slog.Logger
}

// Run is the outcome of processing one Target.
type Run struct {
	Target           Target             `json:"target" yaml:"target"`
	StartedAt        time.Time          `json:"started_at" yaml:"started_at"`
	Results          []Result           `json:"results" yaml:"results"`
	Summary          BatchSummary       `json:"summary" yaml:"summary"`
	Dropped          int                `json:"dropped" yaml:"dropped"`
	HintMismatches   []string           `json:"hint_mismatches,omitempty" yaml:"hint_mismatches,omitempty"`
	LinksUnreachable bool               `json:"links_unreachable" yaml:"links_unreachable"`
	Reachability     fetch.Reachability `json:"-" yaml:"-"`
}

// Rows returns the report rows in order.
func (r Run) Rows() []types.OutputRow {
	rows := make([]types.OutputRow, len(r.Results))
	for i, res := range r.Results {
		rows[i] = res.Row
	}
	return rows
}

// Run scrapes t.URL, enriches each person from their profile page and
// resolves them. It returns ErrNoPeople when the page yields nobody.
func (p *Pipeline) Run(ctx context.Context, t Target, w io.Writer) (Run, error) {
	logger := p.logger()
	if w == nil {
		w = io.Discard
	}
	run := Run{Target: t, StartedAt: time.Now()}

	hint := t.URLHint
	if hint == "" {
		hint = p.Config.URLHint
	}
	keyword := t.Keyword
	if keyword == "" {
		keyword = p.Config.Keyword
	}

	fmt.Fprintf(w, "Scraping faculty list: %s\n", t.URL)
	people, err := p.scrapeList(ctx, t.URL, hint, &run)
	if err != nil {
		logger.Warn("faculty list extraction failed", "url", t.URL, "error", err)
	}
	if len(people) == 0 {
		run.Summary = Summarize(nil, time.Since(run.StartedAt))
		return run, ErrNoPeople
	}
	fmt.Fprintf(w, "Found %d faculty members.\n", len(people))

	if p.Config.ReachabilitySample > 0 && p.Prober != nil {
		var links []string
		for _, person := range people {
			if person.ProfileLink != "" {
				links = append(links, person.ProfileLink)
			}
		}
		run.Reachability = fetch.CheckReachability(ctx, p.Prober, links, p.Config.ReachabilitySample, logger)
		if run.Reachability.AllNotFound() {
			run.LinksUnreachable = true
			logger.Warn("every sampled profile link returned 404", "checked", len(run.Reachability.Checked))
			fmt.Fprintf(w, "Warning: all %d sampled profile links returned 404.\n", len(run.Reachability.Checked))
		}
	}

	results, summary, err := p.Orchestrator.ResolveAll(ctx, people, BatchOptions{
		Affiliation: t.University,
		Keyword:     keyword,
		Workers:     p.Config.Workers,
		Prepare:     p.Enrich,
		Progress:    w,
	})
	run.Results = results
	run.Summary = summary
	run.Summary.Elapsed = time.Since(run.StartedAt)
	return run, err
}

func (p *Pipeline) scrapeList(ctx context.Context, pageURL, hint string, run *Run) ([]types.ScrapedPerson, error) {
	raw, err := p.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching list page: %w", err)
	}
	if abs, err := fetch.AbsolutizeLinks(raw, pageURL); err == nil {
		raw = abs
	}
	text, err := fetch.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("cleaning list page: %w", err)
	}

	res, err := p.Extractor.FacultyList(ctx, pageURL, text, hint)
	if err != nil {
		return nil, err
	}
	run.Dropped = res.Dropped
	run.HintMismatches = res.HintMismatches
	return res.People, nil
}

// Enrich fetches the person's profile page and merges what it yields. A
// missing or failed page leaves the record as listed.
func (p *Pipeline) Enrich(ctx context.Context, person types.ScrapedPerson) types.ScrapedPerson {
	if person.ProfileLink == "" {
		return person
	}
	text := fetch.Text(ctx, p.Fetcher, person.ProfileLink)
	if text == "" {
		return person
	}
	if limit := p.Config.MaxBioChars; limit > 0 {
		if r := []rune(text); len(r) > limit {
			text = string(r[:limit])
		}
	}

	prof, err := p.Extractor.Profile(ctx, text)
	if err != nil {
		p.logger().Debug("profile extraction failed, using page text", "name", person.Name, "error", err)
		prof = extract.Profile{}
	}
	return p.Extractor.Enrich(person, prof, text)
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
