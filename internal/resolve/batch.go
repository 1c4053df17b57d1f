// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

// ErrNoPeople is returned when a batch has nobody to process.
var ErrNoPeople = errors.New("no faculty members found")

// BatchOptions configures ResolveAll.
type BatchOptions struct {
	Affiliation string
	Keyword     string

	// Workers is the number of people processed at once. Values below 2
	// process people sequentially.
	Workers int

	// Prepare, when set, runs for each person before resolution (profile
	// enrichment). A panic inside it keeps the original record.
	Prepare func(ctx context.Context, p types.ScrapedPerson) types.ScrapedPerson

	// Progress receives one line per person. Nil discards.
	Progress io.Writer
}

// BatchSummary holds counts from a batch run.
type BatchSummary struct {
	Total    int                      `json:"total" yaml:"total"`
	BySource map[types.DataSource]int `json:"by_source" yaml:"by_source"`
	Elapsed  time.Duration            `json:"elapsed" yaml:"elapsed"`
}

// Count returns the number of rows with source src.
func (s BatchSummary) Count(src types.DataSource) int {
	return s.BySource[src]
}

// HasFailures reports whether any row ended in Error.
func (s BatchSummary) HasFailures() bool {
	return s.BySource[types.SourceError] > 0
}

// Summarize counts results by data source.
func Summarize(results []Result, elapsed time.Duration) BatchSummary {
	s := BatchSummary{Total: len(results), BySource: make(map[types.DataSource]int), Elapsed: elapsed}
	for _, r := range results {
		src := r.Row.DataSource
		if src == "" {
			src = types.SourceEmpty
		}
		s.BySource[src]++
	}
	return s
}

// ResolveAll resolves every person and returns results in input order. People
// are independent; with Workers > 1 they are processed concurrently while
// each person's fallback chain stays sequential.
func (o *Orchestrator) ResolveAll(ctx context.Context, people []types.ScrapedPerson, opts BatchOptions) ([]Result, BatchSummary, error) {
	start := time.Now()
	if len(people) == 0 {
		return nil, BatchSummary{BySource: map[types.DataSource]int{}}, ErrNoPeople
	}

	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	var mu sync.Mutex
	logf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(progress, format, args...)
	}

	results := make([]Result, len(people))
	total := len(people)
	process := func(i int) {
		p := people[i]
		logf("[%d/%d] Processing %s...\n", i+1, total, p.Name)
		if opts.Prepare != nil {
			p = o.prepare(ctx, p, opts.Prepare)
		}
		results[i] = o.Resolve(ctx, p, opts.Affiliation, opts.Keyword)
		logf("[%d/%d] %s: %s\n", i+1, total, results[i].Row.Name, results[i].Row.DataSource)
	}

	if opts.Workers < 2 {
		for i := range people {
			process(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i := range people {
			g.Go(func() error {
				process(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	return results, Summarize(results, time.Since(start)), nil
}

func (o *Orchestrator) prepare(ctx context.Context, p types.ScrapedPerson, fn func(context.Context, types.ScrapedPerson) types.ScrapedPerson) (out types.ScrapedPerson) {
	out = p
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("profile enrichment panicked", "name", p.Name, "panic", r)
			out = p
		}
	}()
	return fn(ctx, p)
}
