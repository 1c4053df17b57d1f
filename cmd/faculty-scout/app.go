// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pdiddy/faculty-scout/internal/extract"
	"github.com/pdiddy/faculty-scout/internal/fetch"
	"github.com/pdiddy/faculty-scout/internal/httputil"
	"github.com/pdiddy/faculty-scout/internal/judge"
	"github.com/pdiddy/faculty-scout/internal/llm"
	"github.com/pdiddy/faculty-scout/internal/match"
	"github.com/pdiddy/faculty-scout/internal/resolve"
	"github.com/pdiddy/faculty-scout/internal/scholar"
	"github.com/pdiddy/faculty-scout/internal/summarize"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// scholarStack is the part of the pipeline that needs no language model.
type scholarStack struct {
	limiter  *httputil.Limiter
	searcher *scholar.Searcher
	matcher  *match.Matcher
}

func newScholarStack(cfg types.Config, logger *slog.Logger) (*scholarStack, error) {
	limiter := httputil.NewLimiter(cfg.HTTP.MinInterval)
	client, err := scholar.NewClient(cfg.Scholar, cfg.HTTP, limiter, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Scholar.APIKey == "" {
		logger.Info("no Semantic Scholar API key; using the shared public quota")
	}
	searcher := scholar.NewSearcher(client, cfg.Scholar, logger)
	matcher := match.New(searcher, match.Config{
		Strictness:  cfg.Match.Strictness,
		RecentYears: cfg.Scholar.RecentYears,
		Logger:      logger,
	})
	return &scholarStack{limiter: limiter, searcher: searcher, matcher: matcher}, nil
}

// app holds every component of a full run.
type app struct {
	*scholarStack
	model        llm.Client
	orchestrator *resolve.Orchestrator
	pipeline     *resolve.Pipeline
}

// newApp builds the full pipeline. A missing model credential is fatal and
// reported before any network work starts.
func newApp(ctx context.Context, cfg types.Config, logger *slog.Logger) (*app, error) {
	model, err := llm.New(ctx, cfg.LLM, cfg.HTTP, logger)
	if err != nil {
		return nil, fmt.Errorf("configuring %s: %w", cfg.LLM.Provider, err)
	}

	stack, err := newScholarStack(cfg, logger)
	if err != nil {
		closeModel(model)
		return nil, err
	}

	summarizer, err := summarize.New(model, cfg.Resolve.Language, logger)
	if err != nil {
		closeModel(model)
		return nil, err
	}

	var content judge.ContentJudge = &judge.ModelJudge{Client: model}
	if cfg.Match.Judge == types.JudgeLexical {
		content = judge.LexicalJudge{}
	}

	pages, err := httputil.NewClient(httputil.ClientConfig{
		HTTP:           cfg.HTTP,
		MaxRetries:     cfg.Scholar.MaxRetries,
		WaitWithoutKey: cfg.Scholar.RetryWaitWithoutKey,
		Limiter:        stack.limiter,
		Logger:         logger,
	})
	if err != nil {
		closeModel(model)
		return nil, err
	}

	orch := resolve.New(stack.matcher, judge.New(content, logger), summarizer, logger)
	return &app{
		scholarStack: stack,
		model:        model,
		orchestrator: orch,
		pipeline: &resolve.Pipeline{
			Fetcher:      &fetch.HTTPFetcher{Client: pages, Logger: logger},
			Prober:       pages,
			Extractor:    extract.New(model, logger),
			Orchestrator: orch,
			Config:       cfg.Resolve,
			Logger:       logger,
		},
	}, nil
}

func (a *app) Close() error {
	return closeModel(a.model)
}

func closeModel(c llm.Client) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
