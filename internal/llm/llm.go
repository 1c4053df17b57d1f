// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides language-model clients for the extractor, the
// summarizer and the confidence judge. Three providers are supported:
// DeepSeek (any OpenAI-compatible endpoint), Anthropic Claude, and Google
// Gemini.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

// ErrMissingCredential is returned when the selected provider has no API key.
var ErrMissingCredential = errors.New("missing credential")

// SystemPrompt is the default system message for every request.
const SystemPrompt = "You are a professional academic research assistant."

// Request is a single-turn completion request.
type Request struct {
	// System is the system message. Empty means SystemPrompt.
	System string

	// Prompt is the user message.
	Prompt string

	// JSON asks the provider for a JSON-only response where supported.
	JSON bool
}

// Client completes a prompt and returns the model's text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// APIError is a non-200 response from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed when repeated.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// New builds the client for cfg.Provider wrapped with retries. It returns an
// error wrapping ErrMissingCredential when cfg.APIKey is empty.
func New(ctx context.Context, cfg types.LLMConfig, httpCfg types.HTTPConfig, logger *slog.Logger) (Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	provider := cfg.Provider
	if provider == "" {
		provider = types.ProviderDeepSeek
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: no API key for LLM provider %q", ErrMissingCredential, provider)
	}

	timeout := httpCfg.Timeout
	if timeout < 60*time.Second {
		timeout = 60 * time.Second
	}
	hc := &http.Client{Timeout: timeout}

	var base Client
	switch provider {
	case types.ProviderDeepSeek:
		base = &OpenAIClient{
			APIKey:      cfg.APIKey,
			Model:       orString(cfg.Model, "deepseek-chat"),
			BaseURL:     orString(cfg.BaseURL, deepSeekBaseURL),
			Temperature: cfg.Temperature,
			Client:      hc,
		}
	case types.ProviderAnthropic:
		base = &ClaudeClient{
			APIKey:      cfg.APIKey,
			Model:       orString(cfg.Model, defaultClaudeModel),
			BaseURL:     orString(cfg.BaseURL, claudeBaseURL),
			Temperature: cfg.Temperature,
			Client:      hc,
		}
	case types.ProviderGemini:
		gc, err := NewGeminiClient(ctx, cfg.APIKey, orString(cfg.Model, defaultGeminiModel), cfg.Temperature)
		if err != nil {
			return nil, err
		}
		base = gc
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}

	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	return &Retrying{
		Client:   base,
		Attempts: uint(attempts),
		Delay:    time.Second,
		Logger:   logger,
	}, nil
}

// CleanJSONBlock strips a markdown code fence around a JSON payload.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func orString(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func systemOf(req Request) string {
	if req.System != "" {
		return req.System
	}
	return SystemPrompt
}
