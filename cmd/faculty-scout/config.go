// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-scout/internal/secrets"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

func defaultFlags() types.Config {
	return types.DefaultConfig()
}

// configKeys are the settings that FACULTY_SCOUT_* variables may override.
var configKeys = []string{
	"http.timeout", "http.user_agent", "http.min_interval",
	"scholar.base_url", "scholar.max_retries", "scholar.retry_wait_with_key", "scholar.retry_wait_without_key",
	"scholar.affiliation_limit", "scholar.keyword_limit", "scholar.name_only_limit",
	"scholar.paper_limit", "scholar.recent_years",
	"llm.base_url", "llm.max_retries", "llm.temperature",
	"resolve.max_bio_chars", "resolve.url_hint", "resolve.keyword", "resolve.reachability_sample",
	"report.output_dir", "report.database", "report.audit",
}

// legacyEnv binds the variable names used before the FACULTY_SCOUT_ prefix.
var legacyEnv = map[string]string{
	"scholar.api_key":   "S2_API_KEY",
	"http.proxy":        "HTTP_PROXY",
	"deepseek_api_key":  "DEEPSEEK_API_KEY",
	"anthropic_api_key": "ANTHROPIC_API_KEY",
	"gemini_api_key":    "GEMINI_API_KEY",
}

// dotenvKeys maps .env entries onto config fields.
var dotenvKeys = map[string]string{
	"S2_API_KEY":        secrets.SemanticScholarKey,
	"DEEPSEEK_API_KEY":  secrets.DeepSeekKey,
	"ANTHROPIC_API_KEY": secrets.AnthropicKey,
	"GEMINI_API_KEY":    secrets.GeminiKey,
}

func bindEnv() {
	for _, key := range configKeys {
		_ = viper.BindEnv(key)
	}
	for key, env := range legacyEnv {
		_ = viper.BindEnv(key, envName(key), env)
	}
	_ = viper.BindEnv("llm.api_key")
}

func envName(key string) string {
	return "FACULTY_SCOUT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// loadConfig merges defaults, the config file, the environment and flags
// through viper, then fills missing credentials from .secrets/ files and
// finally from .env.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = viper.GetString(string(cfg.LLM.Provider) + "_api_key")
	}

	dir := viper.GetString("secrets_dir")
	if dir == "" {
		dir = secrets.DefaultDir
	}
	loaded, err := secrets.Load(dir, logger)
	if err != nil {
		return cfg, err
	}
	if len(loaded) > 0 {
		logger.Debug("loaded secrets", "dir", dir, "count", len(loaded))
	}
	secrets.Apply(&cfg, loaded)

	if env, err := godotenv.Read(".env"); err == nil {
		fromEnv := make(map[string]string)
		for name, key := range dotenvKeys {
			if v := env[name]; v != "" {
				fromEnv[key] = v
			}
		}
		secrets.Apply(&cfg, fromEnv)
	}

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg types.Config) error {
	switch cfg.Match.Strictness {
	case types.StrictnessStrict, types.StrictnessPermissive:
	default:
		return fmt.Errorf("unknown strictness %q: use strict or permissive", cfg.Match.Strictness)
	}
	switch cfg.Match.Judge {
	case types.JudgeModel, types.JudgeLexical:
	default:
		return fmt.Errorf("unknown judge %q: use model or lexical", cfg.Match.Judge)
	}
	switch cfg.LLM.Provider {
	case types.ProviderDeepSeek, types.ProviderAnthropic, types.ProviderGemini:
	default:
		return fmt.Errorf("unknown LLM provider %q: use deepseek, anthropic or gemini", cfg.LLM.Provider)
	}
	if cfg.Resolve.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Resolve.Workers)
	}
	return nil
}
