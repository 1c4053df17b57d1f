// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every component that makes
// network requests.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the identifying User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Proxy is an optional proxy URL (e.g. "http://127.0.0.1:7890").
	Proxy string `json:"proxy,omitempty" yaml:"proxy,omitempty" mapstructure:"proxy"`

	// MinInterval is the minimum spacing between requests to the same host,
	// enforced across all goroutines sharing a client. Zero disables it.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval" mapstructure:"min_interval"`
}

// ScholarConfig holds settings for the bibliographic search API.
type ScholarConfig struct {
	// BaseURL is the Semantic Scholar Graph API root.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is the optional Semantic Scholar API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries is the number of additional attempts after an HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryWaitWithKey is the 429 wait when an API key is configured (default 1s).
	RetryWaitWithKey time.Duration `json:"retry_wait_with_key" yaml:"retry_wait_with_key" mapstructure:"retry_wait_with_key"`

	// RetryWaitWithoutKey is the 429 wait on the shared public quota (default 5s).
	RetryWaitWithoutKey time.Duration `json:"retry_wait_without_key" yaml:"retry_wait_without_key" mapstructure:"retry_wait_without_key"`

	// AffiliationLimit is the candidate count requested for "name affiliation" (default 5).
	AffiliationLimit int `json:"affiliation_limit" yaml:"affiliation_limit" mapstructure:"affiliation_limit"`

	// KeywordLimit is the candidate count requested for "name keyword" (default 5).
	KeywordLimit int `json:"keyword_limit" yaml:"keyword_limit" mapstructure:"keyword_limit"`

	// NameOnlyLimit is the candidate count requested for the bare name (default 10).
	NameOnlyLimit int `json:"name_only_limit" yaml:"name_only_limit" mapstructure:"name_only_limit"`

	// PaperLimit is the number of papers requested per author detail fetch (default 25).
	PaperLimit int `json:"paper_limit" yaml:"paper_limit" mapstructure:"paper_limit"`

	// RecentYears keeps papers published within this many years of the
	// current year on a locked author (default 2).
	RecentYears int `json:"recent_years" yaml:"recent_years" mapstructure:"recent_years"`
}

// Strictness selects the matcher's policy when no rule locks a candidate.
type Strictness string

const (
	// StrictnessPermissive accepts the first candidate as needs_manual_check.
	StrictnessPermissive Strictness = "permissive"
	// StrictnessStrict reports no match without rule-based evidence.
	StrictnessStrict Strictness = "strict"
)

// JudgeKind selects the content judge used when no structural evidence exists.
type JudgeKind string

const (
	// JudgeModel asks the language model to compare profile and record.
	JudgeModel JudgeKind = "model"
	// JudgeLexical compares term overlap locally without a model call.
	JudgeLexical JudgeKind = "lexical"
)

// MatchConfig holds settings for the author matcher and confidence judge.
type MatchConfig struct {
	Strictness Strictness `json:"strictness" yaml:"strictness" mapstructure:"strictness"`
	Judge      JudgeKind  `json:"judge" yaml:"judge" mapstructure:"judge"`
}

// LLMProvider names a language-model backend.
type LLMProvider string

const (
	ProviderDeepSeek  LLMProvider = "deepseek"
	ProviderAnthropic LLMProvider = "anthropic"
	ProviderGemini    LLMProvider = "gemini"
)

// LLMConfig holds settings shared by the extractor, summarizer and judge.
type LLMConfig struct {
	// Provider selects the backend: deepseek, anthropic, or gemini.
	Provider LLMProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier. Empty selects the provider's default
	// (deepseek-chat, a Claude Sonnet model, or gemini-1.5-flash).
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible and Anthropic only).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxRetries is the number of attempts for transient API failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Temperature is the sampling temperature (default 0.2).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`
}

// ResolveConfig holds settings for the per-person orchestration.
type ResolveConfig struct {
	// Language is the BCP-47 tag summaries are written in (default "zh").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// Workers is the number of people processed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// MaxBioChars caps the cleaned profile text handed to the extractor (default 15000).
	MaxBioChars int `json:"max_bio_chars" yaml:"max_bio_chars" mapstructure:"max_bio_chars"`

	// URLHint is an optional substring every valid profile link must contain.
	URLHint string `json:"url_hint,omitempty" yaml:"url_hint,omitempty" mapstructure:"url_hint"`

	// Keyword is an optional discipline keyword used as the second search stage.
	Keyword string `json:"keyword,omitempty" yaml:"keyword,omitempty" mapstructure:"keyword"`

	// ReachabilitySample is the number of profile links probed after list
	// extraction (default 3, zero or negative disables).
	ReachabilitySample int `json:"reachability_sample" yaml:"reachability_sample" mapstructure:"reachability_sample"`
}

// ReportConfig holds output settings.
type ReportConfig struct {
	// OutputDir is the directory for spreadsheets and audit files (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Database is an optional SQLite file that accumulates run records.
	Database string `json:"database,omitempty" yaml:"database,omitempty" mapstructure:"database"`

	// Audit writes a YAML audit trail next to the spreadsheet when true.
	Audit bool `json:"audit" yaml:"audit" mapstructure:"audit"`
}

// Config groups every component's configuration. It is built once by the
// CLI and handed to constructors; no package reads the environment itself.
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Scholar ScholarConfig `json:"scholar" yaml:"scholar" mapstructure:"scholar"`
	Match   MatchConfig   `json:"match" yaml:"match" mapstructure:"match"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
	Resolve ResolveConfig `json:"resolve" yaml:"resolve" mapstructure:"resolve"`
	Report  ReportConfig  `json:"report" yaml:"report" mapstructure:"report"`
}

// DefaultUserAgent identifies faculty-scout to remote servers.
const DefaultUserAgent = "faculty-scout/0.1 (+https://github.com/pdiddy/faculty-scout)"

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:   15 * time.Second,
			UserAgent: DefaultUserAgent,
		},
		Scholar: ScholarConfig{
			BaseURL:             "https://api.semanticscholar.org/graph/v1",
			MaxRetries:          3,
			RetryWaitWithKey:    1 * time.Second,
			RetryWaitWithoutKey: 5 * time.Second,
			AffiliationLimit:    5,
			KeywordLimit:        5,
			NameOnlyLimit:       10,
			PaperLimit:          25,
			RecentYears:         2,
		},
		Match: MatchConfig{Strictness: StrictnessStrict, Judge: JudgeModel},
		LLM: LLMConfig{
			Provider:    ProviderDeepSeek,
			MaxRetries:  3,
			Temperature: 0.2,
		},
		Resolve: ResolveConfig{
			Language:           "zh",
			Workers:            1,
			MaxBioChars:        15000,
			ReachabilitySample: 3,
		},
		Report: ReportConfig{OutputDir: "."},
	}
}
