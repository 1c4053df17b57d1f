// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files. The
// filename is the key name and the trimmed contents are the value.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

// Key file names.
const (
	SemanticScholarKey = "semantic-scholar-api-key"
	DeepSeekKey        = "deepseek-api-key"
	AnthropicKey       = "anthropic-api-key"
	GeminiKey          = "gemini-api-key"
)

// DefaultDir is the secrets directory looked up relative to the working
// directory.
const DefaultDir = ".secrets"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are logged
// and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ProviderKey returns the key file name for an LLM provider.
func ProviderKey(p types.LLMProvider) string {
	switch p {
	case types.ProviderAnthropic:
		return AnthropicKey
	case types.ProviderGemini:
		return GeminiKey
	default:
		return DeepSeekKey
	}
}

// Apply fills credentials in cfg that are still empty from the loaded
// secrets. Values set by flags, environment or config file win.
func Apply(cfg *types.Config, secrets map[string]string) {
	if cfg.Scholar.APIKey == "" {
		cfg.Scholar.APIKey = secrets[SemanticScholarKey]
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = secrets[ProviderKey(cfg.LLM.Provider)]
	}
}
