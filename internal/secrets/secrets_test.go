// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, DeepSeekKey, "  ds_abc123  \n")
				writeFile(t, dir, SemanticScholarKey, "sk_xyz789")
				writeFile(t, dir, GeminiKey, "gm_456\n")
				return dir
			},
			want: map[string]string{
				DeepSeekKey:        "ds_abc123",
				SemanticScholarKey: "sk_xyz789",
				GeminiKey:          "gm_456",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				AnthropicKey: "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, DeepSeekKey, "ds_real")
				return dir
			},
			want: map[string]string{
				DeepSeekKey: "ds_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				AnthropicKey: "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, nil)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, nil)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestApply(t *testing.T) {
	loaded := map[string]string{
		SemanticScholarKey: "s2-file",
		DeepSeekKey:        "ds-file",
		AnthropicKey:       "an-file",
		GeminiKey:          "gm-file",
	}

	tests := []struct {
		name       string
		cfg        types.Config
		wantS2     string
		wantLLMKey string
	}{
		{
			name:       "fills empty keys for deepseek",
			cfg:        types.Config{LLM: types.LLMConfig{Provider: types.ProviderDeepSeek}},
			wantS2:     "s2-file",
			wantLLMKey: "ds-file",
		},
		{
			name:       "picks the selected provider",
			cfg:        types.Config{LLM: types.LLMConfig{Provider: types.ProviderGemini}},
			wantS2:     "s2-file",
			wantLLMKey: "gm-file",
		},
		{
			name: "keeps values already set",
			cfg: types.Config{
				Scholar: types.ScholarConfig{APIKey: "s2-env"},
				LLM:     types.LLMConfig{Provider: types.ProviderAnthropic, APIKey: "an-env"},
			},
			wantS2:     "s2-env",
			wantLLMKey: "an-env",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			Apply(&cfg, loaded)
			assert.Equal(t, tt.wantS2, cfg.Scholar.APIKey)
			assert.Equal(t, tt.wantLLMKey, cfg.LLM.APIKey)
		})
	}
}

func TestApplyMissing(t *testing.T) {
	cfg := types.DefaultConfig()
	Apply(&cfg, map[string]string{})
	assert.Empty(t, cfg.Scholar.APIKey)
	assert.Empty(t, cfg.LLM.APIKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
