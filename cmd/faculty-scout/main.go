// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the faculty-scout CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE from --verbose.
var logger = slog.Default()

// rootCmd is the base command for the faculty-scout CLI.
var rootCmd = &cobra.Command{
	Use:   "faculty-scout",
	Short: "Build research-summary reports from university faculty directories",
	Long: `faculty-scout scrapes a faculty directory page, resolves each person to a
Semantic Scholar author record, and writes a spreadsheet summarizing each
person's research.

Each row's summary comes from the person's recent papers when the author
identity is verified, from their profile biography otherwise, and is marked
Empty when neither source is available.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := defaultFlags()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./faculty-scout.yaml or ~/.config/faculty-scout/faculty-scout.yaml)")
	pf.String("secrets-dir", ".secrets", "directory of credential files")
	pf.BoolP("verbose", "v", false, "log debug output to stderr")
	pf.String("strictness", string(defaults.Match.Strictness), "matcher policy without rule evidence: strict or permissive")
	pf.String("judge", string(defaults.Match.Judge), "content judge: model or lexical")
	pf.String("provider", string(defaults.LLM.Provider), "language model provider: deepseek, anthropic or gemini")
	pf.String("model", defaults.LLM.Model, "language model identifier (empty selects the provider default)")
	pf.String("language", defaults.Resolve.Language, "summary language (BCP-47 tag)")
	pf.Int("workers", defaults.Resolve.Workers, "people processed concurrently")
	pf.String("proxy", "", "HTTP proxy URL")
	pf.Duration("timeout", defaults.HTTP.Timeout, "per-request HTTP timeout")

	for key, flag := range map[string]string{
		"verbose":          "verbose",
		"secrets_dir":      "secrets-dir",
		"match.strictness": "strictness",
		"match.judge":      "judge",
		"llm.provider":     "provider",
		"llm.model":        "model",
		"resolve.language": "language",
		"resolve.workers":  "workers",
		"http.proxy":       "proxy",
		"http.timeout":     "timeout",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("faculty-scout")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "faculty-scout"))
		}
	}

	viper.SetEnvPrefix("FACULTY_SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	bindEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
