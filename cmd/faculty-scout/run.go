// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/faculty-scout/internal/report"
	"github.com/pdiddy/faculty-scout/internal/resolve"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [url university]",
	Short: "Scrape a faculty directory and write the research report",
	Long: `Run fetches a faculty directory page, extracts every listed person,
enriches each one from their profile page, resolves their Semantic Scholar
identity and writes <University_Name>_<YYYYMMDD_HHMM>.xlsx to the output
directory.

Pass a URL and university name, or --targets with a YAML file listing
several directories; each target gets its own report.`,
	Args: func(cmd *cobra.Command, args []string) error {
		targets, _ := cmd.Flags().GetString("targets")
		if targets != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runRun,
}

func init() {
	defaults := defaultFlags()
	runCmd.Flags().String("targets", "", "YAML file of {url, university, url_hint, keyword} targets")
	runCmd.Flags().String("keyword", "", "discipline keyword for the second search stage")
	runCmd.Flags().String("url-hint", "", "substring every valid profile link must contain")
	runCmd.Flags().Int("sample", defaults.Resolve.ReachabilitySample, "profile links probed for reachability (0 disables)")
	runCmd.Flags().String("output-dir", defaults.Report.OutputDir, "directory for reports")
	runCmd.Flags().String("db", "", "SQLite file that accumulates run records")
	runCmd.Flags().Bool("audit", false, "write a YAML audit trail next to each report")

	for key, flag := range map[string]string{
		"resolve.keyword":             "keyword",
		"resolve.url_hint":            "url-hint",
		"resolve.reachability_sample": "sample",
		"report.output_dir":           "output-dir",
		"report.database":             "db",
		"report.audit":                "audit",
	} {
		if err := viper.BindPFlag(key, runCmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var targets []resolve.Target
	if path, _ := cmd.Flags().GetString("targets"); path != "" {
		if targets, err = resolve.LoadTargets(path); err != nil {
			return err
		}
	} else {
		targets = []resolve.Target{{URL: args[0], University: args[1]}}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var store *report.Store
	if cfg.Report.Database != "" {
		if store, err = report.OpenStore(cfg.Report.Database); err != nil {
			return err
		}
		defer store.Close()
	}

	out := cmd.OutOrStdout()
	var empty, failed int
	for _, t := range targets {
		run, err := a.pipeline.Run(ctx, t, out)
		switch {
		case errors.Is(err, resolve.ErrNoPeople):
			report.WriteNoPeople(out, t)
			empty++
			continue
		case err != nil:
			return err
		}

		if err := writeRun(ctx, out, cfg.Report, store, run); err != nil {
			return err
		}
		if run.Summary.HasFailures() {
			failed += run.Summary.Count(types.SourceError)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if empty == len(targets) {
		return resolve.ErrNoPeople
	}
	if failed > 0 {
		return fmt.Errorf("%d person(s) ended in Error", failed)
	}
	return nil
}

// writeRun writes the spreadsheet, then the optional store record and audit
// trail, and prints the summary table.
func writeRun(ctx context.Context, w io.Writer, cfg types.ReportConfig, store *report.Store, run resolve.Run) error {
	path := filepath.Join(cfg.OutputDir, report.FileName(run.Target.University, run.StartedAt))
	if err := report.WriteXLSX(path, run.Rows()); err != nil {
		return err
	}

	var runID string
	if store != nil {
		id, err := store.SaveRun(ctx, run, path)
		if err != nil {
			return err
		}
		runID = id
	}
	if cfg.Audit {
		if err := report.WriteAudit(report.AuditPath(path), runID, run); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	report.WriteSummary(w, run.Target.University, run.Summary)
	if run.LinksUnreachable {
		fmt.Fprintln(w, "Warning: sampled profile links were unreachable; check the page or --url-hint.")
	}
	fmt.Fprintf(w, "Saved report to %s\n", path)
	return nil
}
