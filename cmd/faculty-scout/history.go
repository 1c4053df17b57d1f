// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/faculty-scout/internal/report"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "Search rows stored by earlier runs",
	Long: `History queries the SQLite run store written by "run --db". A query is
matched with FTS5 against names, research keywords and summaries; without one
rows are listed in run order. Use --runs to list the runs themselves.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("db", "", "SQLite run store (default: report.database from config)")
	historyCmd.Flags().String("source", "", "filter by data source: S2_Verified, Web_Bio, Empty, Error")
	historyCmd.Flags().String("run", "", "filter by run ID")
	historyCmd.Flags().Int("limit", 0, "maximum results (0 = 20)")
	historyCmd.Flags().Bool("runs", false, "list stored runs instead of rows")
	historyCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.Report.Database
	}
	if path == "" {
		return fmt.Errorf("no run store: pass --db or set report.database")
	}

	store, err := report.OpenStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if listRuns, _ := cmd.Flags().GetBool("runs"); listRuns {
		runs, err := store.Runs(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd, runs)
		}
		report.WriteRuns(out, runs)
		return nil
	}

	source, _ := cmd.Flags().GetString("source")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")
	rows, err := store.Search(ctx, report.QueryOptions{
		Query:      strings.Join(args, " "),
		DataSource: types.DataSource(source),
		RunID:      runID,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(cmd, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No results found.")
		return nil
	}
	report.WriteStoredRows(out, rows)
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
