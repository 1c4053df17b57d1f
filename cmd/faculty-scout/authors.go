// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/faculty-scout/internal/match"
	"github.com/pdiddy/faculty-scout/internal/report"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

var authorsCmd = &cobra.Command{
	Use:   "authors [name]",
	Short: "Search Semantic Scholar for a name and show the matcher's verdict",
	Long: `Authors runs every search stage for a name, lists the distinct candidates
in stage order and then shows which author the matcher locks and why. It
needs no language model credential.`,
	Args: cobra.ExactArgs(1),
	RunE: runAuthors,
}

func init() {
	authorsCmd.Flags().String("affiliation", "", "university to match against")
	authorsCmd.Flags().String("keyword", "", "discipline keyword for the second search stage")
	authorsCmd.Flags().StringArray("anchor", nil, "known paper title (repeatable, at most 2)")

	rootCmd.AddCommand(authorsCmd)
}

func runAuthors(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stack, err := newScholarStack(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	affiliation, _ := cmd.Flags().GetString("affiliation")
	keyword, _ := cmd.Flags().GetString("keyword")
	anchors, _ := cmd.Flags().GetStringArray("anchor")
	if len(anchors) > types.MaxAnchorTitles {
		anchors = anchors[:types.MaxAnchorTitles]
	}
	out := cmd.OutOrStdout()

	for _, q := range stack.searcher.Plan(args[0], affiliation, keyword) {
		fmt.Fprintf(out, "stage %s: %q (limit %d)\n", q.Stage, q.Text, q.Limit)
	}
	candidates, err := stack.searcher.Search(ctx, args[0], affiliation, keyword)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No candidates found.")
		return nil
	}
	report.WriteCandidates(out, candidates)

	verdict, err := stack.matcher.Match(ctx, match.Target{
		Name:        args[0],
		Affiliation: affiliation,
		Keyword:     keyword,
		Anchors:     anchors,
	})
	if err != nil {
		return err
	}
	if verdict.LockedAuthor == nil {
		fmt.Fprintf(out, "\nNo author locked (strictness %s).\n", cfg.Match.Strictness)
		return nil
	}

	a := verdict.LockedAuthor
	fmt.Fprintf(out, "\nLocked %s (%s): %s, confident=%t\n", a.Name, a.AuthorID, verdict.VerificationStatus, verdict.IsConfidentMatch)
	for _, p := range a.Papers {
		fmt.Fprintf(out, "  %d  %s\n", p.Year, p.Title)
	}
	return nil
}
