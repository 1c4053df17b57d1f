// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/faculty-scout/internal/resolve"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

var personCmd = &cobra.Command{
	Use:   "person [name]",
	Short: "Resolve one person and print the row with its decision trace",
	Long: `Person runs the identity resolution and summary fallback chain for a
single person and prints the resulting row, verdict, confidence and trace as
YAML. With --profile the profile page is fetched and extracted first.`,
	Args: cobra.ExactArgs(1),
	RunE: runPerson,
}

func init() {
	personCmd.Flags().String("affiliation", "", "university the person belongs to (required)")
	personCmd.Flags().String("keyword", "", "discipline keyword for the second search stage")
	personCmd.Flags().String("profile", "", "profile page URL to enrich from")
	personCmd.Flags().String("bio", "", "biography text used when no profile page is given")
	personCmd.Flags().StringArray("anchor", nil, "known paper title (repeatable, at most 2)")
	_ = personCmd.MarkFlagRequired("affiliation")

	rootCmd.AddCommand(personCmd)
}

func runPerson(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	affiliation, _ := cmd.Flags().GetString("affiliation")
	keyword, _ := cmd.Flags().GetString("keyword")
	profile, _ := cmd.Flags().GetString("profile")
	bio, _ := cmd.Flags().GetString("bio")
	anchors, _ := cmd.Flags().GetStringArray("anchor")
	if len(anchors) > types.MaxAnchorTitles {
		anchors = anchors[:types.MaxAnchorTitles]
	}

	person := types.ScrapedPerson{
		Name:              args[0],
		ProfileLink:       profile,
		BioText:           bio,
		RecentPaperTitles: anchors,
	}
	if profile != "" {
		person = a.pipeline.Enrich(ctx, person)
	}
	if keyword == "" {
		keyword = cfg.Resolve.Keyword
	}

	res := a.orchestrator.Resolve(ctx, person, affiliation, keyword)
	return writeYAML(cmd, personView(res))
}

// personOutput is the YAML shape printed by the person command.
type personOutput struct {
	Row        types.OutputRow        `yaml:"row"`
	AuthorID   string                 `yaml:"author_id,omitempty"`
	Status     string                 `yaml:"verification_status,omitempty"`
	Confident  bool                   `yaml:"is_confident_match"`
	Confidence types.ConfidenceResult `yaml:"confidence"`
	Trace      []resolve.Step         `yaml:"trace"`
}

func personView(res resolve.Result) personOutput {
	out := personOutput{
		Row:        res.Row,
		Status:     string(res.Verdict.VerificationStatus),
		Confident:  res.Verdict.IsConfidentMatch,
		Confidence: res.Confidence,
		Trace:      res.Trace,
	}
	if res.Verdict.LockedAuthor != nil {
		out.AuthorID = res.Verdict.LockedAuthor.AuthorID
	}
	return out
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
