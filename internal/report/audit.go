// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/faculty-scout/internal/resolve"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

// AuditEntry records how one person's row was decided.
type AuditEntry struct {
	Name               string                   `json:"name" yaml:"name"`
	AuthorID           string                   `json:"author_id,omitempty" yaml:"author_id,omitempty"`
	VerificationStatus types.VerificationStatus `json:"verification_status,omitempty" yaml:"verification_status,omitempty"`
	IsConfidentMatch   bool                     `json:"is_confident_match" yaml:"is_confident_match"`
	Confidence         types.Confidence         `json:"confidence" yaml:"confidence"`
	Reason             string                   `json:"reason,omitempty" yaml:"reason,omitempty"`
	DataSource         types.DataSource         `json:"data_source" yaml:"data_source"`
	Trace              []resolve.Step           `json:"trace" yaml:"trace"`
}

// AuditFile is the YAML document written next to a spreadsheet.
type AuditFile struct {
	RunID            string                   `yaml:"run_id,omitempty"`
	URL              string                   `yaml:"url"`
	University       string                   `yaml:"university"`
	StartedAt        time.Time                `yaml:"started_at"`
	Elapsed          string                   `yaml:"elapsed"`
	Dropped          int                      `yaml:"dropped"`
	LinksUnreachable bool                     `yaml:"links_unreachable"`
	Counts           map[types.DataSource]int `yaml:"counts"`
	People           []AuditEntry             `yaml:"people"`
}

// Audit returns one entry per result, in order.
func Audit(results []resolve.Result) []AuditEntry {
	entries := make([]AuditEntry, len(results))
	for i, r := range results {
		e := AuditEntry{
			Name:               r.Row.Name,
			VerificationStatus: r.Verdict.VerificationStatus,
			IsConfidentMatch:   r.Verdict.IsConfidentMatch,
			Confidence:         r.Confidence.Confidence,
			Reason:             r.Confidence.Reason,
			DataSource:         r.Row.DataSource,
			Trace:              r.Trace,
		}
		if r.Verdict.LockedAuthor != nil {
			e.AuthorID = r.Verdict.LockedAuthor.AuthorID
		}
		entries[i] = e
	}
	return entries
}

// AuditPath returns the audit file path matching a spreadsheet path.
func AuditPath(xlsxPath string) string {
	return strings.TrimSuffix(xlsxPath, filepath.Ext(xlsxPath)) + "-audit.yaml"
}

// WriteAudit writes run's audit trail to path as YAML.
func WriteAudit(path, runID string, run resolve.Run) error {
	doc := AuditFile{
		RunID:            runID,
		URL:              run.Target.URL,
		University:       run.Target.University,
		StartedAt:        run.StartedAt,
		Elapsed:          run.Summary.Elapsed.Round(time.Millisecond).String(),
		Dropped:          run.Dropped,
		LinksUnreachable: run.LinksUnreachable,
		Counts:           run.Summary.BySource,
		People:           Audit(run.Results),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling audit: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
