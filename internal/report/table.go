// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/faculty-scout/pkg/types"
)

const cellWidth = 60

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if isTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	return tw
}

// WriteCandidates prints search candidates in stage order.
func WriteCandidates(w io.Writer, candidates []types.CandidateAuthor) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"#", "Author ID", "Name", "Affiliations", "Papers", "Citations"})
	for i, c := range candidates {
		tw.AppendRow(table.Row{i + 1, c.AuthorID, c.Name, strings.Join(c.Affiliations, "; "), c.PaperCount, c.CitationCount})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: cellWidth},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.Render()
}

// WriteStoredRows prints rows from the run store.
func WriteStoredRows(w io.Writer, rows []StoredRow) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Name", "University", "Data_Source", "Confidence", "Research_Summary"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.Name, r.University, string(r.DataSource), string(r.Confidence), r.ResearchSummary})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, WidthMax: cellWidth},
	})
	tw.Render()
}

// WriteRuns prints stored runs.
func WriteRuns(w io.Writer, runs []RunRecord) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Run", "Started", "University", "Rows", "Spreadsheet"})
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		tw.AppendRow(table.Row{id, r.StartedAt.Local().Format("2006-01-02 15:04"), r.University, r.Total, r.Spreadsheet})
	}
	tw.Render()
}
