// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/faculty-scout/internal/resolve"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

var summarySources = []types.DataSource{
	types.SourceS2Verified, types.SourceWebBio, types.SourceEmpty, types.SourceError,
}

// WriteSummary prints the per-source counts of a batch as a table. Terminals
// get rounded box drawing; pipes and files get plain ASCII. The university
// is printed above the table since a table title wraps to the column widths.
func WriteSummary(w io.Writer, university string, s resolve.BatchSummary) {
	fmt.Fprintln(w, university)
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Data_Source", "Rows"})
	for _, src := range summarySources {
		tw.AppendRow(table.Row{string(src), s.Count(src)})
	}
	tw.AppendFooter(table.Row{"Total", s.Total})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	tw.Render()
	fmt.Fprintf(w, "Elapsed: %s\n", s.Elapsed.Round(time.Second))
}

// WriteNoPeople reports a batch that extracted nobody, which is distinct
// from a batch whose rows failed.
func WriteNoPeople(w io.Writer, t resolve.Target) {
	fmt.Fprintf(w, "No faculty members found at %s (%s). Check the URL or try a different page.\n", t.URL, t.University)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
