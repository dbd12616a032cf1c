// Package report renders end-of-run summaries for terminal output.
package report

import (
	"fmt"
	"io"
	"time"

	"sndcds/uranus-tools/internal/services"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// MaxSkippedRows caps the skipped-row listing.
const MaxSkippedRows = 20

// RenderImport writes the run summary and, when rows were skipped, the first
// MaxSkippedRows of them.
func RenderImport(w io.Writer, r *services.ImportResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Transport station import")
	t.AppendRows([]table.Row{
		{"Run ID", r.RunID},
		{"CSV", r.CSV},
		{"Rows read", r.RowsRead},
		{"Skipped", r.Skipped},
		{"Duplicates", r.Duplicates},
		{"Imported", r.Imported},
		{"Duration", r.Duration.Round(time.Millisecond)},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()

	if len(r.SkippedRows) == 0 {
		return
	}

	s := table.NewWriter()
	s.SetOutputMirror(w)
	s.SetStyle(table.StyleLight)
	s.AppendHeader(table.Row{"Line", "Reason"})
	for i, row := range r.SkippedRows {
		if i == MaxSkippedRows {
			s.AppendFooter(table.Row{"", fmt.Sprintf("%d more", len(r.SkippedRows)-MaxSkippedRows)})
			break
		}
		s.AppendRow(table.Row{row.Line, row.Reason})
	}
	s.Render()
}
