package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stanstork/batchboard-api/internal/export"
	"github.com/stanstork/batchboard-api/internal/models"
)

func renderJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderRecords(w io.Writer, records []models.BatchRunRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, 0, len(export.Header)+1)
	header = append(header, "ID")
	for _, col := range export.Header {
		header = append(header, col)
	}
	t.AppendHeader(header)

	for _, rec := range records {
		row := table.Row{rec.ID}
		for _, field := range export.Fields(rec) {
			row = append(row, field)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(records))
}

func renderSeries(w io.Writer, points []models.SeriesPoint, summary models.RunSummary) {
	if len(points) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Date", "Weighted Avg Hrs", "Actual Avg Hrs"})
	for _, p := range points {
		t.AppendRow(table.Row{
			p.Date.Format(models.DateLayout),
			fmt.Sprintf("%.2f", p.WeightedAvgHrs),
			fmt.Sprintf("%.2f", p.ActualAvgHrs),
		})
	}
	t.AppendFooter(table.Row{"Runs", summary.Total, fmt.Sprintf("avg %.2f / max %.2f", summary.AvgHrs, summary.MaxHrs)})
	t.Render()

	_, _ = fmt.Fprintf(w, "%d completed, %d failed, %d pending (%.2f%% failure rate)\n",
		summary.ByStatus[models.RunStatusCompleted],
		summary.ByStatus[models.RunStatusFailed],
		summary.ByStatus[models.RunStatusPending],
		summary.FailureRate,
	)
}
