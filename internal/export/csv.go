// Package export renders SLA table rows as downloadable reports.
package export

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/stanstork/batchboard-api/internal/models"
)

const (
	csvDateLayout = "01-02-2006"
	csvTimeLayout = "15:04:05"
	filenameStem  = "sla-application-details"
)

// Header is the fixed column order of the SLA export.
var Header = []string{"Run Date", "Type", "LRD", "ENV", "Phase", "Start Time", "End Time", "Duration", "Status"}

// WriteCSV writes rows with every field double-quoted and embedded quotes
// doubled. Output is byte-identical for identical input.
func WriteCSV(w io.Writer, rows []models.BatchRunRecord) error {
	bw := bufio.NewWriter(w)
	if err := writeLine(bw, Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeLine(bw, Fields(row)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// CSV returns the export as bytes.
func CSV(rows []models.BatchRunRecord) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	_ = WriteCSV(&buf, rows)
	return buf.Bytes()
}

// Fields returns the export columns for one row.
func Fields(row models.BatchRunRecord) []string {
	return []string{
		formatDate(row.RunDate),
		string(row.Type),
		formatDate(row.LRD),
		row.Env,
		row.Phase,
		formatClock(row.StartTime),
		formatClock(row.EndTime),
		durationField(row),
		string(row.Status),
	}
}

func writeLine(w *bufio.Writer, fields []string) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(csvDateLayout)
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(csvTimeLayout)
}

// durationField is empty until the run has both started and finished.
func durationField(row models.BatchRunRecord) string {
	if row.StartTime == nil || row.InProgress() {
		return ""
	}
	return ToDaysHrsMins(*row.StartTime, *row.EndTime)
}

// ToDaysHrsMins formats end-start as D:HH:MM. Negative spans render as 0:00:00.
func ToDaysHrsMins(start, end time.Time) string {
	total := int(end.Sub(start) / time.Minute)
	if total < 0 {
		total = 0
	}
	days := total / (24 * 60)
	hours := (total % (24 * 60)) / 60
	mins := total % 60
	return fmt.Sprintf("%d:%02d:%02d", days, hours, mins)
}

// Filename returns the download name for an export taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", filenameStem, now.Format(models.DateLayout))
}
