package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(t time.Time) *time.Time { return &t }

func TestToDaysHrsMins(t *testing.T) {
	start := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want string
	}{
		{name: "zero", end: start, want: "0:00:00"},
		{name: "ninety minutes", end: start.Add(90 * time.Minute), want: "0:01:30"},
		{name: "seconds truncated", end: start.Add(59 * time.Second), want: "0:00:00"},
		{name: "over a day", end: start.Add(26*time.Hour + 5*time.Minute), want: "1:02:05"},
		{name: "negative clamps", end: start.Add(-time.Hour), want: "0:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDaysHrsMins(start, tt.end))
		})
	}
}

func TestCSV_Empty(t *testing.T) {
	out := CSV(nil)
	assert.Equal(t, `"Run Date","Type","LRD","ENV","Phase","Start Time","End Time","Duration","Status"`+"\n", string(out))
}

func TestCSV_Row(t *testing.T) {
	start := time.Date(2024, time.March, 5, 23, 10, 5, 0, time.UTC)
	rows := []models.BatchRunRecord{
		{
			RunDate:   time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			LRD:       time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
			Type:      models.BatchTypeCard,
			Env:       "ASYS",
			Phase:     `SETTLE "EOD"`,
			StartTime: tp(start),
			EndTime:   tp(start.Add(2*time.Hour + 15*time.Minute)),
			Status:    models.RunStatusCompleted,
		},
		{
			RunDate:   time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
			LRD:       time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
			Type:      models.BatchTypeBank,
			Env:       "TSYS",
			Phase:     "POSTING",
			StartTime: tp(start),
			Status:    models.RunStatusPending,
		},
	}

	lines := bytes.Split(bytes.TrimRight(CSV(rows), "\n"), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, `"03-05-2024","CARD","03-04-2024","ASYS","SETTLE ""EOD""","23:10:05","01:25:05","0:02:15","COMPLETED"`, string(lines[1]))
	assert.Equal(t, `"03-06-2024","BANK","03-06-2024","TSYS","POSTING","23:10:05","","","PENDING"`, string(lines[2]))
}

func TestCSV_RoundTrip(t *testing.T) {
	var rows []models.BatchRunRecord
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		start := base.AddDate(0, 0, i%4).Add(time.Duration(i) * time.Hour)
		rows = append(rows, models.BatchRunRecord{
			RunDate:   base.AddDate(0, 0, i%4),
			LRD:       base.AddDate(0, 0, i%4),
			Type:      models.BatchTypes[i%2],
			Env:       "MST0",
			Phase:     "a,b",
			StartTime: tp(start),
			EndTime:   tp(start.Add(time.Duration(i*7) * time.Minute)),
			Status:    models.RunStatuses[i%3],
		})
	}

	records, err := csv.NewReader(bytes.NewReader(CSV(rows))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)
	assert.Equal(t, Header, records[0])
	for i, rec := range records[1:] {
		assert.Equal(t, rows[i].RunDate.Format("01-02-2006"), rec[0])
		assert.Equal(t, string(rows[i].Status), rec[8])
		assert.Equal(t, "a,b", rec[4])
	}
}

func TestCSV_Deterministic(t *testing.T) {
	start := time.Date(2024, time.March, 1, 1, 2, 3, 0, time.UTC)
	rows := []models.BatchRunRecord{{RunDate: start, LRD: start, StartTime: tp(start), EndTime: tp(start), Status: models.RunStatusFailed}}
	assert.Equal(t, CSV(rows), CSV(rows))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_PropagatesWriteError(t *testing.T) {
	err := WriteCSV(failingWriter{}, nil)
	assert.EqualError(t, err, "disk full")
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, time.March, 9, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "sla-application-details-2024-03-09.csv", Filename(now))
}

func TestFields_DurationNeedsBothTimestamps(t *testing.T) {
	start := time.Date(2024, time.March, 5, 8, 0, 0, 0, time.UTC)
	end := start.Add(75 * time.Minute)

	tests := []struct {
		name string
		row  models.BatchRunRecord
		want string
	}{
		{name: "finished", row: models.BatchRunRecord{StartTime: tp(start), EndTime: tp(end)}, want: "0:01:15"},
		{name: "in progress", row: models.BatchRunRecord{StartTime: tp(start)}, want: ""},
		{name: "not started", row: models.BatchRunRecord{}, want: ""},
		{name: "end without start", row: models.BatchRunRecord{EndTime: tp(end)}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.row)[7])
		})
	}
}
