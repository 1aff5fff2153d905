package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the wire layout for calendar dates (runDate, lrd).
const DateLayout = "2006-01-02"

type BatchType string

const (
	BatchTypeBank BatchType = "BANK"
	BatchTypeCard BatchType = "CARD"
)

// BatchTypes lists the batch types in generation order.
var BatchTypes = []BatchType{BatchTypeBank, BatchTypeCard}

type RunStatus string

const (
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusPending   RunStatus = "PENDING"
)

// RunStatuses lists every run status in display order.
var RunStatuses = []RunStatus{RunStatusCompleted, RunStatusFailed, RunStatusPending}

// ParseBatchType normalises a batch type; ok is false for unknown values.
func ParseBatchType(s string) (BatchType, bool) {
	switch t := BatchType(strings.ToUpper(strings.TrimSpace(s))); t {
	case BatchTypeBank, BatchTypeCard:
		return t, true
	default:
		return "", false
	}
}

// ParseRunStatus normalises a run status. Job-oriented spellings from the
// status feed are folded into the SLA statuses.
func ParseRunStatus(s string) (RunStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COMPLETED", "SUCCEEDED":
		return RunStatusCompleted, true
	case "FAILED":
		return RunStatusFailed, true
	case "PENDING", "INPROGRESS", "NOTSTARTED", "RUNNING":
		return RunStatusPending, true
	default:
		return "", false
	}
}

// BatchRunRecord is one execution of a batch phase. The dashboard tables call
// it a report row.
type BatchRunRecord struct {
	ID          string
	RunDate     time.Time
	Type        BatchType
	LRD         time.Time
	Env         string
	Phase       string
	StartTime   *time.Time // nil when the run has not started
	EndTime     *time.Time // nil while the run is in progress
	DurationHrs float64
	Status      RunStatus
}

// InProgress reports whether the run has started but not finished.
func (r BatchRunRecord) InProgress() bool {
	return r.StartTime != nil && r.EndTime == nil
}

// DurationHours returns (end - start) in hours, or 0 when either timestamp is
// missing or the interval is negative.
func DurationHours(start, end *time.Time) float64 {
	if start == nil || end == nil {
		return 0
	}
	d := end.Sub(*start)
	if d < 0 {
		return 0
	}
	return d.Hours()
}

type batchRunRecordJSON struct {
	ID          string     `json:"id"`
	RunDate     string     `json:"runDate"`
	Type        BatchType  `json:"type"`
	LRD         string     `json:"lrd"`
	Env         string     `json:"env"`
	Phase       string     `json:"phase"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	DurationHrs float64    `json:"durationHrs"`
	Status      RunStatus  `json:"status"`
}

// MarshalJSON writes the dashboard wire form: calendar dates as YYYY-MM-DD and
// timestamps as RFC 3339.
func (r BatchRunRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(batchRunRecordJSON{
		ID:          r.ID,
		RunDate:     formatDate(r.RunDate),
		Type:        r.Type,
		LRD:         formatDate(r.LRD),
		Env:         r.Env,
		Phase:       r.Phase,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		DurationHrs: r.DurationHrs,
		Status:      r.Status,
	})
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b by their dates alone, so a
// day shortened or stretched by a DST change still counts as one.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}
