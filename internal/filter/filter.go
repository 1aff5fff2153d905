// Package filter narrows batch run records by environment, batch type and
// run date range.
package filter

import (
	"strings"
	"time"

	"github.com/stanstork/batchboard-api/internal/models"
)

// All matches every environment or batch type.
const All = "ALL"

// Filters selects records. Empty Env/Type behave as All, nil bounds are open.
type Filters struct {
	Env  string     `json:"env"`
	Type string     `json:"type"`
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Default returns filters that match everything.
func Default() Filters {
	return Filters{Env: All, Type: All}
}

// Normalize upper-cases and trims Env and Type, mapping empty values to All.
func (f Filters) Normalize() Filters {
	f.Env = normalizeChoice(f.Env)
	f.Type = normalizeChoice(f.Type)
	return f
}

func normalizeChoice(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return All
	}
	return v
}

// Match reports whether rec satisfies every predicate in f.
func (f Filters) Match(rec models.BatchRunRecord) bool {
	f = f.Normalize()
	if f.Env != All && !strings.EqualFold(rec.Env, f.Env) {
		return false
	}
	if f.Type != All && !strings.EqualFold(string(rec.Type), f.Type) {
		return false
	}
	day := dayNumber(rec.RunDate)
	if f.From != nil && day < dayNumber(*f.From) {
		return false
	}
	if f.To != nil && day > dayNumber(*f.To) {
		return false
	}
	return true
}

// Apply returns the records matching f in their original order. It does not
// validate f: a From after To simply matches nothing.
func Apply(records []models.BatchRunRecord, f Filters) []models.BatchRunRecord {
	f = f.Normalize()
	out := make([]models.BatchRunRecord, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// dayNumber maps a time to a sortable calendar-day integer (YYYYMMDD) in its
// own location, so comparisons ignore time of day.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
