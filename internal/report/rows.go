// Package report orders and pages SLA table rows.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stanstork/batchboard-api/internal/models"
)

// Sort keys accepted by SortRows.
const (
	SortRunDate   = "runDate"
	SortType      = "type"
	SortLRD       = "lrd"
	SortEnv       = "env"
	SortPhase     = "phase"
	SortStartTime = "startTime"
	SortEndTime   = "endTime"
	SortDuration  = "duration"
	SortStatus    = "status"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 500
)

type lessFunc func(a, b models.BatchRunRecord) bool

var sorters = map[string]lessFunc{
	SortRunDate:   func(a, b models.BatchRunRecord) bool { return a.RunDate.Before(b.RunDate) },
	SortType:      func(a, b models.BatchRunRecord) bool { return a.Type < b.Type },
	SortLRD:       func(a, b models.BatchRunRecord) bool { return a.LRD.Before(b.LRD) },
	SortEnv:       func(a, b models.BatchRunRecord) bool { return a.Env < b.Env },
	SortPhase:     func(a, b models.BatchRunRecord) bool { return a.Phase < b.Phase },
	SortStartTime: func(a, b models.BatchRunRecord) bool { return timeBefore(a.StartTime, b.StartTime) },
	SortEndTime:   func(a, b models.BatchRunRecord) bool { return timeBefore(a.EndTime, b.EndTime) },
	SortDuration:  func(a, b models.BatchRunRecord) bool { return a.DurationHrs < b.DurationHrs },
	SortStatus:    func(a, b models.BatchRunRecord) bool { return a.Status < b.Status },
}

// missing timestamps sort last
func timeBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// ValidSortKey reports whether key is a known sort column.
func ValidSortKey(key string) bool {
	_, ok := sorters[key]
	return ok
}

// SortRows returns a sorted copy of rows. Sorting is stable, so equal keys
// keep generation order. An empty key leaves the order unchanged.
func SortRows(rows []models.BatchRunRecord, key string, desc bool) ([]models.BatchRunRecord, error) {
	out := make([]models.BatchRunRecord, len(rows))
	copy(out, rows)
	if key == "" {
		return out, nil
	}
	less, ok := sorters[key]
	if !ok {
		return nil, fmt.Errorf("unknown sort key %q", key)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out, nil
}

// ParseOrder maps "asc"/"desc" (any case) to a descending flag.
func ParseOrder(order string) (desc bool, err error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
		return false, nil
	case "desc":
		return true, nil
	default:
		return false, fmt.Errorf("order must be asc or desc")
	}
}

// Page is one page of table rows.
type Page struct {
	Rows     []models.BatchRunRecord `json:"rows"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
	Pages    int                     `json:"pages"`
}

// Paginate slices rows into 1-based pages. Out of range pages are empty;
// non-positive inputs fall back to page 1 and DefaultPageSize.
func Paginate(rows []models.BatchRunRecord, page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	p := Page{
		Rows:     []models.BatchRunRecord{},
		Total:    len(rows),
		Page:     page,
		PageSize: size,
		Pages:    (len(rows) + size - 1) / size,
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return p
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	p.Rows = rows[start:end]
	return p
}
