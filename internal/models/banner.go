package models

import "time"

type BannerSeverity string

const (
	BannerSeverityInfo    BannerSeverity = "info"
	BannerSeverityWarning BannerSeverity = "warning"
	BannerSeverityError   BannerSeverity = "error"
)

// IsValid reports whether s is a known severity.
func (s BannerSeverity) IsValid() bool {
	switch s {
	case BannerSeverityInfo, BannerSeverityWarning, BannerSeverityError:
		return true
	}
	return false
}

// Banner is an operator announcement shown at the top of the dashboard.
type Banner struct {
	ID        string         `json:"id"`
	Message   string         `json:"message"`
	Severity  BannerSeverity `json:"severity"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
