package models

import (
	"encoding/json"
	"time"
)

// SeriesPoint is one chart point: average runtimes for a single run date.
type SeriesPoint struct {
	Date           time.Time `json:"date"`
	WeightedAvgHrs float64   `json:"weightedAvgHrs"`
	ActualAvgHrs   float64   `json:"actualAvgHrs"`
}

// RunSummary holds headline numbers for a filtered record set.
type RunSummary struct {
	Total        int               `json:"total"`
	ByStatus     map[RunStatus]int `json:"byStatus"`
	Environments int               `json:"environments"`
	Days         int               `json:"days"`
	AvgHrs       float64           `json:"avgHrs"`
	MaxHrs       float64           `json:"maxHrs"`
	FailureRate  float64           `json:"failureRate"` // failed/total, percent
}

func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date           string  `json:"date"`
		WeightedAvgHrs float64 `json:"weightedAvgHrs"`
		ActualAvgHrs   float64 `json:"actualAvgHrs"`
	}{formatDate(p.Date), p.WeightedAvgHrs, p.ActualAvgHrs})
}
