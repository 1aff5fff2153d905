// Package aggregate turns batch run records into chart series and summaries.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stanstork/batchboard-api/internal/models"
)

// dateKeyLayout groups records by calendar day, ignoring time of day.
const dateKeyLayout = "01-02-2006"

// WeightFunc returns the weight a record of the given status carries in the
// weighted average.
type WeightFunc func(models.RunStatus) float64

// StatusWeights weighs failed runs up and pending runs down so the weighted
// line tracks the SLA target rather than the raw mean.
func StatusWeights(status models.RunStatus) float64 {
	switch status {
	case models.RunStatusFailed:
		return 1.5
	case models.RunStatusPending:
		return 0.8
	default:
		return 1.0
	}
}

// EqualWeights gives every record weight 1, so weighted == actual.
func EqualWeights(models.RunStatus) float64 {
	return 1.0
}

type group struct {
	date        time.Time
	sum         float64
	weightedSum float64
	weightTotal float64
	count       int
}

// Series groups records by run date and returns one point per distinct date,
// ascending. A nil weight function means EqualWeights. Empty input yields an
// empty series.
func Series(records []models.BatchRunRecord, weight WeightFunc) []models.SeriesPoint {
	if weight == nil {
		weight = EqualWeights
	}

	groups := make(map[string]*group)
	for _, rec := range records {
		key := rec.RunDate.Format(dateKeyLayout)
		g, ok := groups[key]
		if !ok {
			g = &group{date: models.DateOnly(rec.RunDate)}
			groups[key] = g
		}
		w := weight(rec.Status)
		g.sum += rec.DurationHrs
		g.weightedSum += rec.DurationHrs * w
		g.weightTotal += w
		g.count++
	}

	points := make([]models.SeriesPoint, 0, len(groups))
	for _, g := range groups {
		actual := g.sum / float64(g.count)
		weighted := actual
		if g.weightTotal > 0 {
			weighted = g.weightedSum / g.weightTotal
		}
		points = append(points, models.SeriesPoint{
			Date:           g.date,
			WeightedAvgHrs: round2(weighted),
			ActualAvgHrs:   round2(actual),
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
