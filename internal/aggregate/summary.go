package aggregate

import "github.com/stanstork/batchboard-api/internal/models"

// Summary computes headline numbers for the dashboard cards.
func Summary(records []models.BatchRunRecord) models.RunSummary {
	summary := models.RunSummary{
		ByStatus: make(map[models.RunStatus]int, len(models.RunStatuses)),
	}
	for _, status := range models.RunStatuses {
		summary.ByStatus[status] = 0
	}
	if len(records) == 0 {
		return summary
	}

	envs := make(map[string]struct{})
	days := make(map[string]struct{})
	total := 0.0
	for _, rec := range records {
		summary.ByStatus[rec.Status]++
		envs[rec.Env] = struct{}{}
		days[rec.RunDate.Format(dateKeyLayout)] = struct{}{}
		total += rec.DurationHrs
		if rec.DurationHrs > summary.MaxHrs {
			summary.MaxHrs = rec.DurationHrs
		}
	}

	summary.Total = len(records)
	summary.Environments = len(envs)
	summary.Days = len(days)
	summary.AvgHrs = round2(total / float64(len(records)))
	summary.MaxHrs = round2(summary.MaxHrs)
	summary.FailureRate = round2(float64(summary.ByStatus[models.RunStatusFailed]) / float64(len(records)) * 100)
	return summary
}
