// Package dashboard serves the overall batch status feed.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/stanstork/batchboard-api/internal/generator"
	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stanstork/batchboard-api/internal/seeded"
)

// TimestampLayout formats feed timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultDelay is the simulated response time of the mock feed.
const DefaultDelay = 300 * time.Millisecond

// Source produces an overall status snapshot.
type Source interface {
	OverallStatus(ctx context.Context) (models.OverallStatus, error)
}

type MockOptions struct {
	Seed         int64
	Environments []string
	Phases       []string
	Delay        time.Duration
	Now          func() time.Time
	Location     *time.Location
}

// MockSource builds a plausible snapshot for the current day. The shape of a
// day's snapshot depends only on the seed and the date; progress is measured
// against the clock.
type MockSource struct {
	opts MockOptions
}

func NewMockSource(opts MockOptions) *MockSource {
	if len(opts.Environments) == 0 {
		opts.Environments = generator.DefaultEnvironments
	}
	if len(opts.Phases) == 0 {
		opts.Phases = generator.DefaultPhases
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &MockSource{opts: opts}
}

func (m *MockSource) OverallStatus(ctx context.Context) (models.OverallStatus, error) {
	if m.opts.Delay > 0 {
		timer := time.NewTimer(m.opts.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.OverallStatus{}, ctx.Err()
		case <-timer.C:
		}
	}
	return m.Snapshot(m.opts.Now().In(m.opts.Location)), nil
}

// Snapshot returns the feed as of now without the simulated delay.
func (m *MockSource) Snapshot(now time.Time) models.OverallStatus {
	today := models.DateOnly(now)
	rnd := seeded.New(m.opts.Seed + int64(today.YearDay()) + int64(today.Year())*1000)

	details := make([]models.EnvironmentBatches, 0, len(m.opts.Environments))
	for _, env := range m.opts.Environments {
		entries := make([]models.BatchStatusEntry, 0, len(models.BatchTypes))
		for _, batchType := range models.BatchTypes {
			entries = append(entries, m.entry(rnd, now, today, env, batchType))
		}
		details = append(details, models.EnvironmentBatches{Environment: env, OverallBatchStatus: entries})
	}
	return models.OverallStatus{
		LastRefresh:  now.Format(TimestampLayout),
		BatchDetails: details,
	}
}

func (m *MockSource) entry(rnd *seeded.Random, now, today time.Time, env string, batchType models.BatchType) models.BatchStatusEntry {
	phases := m.opts.Phases
	startMinute := rnd.Range(0, 8*60)
	runMinutes := rnd.Range(60, 6*60)
	failAt := -1
	if rnd.Chance(0.1) {
		failAt = rnd.Range(0, len(phases)-1)
	}
	lrd := today
	if rnd.Chance(0.3) {
		lrd = today.AddDate(0, 0, -1)
	}

	y, mo, d := today.Date()
	start := time.Date(y, mo, d, startMinute/60, startMinute%60, 0, 0, today.Location())
	end := start.Add(time.Duration(runMinutes) * time.Minute)

	e := models.BatchStatusEntry{
		BatchID:   fmt.Sprintf("%s-%s-%s", env, batchType, today.Format("20060102")),
		BatchType: batchType,
		RunDate:   today.Format(models.DateLayout),
		LRD:       lrd.Format(models.DateLayout),
		ETA:       end.Format(TimestampLayout),
		Phase:     make(map[string]models.PhaseStatus, len(phases)),
	}

	// phases completed so far, proportional to elapsed runtime
	done := 0
	switch {
	case now.Before(start):
		e.Status = models.JobStatusNotStarted
	case !now.Before(end):
		e.Status = models.JobStatusCompleted
		done = len(phases)
	default:
		e.Status = models.JobStatusInProgress
		done = int(float64(len(phases)) * now.Sub(start).Minutes() / float64(runMinutes))
	}
	if failAt >= 0 && e.Status != models.JobStatusNotStarted && done > failAt {
		e.Status = models.JobStatusFailed
		done = failAt
	}

	for i, name := range phases {
		var st models.JobStatus
		switch {
		case i < done:
			st = models.JobStatusCompleted
		case i == done && e.Status == models.JobStatusInProgress:
			st = models.JobStatusInProgress
		case i == done && e.Status == models.JobStatusFailed:
			st = models.JobStatusFailed
		default:
			st = models.JobStatusNotStarted
		}
		e.Phase[name] = models.PhaseStatus{Status: st}
	}

	completion := 0
	if len(phases) > 0 {
		completion = done * 100 / len(phases)
	}
	e.Completion = fmt.Sprintf("%d%%", completion)

	if e.Status != models.JobStatusNotStarted {
		e.StartTime = start.Format(TimestampLayout)
		until := now
		if e.Status == models.JobStatusCompleted {
			e.EndTime = end.Format(TimestampLayout)
			until = end
		}
		e.Days, e.Hours, e.Mins = splitElapsed(until.Sub(start))
	}
	return e
}

func splitElapsed(d time.Duration) (days, hours, mins int) {
	if d < 0 {
		return 0, 0, 0
	}
	total := int(d / time.Minute)
	return total / (24 * 60), total % (24 * 60) / 60, total % 60
}
