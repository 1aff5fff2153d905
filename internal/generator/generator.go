// Package generator builds synthetic batch run datasets for the SLA views.
package generator

import (
	"fmt"
	"time"

	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stanstork/batchboard-api/internal/seeded"
)

// DefaultEnvironments is the environment set used when none is configured.
var DefaultEnvironments = []string{"ASYS", "TSYS", "MST0", "OSYS", "ECT0", "QSYS", "VST0"}

// DefaultPhases is the phase set used when none is configured.
var DefaultPhases = []string{
	"VALIDATION",
	"EXTRACT",
	"AUTHORIZATION",
	"SETTLEMENT",
	"POSTING",
	"RECONCILIATION",
	"REPORTING",
	"CLEANUP",
}

const (
	minRecordsPerGroup = 2
	maxRecordsPerGroup = 4
	lrdLagProbability  = 0.3
	minutesPerDay      = 24 * 60
)

// Options configures a Generator. Zero values fall back to the defaults.
type Options struct {
	Seed         int64
	Environments []string
	Phases       []string
	Preset       Preset
	Now          func() time.Time
	Location     *time.Location
}

// Generator produces batch run records. It is deterministic for a given seed
// and reference day.
type Generator struct {
	opts Options
}

// New returns a Generator with defaults applied to opts.
func New(opts Options) *Generator {
	if len(opts.Environments) == 0 {
		opts.Environments = DefaultEnvironments
	}
	if len(opts.Phases) == 0 {
		opts.Phases = DefaultPhases
	}
	if opts.Preset.Name == "" {
		opts.Preset, _ = LookupPreset(DefaultPreset)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Generator{opts: opts}
}

// Generate returns records for the given number of calendar days ending today,
// inclusive. Records are ordered by date (oldest first), then environment,
// then batch type, then intra-day index. days <= 0 yields an empty slice.
func (g *Generator) Generate(days int) []models.BatchRunRecord {
	if days <= 0 {
		return []models.BatchRunRecord{}
	}

	rnd := seeded.New(g.opts.Seed)
	today := models.DateOnly(g.opts.Now().In(g.opts.Location))
	groups := days * len(g.opts.Environments) * len(models.BatchTypes)
	records := make([]models.BatchRunRecord, 0, groups*maxRecordsPerGroup)

	for offset := days - 1; offset >= 0; offset-- {
		runDate := today.AddDate(0, 0, -offset)
		for _, env := range g.opts.Environments {
			for _, batchType := range models.BatchTypes {
				count := rnd.Range(minRecordsPerGroup, maxRecordsPerGroup)
				for seq := 0; seq < count; seq++ {
					records = append(records, g.record(rnd, runDate, env, batchType, seq))
				}
			}
		}
	}
	return records
}

// record draws one run. The draw order (phase, status, start, duration, lrd)
// is part of the dataset contract: changing it changes every seeded dataset.
func (g *Generator) record(rnd *seeded.Random, runDate time.Time, env string, batchType models.BatchType, seq int) models.BatchRunRecord {
	phase := g.opts.Phases[rnd.Range(0, len(g.opts.Phases)-1)]
	status := pickStatus(rnd, g.opts.Preset.StatusDistribution)
	startMinute := rnd.Range(0, minutesPerDay-1)
	durationMinutes := rnd.Range(g.opts.Preset.DurationRange.Min, g.opts.Preset.DurationRange.Max)

	lrd := runDate
	if rnd.Chance(lrdLagProbability) {
		lrd = runDate.AddDate(0, 0, -1)
	}

	y, m, d := runDate.Date()
	start := time.Date(y, m, d, startMinute/60, startMinute%60, 0, 0, runDate.Location())
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	return models.BatchRunRecord{
		ID:          fmt.Sprintf("%s-%s-%s-%d", env, batchType, runDate.Format("20060102"), seq),
		RunDate:     runDate,
		Type:        batchType,
		LRD:         lrd,
		Env:         env,
		Phase:       phase,
		StartTime:   &start,
		EndTime:     &end,
		DurationHrs: float64(durationMinutes) / 60,
		Status:      status,
	}
}

// pickStatus samples the distribution with a single draw against the
// cumulative weights.
func pickStatus(rnd *seeded.Random, dist []StatusWeight) models.RunStatus {
	total := 0.0
	for _, sw := range dist {
		total += sw.Weight
	}
	x := rnd.Next() * total
	acc := 0.0
	for _, sw := range dist {
		acc += sw.Weight
		if x < acc {
			return sw.Status
		}
	}
	if len(dist) == 0 {
		return models.RunStatusCompleted
	}
	return dist[len(dist)-1].Status
}

// GenerateSlaData is a one-shot helper around New(...).Generate.
func GenerateSlaData(seed int64, days int, opts Options) []models.BatchRunRecord {
	opts.Seed = seed
	return New(opts).Generate(days)
}
