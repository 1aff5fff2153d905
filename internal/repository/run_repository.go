package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/stanstork/batchboard-api/internal/models"
)

// RunRepository reads batch run history from the scheduler's system of record.
// It never writes.
type RunRepository interface {
	ListSince(ctx context.Context, from time.Time) ([]models.BatchRunRecord, error)
	Ping(ctx context.Context) error
}

type runRepository struct {
	db  *sql.DB
	loc *time.Location
}

// NewRunRepository returns a repository over db. Dates are reported in loc
// (UTC when nil).
func NewRunRepository(db *sql.DB, loc *time.Location) RunRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &runRepository{db: db, loc: loc}
}

func (r *runRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *runRepository) ListSince(ctx context.Context, from time.Time) ([]models.BatchRunRecord, error) {
	const query = `
		SELECT id, run_date, batch_type, lrd, env, phase, start_time, end_time, status
		FROM ops.batch_runs
		WHERE run_date >= $1
		ORDER BY run_date ASC, env ASC, batch_type ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, from.Format(models.DateLayout))
	if err != nil {
		return nil, errors.Wrap(err, "query batch runs")
	}
	defer rows.Close()

	records := []models.BatchRunRecord{}
	for rows.Next() {
		rec, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate batch runs")
	}
	return records, nil
}

func (r *runRepository) scanRun(scanner interface {
	Scan(dest ...interface{}) error
}) (models.BatchRunRecord, error) {
	var (
		rec        models.BatchRunRecord
		runDate    time.Time
		lrd        time.Time
		batchType  string
		status     string
		start, end sql.NullTime
	)

	if err := scanner.Scan(
		&rec.ID,
		&runDate,
		&batchType,
		&lrd,
		&rec.Env,
		&rec.Phase,
		&start,
		&end,
		&status,
	); err != nil {
		return models.BatchRunRecord{}, errors.Wrap(err, "scan batch run")
	}

	bt, ok := models.ParseBatchType(batchType)
	if !ok {
		return models.BatchRunRecord{}, errors.Errorf("batch run %s: unknown batch type %q", rec.ID, batchType)
	}
	st, ok := models.ParseRunStatus(status)
	if !ok {
		return models.BatchRunRecord{}, errors.Errorf("batch run %s: unknown status %q", rec.ID, status)
	}

	rec.Type = bt
	rec.Status = st
	rec.RunDate = calendarDate(runDate, r.loc)
	rec.LRD = calendarDate(lrd, r.loc)
	if start.Valid {
		t := start.Time.In(r.loc)
		rec.StartTime = &t
	}
	if end.Valid {
		t := end.Time.In(r.loc)
		rec.EndTime = &t
	}
	rec.DurationHrs = models.DurationHours(rec.StartTime, rec.EndTime)
	return rec, nil
}

// calendarDate keeps the stored Y/M/D (postgres DATE columns arrive as UTC
// midnight) and re-anchors it in loc.
func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
