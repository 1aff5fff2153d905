package provider

import (
	"context"
	"time"

	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stanstork/batchboard-api/internal/repository"
)

// StoreProvider reads run history from the batch scheduler's database.
type StoreProvider struct {
	repo repository.RunRepository
	now  func() time.Time
	loc  *time.Location
}

func NewStoreProvider(repo repository.RunRepository, now func() time.Time, loc *time.Location) *StoreProvider {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StoreProvider{repo: repo, now: now, loc: loc}
}

func (p *StoreProvider) GetData(ctx context.Context, days int) ([]models.BatchRunRecord, error) {
	if days <= 0 {
		return []models.BatchRunRecord{}, nil
	}
	from := models.DateOnly(p.now().In(p.loc)).AddDate(0, 0, -(days - 1))
	return p.repo.ListSince(ctx, from)
}
