// Package provider supplies batch run records to the SLA views from either the
// mock generator or a live source.
package provider

import (
	"context"

	"github.com/stanstork/batchboard-api/internal/models"
)

// DataProvider returns the batch runs of the last days calendar days,
// today included.
type DataProvider interface {
	GetData(ctx context.Context, days int) ([]models.BatchRunRecord, error)
}

// Func adapts a function to DataProvider.
type Func func(ctx context.Context, days int) ([]models.BatchRunRecord, error)

func (f Func) GetData(ctx context.Context, days int) ([]models.BatchRunRecord, error) {
	return f(ctx, days)
}
