package provider

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/stanstork/batchboard-api/internal/generator"
	"github.com/stanstork/batchboard-api/internal/models"
)

// Latency is a simulated response delay range. A zero Max disables the delay.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

func (l Latency) draw() time.Duration {
	if l.Max <= 0 {
		return 0
	}
	if l.Max <= l.Min {
		return l.Max
	}
	return l.Min + rand.N(l.Max-l.Min+1)
}

// MockProvider serves generated data. With the same seed and day it returns
// the same records on every call.
type MockProvider struct {
	gen     *generator.Generator
	latency Latency
}

func NewMockProvider(gen *generator.Generator, latency Latency) *MockProvider {
	return &MockProvider{gen: gen, latency: latency}
}

func (p *MockProvider) GetData(ctx context.Context, days int) ([]models.BatchRunRecord, error) {
	if err := sleep(ctx, p.latency.draw()); err != nil {
		return nil, err
	}
	return p.gen.Generate(days), nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
