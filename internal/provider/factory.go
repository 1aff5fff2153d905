package provider

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/models"
)

// Factory picks the mock or the live provider on every call, so a flag flipped
// at runtime takes effect on the next request.
type Factory struct {
	useMock func() bool
	mock    DataProvider
	live    DataProvider
	logger  zerolog.Logger
}

// NewFactory returns a Factory. A nil live provider always resolves to mock.
func NewFactory(useMock func() bool, mock, live DataProvider, logger zerolog.Logger) *Factory {
	if useMock == nil {
		useMock = func() bool { return true }
	}
	return &Factory{
		useMock: useMock,
		mock:    mock,
		live:    live,
		logger:  logger.With().Str("component", "data_provider").Logger(),
	}
}

const (
	SourceMock = "mock"
	SourceLive = "live"
)

// Source reports which provider the next call will use.
func (f *Factory) Source() string {
	source, _ := f.resolve()
	return source
}

// Provider resolves the provider for the current flag value.
func (f *Factory) Provider() DataProvider {
	_, p := f.resolve()
	return p
}

// resolve reads the flag once and returns the matching source and provider.
func (f *Factory) resolve() (string, DataProvider) {
	if f.useMock() || f.live == nil {
		return SourceMock, f.mock
	}
	return SourceLive, f.live
}

func (f *Factory) GetData(ctx context.Context, days int) ([]models.BatchRunRecord, error) {
	source, p := f.resolve()
	records, err := p.GetData(ctx, days)
	if err != nil {
		f.logger.Error().Err(err).Str("source", source).Int("days", days).Msg("failed to load sla data")
		return nil, err
	}
	f.logger.Debug().Str("source", source).Int("days", days).Int("records", len(records)).Msg("loaded sla data")
	return records, nil
}
