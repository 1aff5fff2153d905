package dashboard

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/models"
)

// Service resolves the feed source per call. A failing live source falls
// back to the mock feed.
type Service struct {
	useMock func() bool
	mock    Source
	live    Source
	logger  zerolog.Logger
}

func NewService(useMock func() bool, mock, live Source, logger zerolog.Logger) *Service {
	if useMock == nil {
		useMock = func() bool { return true }
	}
	return &Service{
		useMock: useMock,
		mock:    mock,
		live:    live,
		logger:  logger.With().Str("component", "dashboard").Logger(),
	}
}

func (s *Service) OverallStatus(ctx context.Context) (models.OverallStatus, error) {
	if s.useMock() || s.live == nil {
		return s.mock.OverallStatus(ctx)
	}
	status, err := s.live.OverallStatus(ctx)
	if err == nil {
		return status, nil
	}
	if ctx.Err() != nil {
		return models.OverallStatus{}, ctx.Err()
	}
	s.logger.Warn().Err(err).Msg("live overall status unavailable, serving mock data")
	return s.mock.OverallStatus(ctx)
}
