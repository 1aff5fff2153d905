// Package banner manages operator announcements shown on the dashboard.
package banner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stanstork/batchboard-api/internal/repository"
)

const maxMessageLength = 500

// ValidationError reports a rejected banner field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Input is a banner create request.
type Input struct {
	Message  string
	Severity models.BannerSeverity
	Active   *bool
}

// Patch is a partial banner update.
type Patch struct {
	Message  *string
	Severity *models.BannerSeverity
	Active   *bool
}

type Service interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	Publish(ctx context.Context, in Input) (models.Banner, error)
	Update(ctx context.Context, id string, patch Patch) (models.Banner, error)
}

type service struct {
	repo      repository.BannerRepository
	logger    zerolog.Logger
	notifiers []Notifier
}

func NewService(repo repository.BannerRepository, logger zerolog.Logger, notifiers ...Notifier) Service {
	active := make([]Notifier, 0, len(notifiers))
	for _, notifier := range notifiers {
		if notifier != nil {
			active = append(active, notifier)
		}
	}
	return &service{
		repo:      repo,
		logger:    logger.With().Str("component", "banner_service").Logger(),
		notifiers: active,
	}
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	banners, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return banners, nil
	}
	out := make([]models.Banner, 0, len(banners))
	for _, b := range banners {
		if b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *service) Publish(ctx context.Context, in Input) (models.Banner, error) {
	message, err := validateMessage(in.Message)
	if err != nil {
		return models.Banner{}, err
	}
	severity, err := validateSeverity(in.Severity)
	if err != nil {
		return models.Banner{}, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	b, err := s.repo.Add(ctx, repository.CreateBannerParams{
		Message:  message,
		Severity: severity,
		Active:   active,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to store banner")
		return models.Banner{}, err
	}
	s.notify(ctx, EventPublished, b)
	return b, nil
}

func (s *service) Update(ctx context.Context, id string, patch Patch) (models.Banner, error) {
	params := repository.UpdateBannerParams{Active: patch.Active}
	if patch.Message != nil {
		message, err := validateMessage(*patch.Message)
		if err != nil {
			return models.Banner{}, err
		}
		params.Message = &message
	}
	if patch.Severity != nil {
		severity, err := validateSeverity(*patch.Severity)
		if err != nil {
			return models.Banner{}, err
		}
		params.Severity = &severity
	}

	b, err := s.repo.Update(ctx, strings.TrimSpace(id), params)
	if err != nil {
		return models.Banner{}, err
	}
	s.notify(ctx, EventUpdated, b)
	return b, nil
}

func (s *service) notify(ctx context.Context, event Event, b models.Banner) {
	for _, notifier := range s.notifiers {
		if err := notifier.Notify(ctx, event, b); err != nil {
			logNotifyError(s.logger, err, notifierChannelName(notifier), event, b)
		}
	}
}

func validateMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &ValidationError{Field: "message", Message: "message is required"}
	}
	if len(message) > maxMessageLength {
		return "", &ValidationError{Field: "message", Message: fmt.Sprintf("message must be at most %d characters", maxMessageLength)}
	}
	return message, nil
}

func validateSeverity(severity models.BannerSeverity) (models.BannerSeverity, error) {
	severity = models.BannerSeverity(strings.ToLower(strings.TrimSpace(string(severity))))
	if severity == "" {
		return models.BannerSeverityInfo, nil
	}
	if !severity.IsValid() {
		return "", &ValidationError{Field: "severity", Message: "severity must be info, warning or error"}
	}
	return severity, nil
}

func notifierChannelName(n Notifier) string {
	type named interface {
		String() string
	}
	if v, ok := n.(named); ok {
		return v.String()
	}
	return fmt.Sprintf("%T", n)
}
