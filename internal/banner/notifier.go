package banner

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/models"
)

type Event string

const (
	EventPublished Event = "banner_published"
	EventUpdated   Event = "banner_updated"
)

// Notifier is told about banner changes after they are stored.
type Notifier interface {
	Notify(ctx context.Context, event Event, banner models.Banner) error
}

// LogNotifier writes banner changes to the audit log.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("notifier", "log").Logger()}
}

func (n *LogNotifier) Notify(_ context.Context, event Event, b models.Banner) error {
	n.logger.Info().
		Str("banner_id", b.ID).
		Str("event_type", string(event)).
		Str("severity", string(b.Severity)).
		Bool("active", b.Active).
		Msg("banner changed")
	return nil
}

func (n *LogNotifier) String() string {
	return "LogNotifier"
}

func logNotifyError(logger zerolog.Logger, err error, channel string, event Event, b models.Banner) {
	if err == nil {
		return
	}
	logger.Warn().
		Err(err).
		Str("banner_id", b.ID).
		Str("event_type", string(event)).
		Str("channel", channel).
		Msg("failed to deliver banner notification")
}
