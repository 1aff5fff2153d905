package banner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stanstork/batchboard-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events []Event
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, event Event, _ models.Banner) error {
	n.events = append(n.events, event)
	return n.err
}

func TestService_Publish(t *testing.T) {
	inactive := false

	tests := []struct {
		name      string
		in        Input
		wantField string
		check     func(t *testing.T, b models.Banner)
	}{
		{
			name: "defaults",
			in:   Input{Message: "  batch window extended  "},
			check: func(t *testing.T, b models.Banner) {
				assert.Equal(t, "batch window extended", b.Message)
				assert.Equal(t, models.BannerSeverityInfo, b.Severity)
				assert.True(t, b.Active)
			},
		},
		{
			name: "explicit values",
			in:   Input{Message: "outage", Severity: "ERROR", Active: &inactive},
			check: func(t *testing.T, b models.Banner) {
				assert.Equal(t, models.BannerSeverityError, b.Severity)
				assert.False(t, b.Active)
			},
		},
		{name: "missing message", in: Input{Message: "   "}, wantField: "message"},
		{name: "message too long", in: Input{Message: strings.Repeat("x", 501)}, wantField: "message"},
		{name: "bad severity", in: Input{Message: "hi", Severity: "critical"}, wantField: "severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			svc := NewService(repository.NewMemoryBannerRepository(), zerolog.Nop(), notifier)

			b, err := svc.Publish(context.Background(), tt.in)
			if tt.wantField != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.wantField, verr.Field)
				assert.Empty(t, notifier.events)
				return
			}
			require.NoError(t, err)
			tt.check(t, b)
			assert.Equal(t, []Event{EventPublished}, notifier.events)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc := NewService(repository.NewMemoryBannerRepository(), zerolog.Nop(), notifier, nil)

	b, err := svc.Publish(ctx, Input{Message: "first"})
	require.NoError(t, err)

	sev := models.BannerSeverity("Warning")
	updated, err := svc.Update(ctx, b.ID, Patch{Severity: &sev})
	require.NoError(t, err)
	assert.Equal(t, models.BannerSeverityWarning, updated.Severity)
	assert.Equal(t, "first", updated.Message)
	assert.Equal(t, []Event{EventPublished, EventUpdated}, notifier.events)

	empty := " "
	_, err = svc.Update(ctx, b.ID, Patch{Message: &empty})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.Update(ctx, "nope", Patch{})
	assert.ErrorIs(t, err, repository.ErrBannerNotFound)
}

func TestService_ListActiveOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewService(repository.NewMemoryBannerRepository(), zerolog.Nop())

	off := false
	_, err := svc.Publish(ctx, Input{Message: "shown"})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, Input{Message: "hidden", Active: &off})
	require.NoError(t, err)

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "shown", active[0].Message)
}

func TestService_NotifierFailureDoesNotFailPublish(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := NewService(repository.NewMemoryBannerRepository(), zerolog.New(zerolog.NewTestWriter(t)), notifier)

	_, err := svc.Publish(context.Background(), Input{Message: "still stored"})
	assert.NoError(t, err)
	assert.Len(t, notifier.events, 1)
}

func TestNotifierChannelName(t *testing.T) {
	assert.Equal(t, "LogNotifier", notifierChannelName(NewLogNotifier(zerolog.Nop())))
	assert.Equal(t, "*banner.recordingNotifier", notifierChannelName(&recordingNotifier{}))
}
