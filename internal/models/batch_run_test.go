package models

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{name: "same day", a: time.Date(2024, time.March, 15, 0, 0, 0, 0, ny), b: time.Date(2024, time.March, 15, 23, 59, 0, 0, ny), want: 0},
		{name: "utc week", a: time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC), b: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), want: 7},
		{name: "across spring forward", a: time.Date(2024, time.March, 8, 0, 0, 0, 0, ny), b: time.Date(2024, time.March, 15, 0, 0, 0, 0, ny), want: 7},
		{name: "across fall back", a: time.Date(2024, time.November, 1, 0, 0, 0, 0, ny), b: time.Date(2024, time.November, 4, 0, 0, 0, 0, ny), want: 3},
		{name: "reversed", a: time.Date(2024, time.March, 15, 0, 0, 0, 0, ny), b: time.Date(2024, time.March, 8, 0, 0, 0, 0, ny), want: -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestBatchRunRecord_InProgress(t *testing.T) {
	start := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	assert.True(t, BatchRunRecord{StartTime: &start}.InProgress())
	assert.False(t, BatchRunRecord{StartTime: &start, EndTime: &end}.InProgress())
	assert.False(t, BatchRunRecord{}.InProgress())
}
