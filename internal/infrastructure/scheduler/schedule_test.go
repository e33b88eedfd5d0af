package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronSchedule(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want DailySchedule
	}{
		{"one am", "0 1 * * *", DailySchedule{Hour: 1}},
		{"half past three", "30 3 * * *", DailySchedule{Hour: 3, Minute: 30}},
		{"midnight", "0 0 * * *", DailySchedule{}},
		{"extra whitespace", "  15   4   *   *   *  ", DailySchedule{Hour: 4, Minute: 15}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCronSchedule(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCronSchedule_Invalid(t *testing.T) {
	for _, expr := range []string{"", "0 1", "60 1 * * *", "0 24 * * *", "*/5 * * * *", "0 1 * * 1", "a b * * *"} {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseCronSchedule(expr)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestDailySchedule_DueAndNext(t *testing.T) {
	s := DailySchedule{Hour: 8, Minute: 0}

	assert.True(t, s.Due(time.Date(2024, 5, 1, 8, 0, 42, 0, time.UTC)))
	assert.False(t, s.Due(time.Date(2024, 5, 1, 8, 1, 0, 0, time.UTC)))

	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), s.Next(time.Date(2024, 5, 1, 7, 59, 0, 0, time.UTC)))
	assert.Equal(t, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC), s.Next(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "08:00 daily", s.String())
}
