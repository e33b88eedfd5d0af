package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DailySchedule fires once a day at Hour:Minute in the trigger's location
type DailySchedule struct {
	Hour   int
	Minute int
}

// ParseCronSchedule reads a daily cron expression "minute hour * * *".
// Only fixed minute and hour fields are supported; the remaining fields
// must be "*".
func ParseCronSchedule(expr string) (DailySchedule, error) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return DailySchedule{}, fmt.Errorf("%w: %q needs 5 fields", ErrInvalidSchedule, expr)
	}
	for _, f := range parts[2:] {
		if f != "*" {
			return DailySchedule{}, fmt.Errorf("%w: %q only daily schedules are supported", ErrInvalidSchedule, expr)
		}
	}

	minute, err := strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return DailySchedule{}, fmt.Errorf("%w: minute must be 0-59 in %q", ErrInvalidSchedule, expr)
	}
	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return DailySchedule{}, fmt.Errorf("%w: hour must be 0-23 in %q", ErrInvalidSchedule, expr)
	}
	return DailySchedule{Hour: hour, Minute: minute}, nil
}

// Due reports whether now falls in the scheduled minute
func (s DailySchedule) Due(now time.Time) bool {
	return now.Hour() == s.Hour && now.Minute() == s.Minute
}

// Next returns the first scheduled time strictly after now
func (s DailySchedule) Next(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, s.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s DailySchedule) String() string {
	return fmt.Sprintf("%02d:%02d daily", s.Hour, s.Minute)
}
