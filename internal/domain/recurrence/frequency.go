package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
)

// Frequency is the cadence of a recurring template
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyBiweekly  Frequency = "BIWEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

// ErrInvalidFrequency is returned for unknown cadences
var ErrInvalidFrequency = shared.NewDomainError("INVALID_FREQUENCY", "Frequency is not valid")

// IsValid checks if the frequency is known
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly,
		FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// Advance returns the next occurrence after date for the frequency.
// It adds one calendar unit with time.AddDate, so month arithmetic
// normalizes overflow forward: 2024-01-31 + 1 month is 2024-03-02.
// Two monthly steps equal two calendar months only when the day of month
// exists in the intermediate month; from 2024-01-31 they reach 2024-04-02,
// not 2024-03-31. The result depends only on the arguments.
func Advance(date time.Time, f Frequency) (time.Time, error) {
	switch f {
	case FrequencyDaily:
		return date.AddDate(0, 0, 1), nil
	case FrequencyWeekly:
		return date.AddDate(0, 0, 7), nil
	case FrequencyBiweekly:
		return date.AddDate(0, 0, 14), nil
	case FrequencyMonthly:
		return date.AddDate(0, 1, 0), nil
	case FrequencyQuarterly:
		return date.AddDate(0, 3, 0), nil
	case FrequencyYearly:
		return date.AddDate(1, 0, 0), nil
	}
	return time.Time{}, ErrInvalidFrequency
}

// CatchUpPolicy decides how many periods one processing pass settles
type CatchUpPolicy string

const (
	// CatchUpSingle materializes at most one entry per template per pass
	CatchUpSingle CatchUpPolicy = "single"
	// CatchUpAll materializes every elapsed period, bounded by a maximum
	CatchUpAll CatchUpPolicy = "catch_up"
)

// ParseCatchUpPolicy parses a configured policy name
func ParseCatchUpPolicy(s string) (CatchUpPolicy, error) {
	switch CatchUpPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CatchUpSingle:
		return CatchUpSingle, nil
	case CatchUpAll:
		return CatchUpAll, nil
	}
	return "", fmt.Errorf("unknown catch-up policy %q", s)
}
