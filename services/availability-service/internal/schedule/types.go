package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/openhours/services/availability-service/internal/bitset"
)

const dateLayout = "2006-01-02"

// ErrValidation marks caller-fixable input errors. They are raised before any
// store access and are never retried.
var ErrValidation = errors.New("validation")

// Entry is one schedule line supplied by a caller: a calendar date plus a
// window in minutes since midnight. An entry whose end is at or before its
// start is interpreted as crossing midnight and split during save.
type Entry struct {
	Date  time.Time
	Start int
	End   int
}

// WeekMap is the human-facing availability view: date ("2006-01-02") to the
// merged, ordered windows declared open on that date.
type WeekMap map[string][]bitset.Window

// ParseDate parses a calendar date in the wire format, normalized to UTC
// midnight. All dates in this engine are provider-local wall-clock dates.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return d, nil
}

// WeekStartOf returns the Monday of the week containing day.
func WeekStartOf(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func checkWeekStart(weekStart time.Time) error {
	if weekStart.Weekday() != time.Monday {
		return fmt.Errorf("%w: week start %s is not a Monday", ErrValidation, weekStart.Format(dateLayout))
	}
	return nil
}

func windowsEqual(a, b []bitset.Window) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
