package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/streakline/internal/constants"
)

// Clock returns the current time. Components take one so tests can pin "today".
type Clock func() time.Time

// SystemClock returns a Clock reading the wall clock in the given location.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CalendarDaysBetween returns how many calendar days `then` lies before `now`,
// judged in now's location. Negative when `then` is on a later day.
func CalendarDaysBetween(then, now time.Time) int {
	then = then.In(now.Location())
	// Compare civil dates in UTC so DST transitions do not skew the count
	a := time.Date(then.Year(), then.Month(), then.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// IsToday reports whether t falls on now's calendar day.
func IsToday(t, now time.Time) bool {
	return CalendarDaysBetween(t, now) == 0
}

// IsYesterday reports whether t falls on the calendar day before now's.
func IsYesterday(t, now time.Time) bool {
	return CalendarDaysBetween(t, now) == 1
}

// UTCDate returns the YYYY-MM-DD prefix of t's ISO 8601 rendering in UTC.
func UTCDate(t time.Time) string {
	return t.UTC().Format(constants.DateFormat)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
