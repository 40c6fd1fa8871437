// Package dates works with calendar dates stored as fixed-width YYYY-MM-DD
// strings and wall-clock times stored as HH:MM. All derivations use the
// local timezone; converting through UTC shifts dates near midnight.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Compare orders two YYYY-MM-DD strings. The format is zero-padded and
// fixed-width, so byte order is calendar order.
func Compare(a, b string) int {
	return strings.Compare(a, b)
}

// LocalDateString returns the calendar date of t in the local timezone.
func LocalDateString(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// Today returns the current local calendar date.
func Today() string {
	return LocalDateString(time.Now())
}

// LocalDateTime splits t into its local date and HH:MM clock.
func LocalDateTime(t time.Time) (date, clock string) {
	lt := t.In(time.Local)
	return lt.Format(DateLayout), lt.Format(ClockLayout)
}

// Valid reports whether s is a real calendar date in YYYY-MM-DD form.
func Valid(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.ParseInLocation(DateLayout, s, time.Local)
	return err == nil
}

// ValidClock reports whether s is a HH:MM wall-clock time.
func ValidClock(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// Parse returns local midnight of the given date.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Combine returns the local instant for a date and an optional HH:MM clock.
// An empty clock means 00:00.
func Combine(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// AddDays shifts a date by n calendar days.
func AddDays(s string, n int) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}
