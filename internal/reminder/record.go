// Package reminder classifies, sorts and mutates reminder records.
package reminder

import (
	"fmt"

	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/store"
)

var priorityRank = map[string]int{
	store.PriorityHigh:   3,
	store.PriorityMedium: 2,
	store.PriorityLow:    1,
	store.PriorityNone:   0,
}

// Normalize migrates a stored record to the current shape. Legacy records
// without a blockId point at their own ID, unknown priorities become none,
// an endDate equal to date is dropped and endTime without time is dropped.
func Normalize(r store.Reminder) store.Reminder {
	if r.BlockID == "" {
		r.BlockID = r.ID
	}
	if _, ok := priorityRank[r.Priority]; !ok {
		r.Priority = store.PriorityNone
	}
	if r.EndDate == r.Date {
		r.EndDate = ""
	}
	if r.Time == "" {
		r.EndTime = ""
	}
	return r
}

// NormalizeSnapshot applies Normalize to every record in place.
func NormalizeSnapshot(snap store.Snapshot) store.Snapshot {
	for id, r := range snap {
		if r.ID == "" {
			r.ID = id
		}
		snap[id] = Normalize(r)
	}
	return snap
}

// Validate checks the invariants a record must hold before it is written.
func Validate(r store.Reminder) error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidReminder)
	}
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidReminder)
	}
	if !dates.Valid(r.Date) {
		return fmt.Errorf("%w: bad date %q", ErrInvalidReminder, r.Date)
	}
	if r.EndDate != "" {
		if !dates.Valid(r.EndDate) {
			return fmt.Errorf("%w: bad end date %q", ErrInvalidReminder, r.EndDate)
		}
		if dates.Compare(r.EndDate, r.Date) < 0 {
			return fmt.Errorf("%w: end date %s is before %s", ErrInvalidReminder, r.EndDate, r.Date)
		}
	}
	if r.Time != "" && !dates.ValidClock(r.Time) {
		return fmt.Errorf("%w: bad time %q", ErrInvalidReminder, r.Time)
	}
	if r.EndTime != "" && !dates.ValidClock(r.EndTime) {
		return fmt.Errorf("%w: bad end time %q", ErrInvalidReminder, r.EndTime)
	}
	return nil
}

// EffectiveEnd is endDate when set, otherwise date.
func EffectiveEnd(r store.Reminder) string {
	if r.EndDate != "" {
		return r.EndDate
	}
	return r.Date
}

// Spanning reports whether r covers more than one day.
func Spanning(r store.Reminder) bool {
	return r.EndDate != "" && r.EndDate != r.Date
}

// PriorityRank orders priorities high > medium > low > none.
func PriorityRank(p string) int {
	return priorityRank[p]
}
