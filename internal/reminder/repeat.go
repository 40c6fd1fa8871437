package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/store"
)

// IsRecurring reports whether rule looks like an RRULE.
func IsRecurring(rule string) bool {
	return rule != "" && strings.Contains(strings.ToUpper(rule), "FREQ=")
}

// ParseRepeat parses an RFC 5545 RRULE anchored at the reminder's start.
func ParseRepeat(r store.Reminder) (*rrule.RRule, error) {
	opt, err := rrule.StrToROption(strings.TrimPrefix(r.Repeat, "RRULE:"))
	if err != nil {
		return nil, fmt.Errorf("%w: repeat rule %q: %v", ErrInvalidReminder, r.Repeat, err)
	}
	start, err := dates.Combine(r.Date, r.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReminder, err)
	}
	opt.Dtstart = start
	return rrule.NewRRule(*opt)
}

// Occurrences expands a recurring reminder into the instances starting on a
// date in [from, to]. The stored occurrence itself is not repeated. Each
// instance keeps the original's span length and is completed only through
// the original.
func Occurrences(r store.Reminder, from, to string) ([]store.Reminder, error) {
	if !IsRecurring(r.Repeat) {
		return nil, nil
	}
	rule, err := ParseRepeat(r)
	if err != nil {
		return nil, err
	}
	lo, err := dates.Parse(from)
	if err != nil {
		return nil, err
	}
	hi, err := dates.Parse(to)
	if err != nil {
		return nil, err
	}
	span := 0
	if Spanning(r) {
		start, _ := dates.Parse(r.Date)
		end, _ := dates.Parse(r.EndDate)
		span = int(end.Sub(start).Hours()+12) / 24
	}

	var out []store.Reminder
	for _, at := range rule.Between(lo, hi.Add(24*time.Hour-time.Second), true) {
		day := dates.LocalDateString(at)
		if day == r.Date {
			continue
		}
		inst := r
		inst.ID = r.ID + "_" + day
		inst.Date = day
		inst.EndDate = ""
		if span > 0 {
			inst.EndDate, _ = dates.AddDays(day, span)
		}
		inst.Completed = false
		inst.Repeat = ""
		out = append(out, inst)
	}
	return out, nil
}

// OriginalID maps a repeat instance ID back to the stored reminder. IDs of
// stored reminders are returned unchanged.
func OriginalID(snap store.Snapshot, id string) string {
	if _, ok := snap[id]; ok {
		return id
	}
	if i := strings.LastIndex(id, "_"); i > 0 {
		if dates.Valid(id[i+1:]) {
			return id[:i]
		}
	}
	return id
}
