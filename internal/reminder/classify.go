package reminder

import (
	"sort"

	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/store"
)

// Filter selects one of the reminder panel tabs.
type Filter string

const (
	FilterToday     Filter = "today"
	FilterUpcoming  Filter = "upcoming"
	FilterOverdue   Filter = "overdue"
	FilterCompleted Filter = "completed"
	FilterAll       Filter = "all"
)

// Filters lists the tabs in display order.
var Filters = []Filter{FilterToday, FilterUpcoming, FilterOverdue, FilterCompleted, FilterAll}

// ParseFilter maps a tab name to a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterToday, FilterUpcoming, FilterOverdue, FilterCompleted, FilterAll:
		return Filter(s)
	case "future":
		return FilterUpcoming
	}
	return FilterAll
}

// Buckets is a classified snapshot. Today also holds every overdue
// reminder so they stay visible in the daily view.
type Buckets struct {
	Overdue   []store.Reminder
	Today     []store.Reminder
	Upcoming  []store.Reminder
	Completed []store.Reminder
}

// Classify partitions snap relative to the calendar date today. Records
// are normalized first and visited in ID order so the result is stable.
func Classify(snap store.Snapshot, today string) Buckets {
	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b Buckets
	for _, id := range ids {
		r := Normalize(snap[id])
		if r.ID == "" {
			r.ID = id
		}
		if r.Completed {
			b.Completed = append(b.Completed, r)
			continue
		}
		if IsOverdue(r, today) {
			b.Overdue = append(b.Overdue, r)
		}
		if InToday(r, today) {
			b.Today = append(b.Today, r)
		}
		if IsUpcoming(r, today) {
			b.Upcoming = append(b.Upcoming, r)
		}
	}
	return b
}

// IsOverdue reports whether an open reminder ended before today.
func IsOverdue(r store.Reminder, today string) bool {
	return !r.Completed && dates.Compare(EffectiveEnd(r), today) < 0
}

// InToday reports whether an open reminder belongs in the today tab: it is
// active today or already overdue.
func InToday(r store.Reminder, today string) bool {
	if r.Completed {
		return false
	}
	if r.EndDate != "" {
		active := dates.Compare(r.Date, today) <= 0 && dates.Compare(today, r.EndDate) <= 0
		return active || dates.Compare(r.EndDate, today) < 0
	}
	return dates.Compare(r.Date, today) <= 0
}

// IsUpcoming reports whether an open reminder starts after today. Spanning
// reminders use their start date.
func IsUpcoming(r store.Reminder, today string) bool {
	return !r.Completed && dates.Compare(r.Date, today) > 0
}

// All is the default view: today followed by upcoming. Completed reminders
// and the overdue tab are not repeated.
func (b Buckets) All() []store.Reminder {
	out := make([]store.Reminder, 0, len(b.Today)+len(b.Upcoming))
	out = append(out, b.Today...)
	return append(out, b.Upcoming...)
}

// View returns a fresh copy of the list for f, safe to sort in place.
func (b Buckets) View(f Filter) []store.Reminder {
	var src []store.Reminder
	switch f {
	case FilterToday:
		src = b.Today
	case FilterUpcoming:
		src = b.Upcoming
	case FilterOverdue:
		src = b.Overdue
	case FilterCompleted:
		src = b.Completed
	default:
		return b.All()
	}
	out := make([]store.Reminder, len(src))
	copy(out, src)
	return out
}

// Counts is the badge count per tab.
type Counts struct {
	Overdue   int
	Today     int
	Upcoming  int
	Completed int
}

func (b Buckets) Counts() Counts {
	return Counts{
		Overdue:   len(b.Overdue),
		Today:     len(b.Today),
		Upcoming:  len(b.Upcoming),
		Completed: len(b.Completed),
	}
}

// Of returns the count shown on tab f.
func (c Counts) Of(f Filter) int {
	switch f {
	case FilterToday:
		return c.Today
	case FilterUpcoming:
		return c.Upcoming
	case FilterOverdue:
		return c.Overdue
	case FilterCompleted:
		return c.Completed
	}
	return c.Today + c.Upcoming
}
