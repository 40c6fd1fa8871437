package reminder

import (
	"slices"
	"time"

	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/store"
)

// Event is a reminder placed on the calendar. For all-day events End is
// exclusive: the midnight after the last covered day. End is zero for a
// timed event without an end time.
type Event struct {
	ID               string
	OriginalID       string
	Title            string
	Start            time.Time
	End              time.Time
	AllDay           bool
	Completed        bool
	Priority         string
	IsRepeatInstance bool
}

// ToEvent maps a reminder onto the calendar. A spanning reminder is timed
// only when both time and endTime are set; otherwise it is drawn all-day
// with the start time shown in the title.
func ToEvent(r store.Reminder) (Event, error) {
	r = Normalize(r)
	ev := Event{
		ID:         r.ID,
		OriginalID: r.ID,
		Title:      r.Title,
		Completed:  r.Completed,
		Priority:   r.Priority,
	}
	if ev.Title == "" {
		ev.Title = "Untitled"
	}

	var err error
	switch {
	case Spanning(r) && r.Time != "" && r.EndTime != "":
		if ev.Start, err = dates.Combine(r.Date, r.Time); err != nil {
			return Event{}, err
		}
		ev.End, err = dates.Combine(r.EndDate, r.EndTime)
	case Spanning(r):
		ev.AllDay = true
		if ev.Start, err = dates.Parse(r.Date); err != nil {
			return Event{}, err
		}
		var end time.Time
		end, err = dates.Parse(r.EndDate)
		ev.End = end.AddDate(0, 0, 1)
		if r.Time != "" {
			ev.Title += " (" + r.Time + ")"
		}
	case r.Time != "":
		if ev.Start, err = dates.Combine(r.Date, r.Time); err != nil {
			return Event{}, err
		}
		if r.EndTime != "" {
			ev.End, err = dates.Combine(r.Date, r.EndTime)
		}
	default:
		ev.AllDay = true
		if ev.Start, err = dates.Parse(r.Date); err != nil {
			return Event{}, err
		}
		ev.End = ev.Start.AddDate(0, 0, 1)
	}
	if err != nil {
		return Event{}, err
	}
	return ev, nil
}

// CalendarEvents returns the events overlapping the dates [from, to],
// including expanded repeat instances, ordered by start. Reminders that
// cannot be placed are skipped.
func CalendarEvents(snap store.Snapshot, from, to string) []Event {
	lo, err := dates.Parse(from)
	if err != nil {
		return nil
	}
	hi, err := dates.Parse(to)
	if err != nil {
		return nil
	}
	hi = hi.AddDate(0, 0, 1)

	var out []Event
	add := func(r store.Reminder, instance bool, original string) {
		ev, err := ToEvent(r)
		if err != nil {
			return
		}
		ev.IsRepeatInstance = instance
		ev.OriginalID = original
		end := ev.End
		if end.IsZero() {
			end = ev.Start
		}
		if ev.Start.Before(hi) && !end.Before(lo) {
			out = append(out, ev)
		}
	}
	for id, r := range snap {
		if r.ID == "" {
			r.ID = id
		}
		add(r, false, r.ID)
		instances, err := Occurrences(r, from, to)
		if err != nil {
			continue
		}
		for _, inst := range instances {
			add(inst, true, r.ID)
		}
	}
	slices.SortStableFunc(out, func(a, b Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if a.Title < b.Title {
			return -1
		}
		if a.Title > b.Title {
			return 1
		}
		return 0
	})
	return out
}

// Placement is where the calendar dropped or resized an event. End follows
// the Event convention: exclusive midnight for all-day, zero when absent.
type Placement struct {
	Start  time.Time
	End    time.Time
	AllDay bool
}

// ApplyDrop rewrites r's dates and times after the event was dragged.
func ApplyDrop(r store.Reminder, p Placement) store.Reminder {
	startDate, startClock := dates.LocalDateTime(p.Start)
	r.Date = startDate

	if r.EndDate != "" {
		switch {
		case !p.End.IsZero() && !p.AllDay:
			r = setTimedEnd(r, startDate, startClock, p.End)
		case !p.End.IsZero():
			r.EndDate = lastDay(p.End)
		default:
			r.EndDate = ""
			if !p.AllDay {
				r.Time = startClock
			}
		}
		return Normalize(r)
	}

	if !p.End.IsZero() && p.AllDay {
		if end := lastDay(p.End); end != startDate {
			r.EndDate = end
			r.Time = ""
		}
		return Normalize(r)
	}
	if p.AllDay {
		r.Time = ""
	} else {
		r.Time = startClock
	}
	return Normalize(r)
}

// ApplyResize rewrites r after its event was stretched or shrunk.
func ApplyResize(r store.Reminder, p Placement) store.Reminder {
	startDate, startClock := dates.LocalDateTime(p.Start)
	r.Date = startDate

	switch {
	case p.End.IsZero():
		r.EndDate = ""
		r.EndTime = ""
		if p.AllDay {
			r.Time = ""
		} else {
			r.Time = startClock
		}
	case p.AllDay:
		r.EndTime = ""
		if end := lastDay(p.End); end != startDate {
			r.EndDate = end
			r.Time = ""
		} else {
			r.EndDate = ""
		}
	default:
		r = setTimedEnd(r, startDate, startClock, p.End)
	}
	return Normalize(r)
}

// setTimedEnd applies a timed placement, where end is the actual end
// instant rather than an exclusive midnight.
func setTimedEnd(r store.Reminder, startDate, startClock string, end time.Time) store.Reminder {
	endDate, endClock := dates.LocalDateTime(end)
	r.Time = startClock
	r.EndTime = endClock
	if endDate != startDate {
		r.EndDate = endDate
	} else {
		r.EndDate = ""
	}
	return r
}

// lastDay converts an exclusive all-day end into the inclusive last date.
func lastDay(end time.Time) string {
	return dates.LocalDateString(end.In(time.Local).AddDate(0, 0, -1))
}
