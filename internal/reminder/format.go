package reminder

import (
	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/store"
)

// FormatWhen renders the date label shown next to a reminder, relative to
// today: "Today", "Tomorrow" or "Jan 2", with "A → B" for spanning
// reminders and the clock appended when set.
func FormatWhen(r store.Reminder, today string) string {
	tomorrow, _ := dates.AddDays(today, 1)
	label := dayLabel(r.Date, today, tomorrow)
	if Spanning(r) {
		label += " → " + dayLabel(r.EndDate, today, tomorrow)
	}
	if r.Time != "" {
		label += " " + r.Time
		if r.EndTime != "" {
			label += "-" + r.EndTime
		}
	}
	return label
}

func dayLabel(date, today, tomorrow string) string {
	switch date {
	case today:
		return "Today"
	case tomorrow:
		return "Tomorrow"
	}
	t, err := dates.Parse(date)
	if err != nil {
		return date
	}
	if t.Year() != mustYear(today) {
		return t.Format("Jan 2, 2006")
	}
	return t.Format("Jan 2")
}

func mustYear(date string) int {
	t, err := dates.Parse(date)
	if err != nil {
		return 0
	}
	return t.Year()
}
