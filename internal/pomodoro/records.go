package pomodoro

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/store"
)

// SessionLog is the append-only session table.
type SessionLog interface {
	AppendSession(ctx context.Context, r store.SessionRecord) (*store.SessionRecord, error)
	ListSessions(ctx context.Context, from, to time.Time) ([]store.SessionRecord, error)
}

// Records appends session records and sums focus time. Only work records
// count as focus; breaks are kept for history.
type Records struct {
	log       SessionLog
	clock     Clock
	weekStart time.Weekday
}

func NewRecords(log SessionLog, clock Clock, weekStart time.Weekday) *Records {
	if clock == nil {
		clock = SystemClock()
	}
	return &Records{log: log, clock: clock, weekStart: weekStart}
}

// ParseWeekStart maps the week_start setting to a weekday. Weeks start on
// Monday unless the setting says sunday.
func ParseWeekStart(s string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(s), "sunday") {
		return time.Sunday
	}
	return time.Monday
}

const defaultEventTitle = "Focus"

// RecordWorkSession logs a finished work cycle.
func (r *Records) RecordWorkSession(ctx context.Context, durationMinutes int, target Target) (*store.SessionRecord, error) {
	rec, err := r.log.AppendSession(ctx, store.SessionRecord{
		Type:            store.SessionWork,
		DurationMinutes: durationMinutes,
		ActualMinutes:   durationMinutes,
		Timestamp:       r.clock.Now(),
		EventID:         target.ID,
		EventTitle:      titleOr(target.Title),
		Completed:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("record work session: %w", err)
	}
	return rec, nil
}

// BreakSession describes a break to log.
type BreakSession struct {
	DurationMinutes int
	ActualMinutes   int
	EventID         string
	EventTitle      string
	IsLongBreak     bool
	Completed       bool
}

// RecordBreakSession logs a break. ActualMinutes defaults to the duration.
func (r *Records) RecordBreakSession(ctx context.Context, b BreakSession) (*store.SessionRecord, error) {
	if b.ActualMinutes == 0 {
		b.ActualMinutes = b.DurationMinutes
	}
	rec, err := r.log.AppendSession(ctx, store.SessionRecord{
		Type:            store.SessionBreak,
		DurationMinutes: b.DurationMinutes,
		ActualMinutes:   b.ActualMinutes,
		Timestamp:       r.clock.Now(),
		EventID:         b.EventID,
		EventTitle:      titleOr(b.EventTitle),
		IsLongBreak:     b.IsLongBreak,
		Completed:       b.Completed,
	})
	if err != nil {
		return nil, fmt.Errorf("record break session: %w", err)
	}
	return rec, nil
}

// TodayFocusMinutes sums work minutes logged on the local calendar day.
func (r *Records) TodayFocusMinutes(ctx context.Context) (int, error) {
	start := startOfDay(r.clock.Now())
	return r.focusBetween(ctx, start, start.AddDate(0, 0, 1))
}

// WeekFocusMinutes sums work minutes logged in the current week.
func (r *Records) WeekFocusMinutes(ctx context.Context) (int, error) {
	start := r.WeekStart(r.clock.Now())
	return r.focusBetween(ctx, start, start.AddDate(0, 0, 7))
}

// WeekStart returns local midnight of the first day of t's week.
func (r *Records) WeekStart(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) - int(r.weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

// DayTotal is the focus time of one local date.
type DayTotal struct {
	Date    string
	Minutes int
}

// DailyFocus returns one entry per day from the date of from through the
// date of to, including days with no focus.
func (r *Records) DailyFocus(ctx context.Context, from, to time.Time) ([]DayTotal, error) {
	lo, hi := startOfDay(from), startOfDay(to).AddDate(0, 0, 1)
	recs, err := r.log.ListSessions(ctx, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("daily focus: %w", err)
	}
	byDay := make(map[string]int)
	for _, rec := range recs {
		if rec.Type == store.SessionWork {
			byDay[dates.LocalDateString(rec.Timestamp)] += rec.DurationMinutes
		}
	}
	var out []DayTotal
	for d := lo; d.Before(hi); d = d.AddDate(0, 0, 1) {
		key := dates.LocalDateString(d)
		out = append(out, DayTotal{Date: key, Minutes: byDay[key]})
	}
	return out, nil
}

// Sessions lists raw records in [from, to).
func (r *Records) Sessions(ctx context.Context, from, to time.Time) ([]store.SessionRecord, error) {
	return r.log.ListSessions(ctx, from, to)
}

func (r *Records) focusBetween(ctx context.Context, from, to time.Time) (int, error) {
	recs, err := r.log.ListSessions(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("focus minutes: %w", err)
	}
	total := 0
	for _, rec := range recs {
		if rec.Type == store.SessionWork {
			total += rec.DurationMinutes
		}
	}
	return total, nil
}

// FormatDuration renders minutes as "Xh Ym", or "Ym" under an hour.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func startOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func titleOr(title string) string {
	if title == "" {
		return defaultEventTitle
	}
	return title
}
