package pomodoro

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/remindr/internal/store"
)

func newTestRecords(t *testing.T, now time.Time, weekStart time.Weekday) (*Records, *fakeClock, *store.Store) {
	t.Helper()
	st, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	clock := &fakeClock{now: now}
	return NewRecords(st, clock, weekStart), clock, st
}

func TestFocusTotalsCountOnlyWork(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 1, 17, 15, 0, 0, 0, time.Local)
	r, clock, _ := newTestRecords(t, now, time.Monday)
	ctx := context.Background()

	add := func(at time.Time, work bool, minutes int) {
		clock.now = at
		if work {
			_, err := r.RecordWorkSession(ctx, minutes, Target{ID: "a"})
			require.NoError(t, err)
			return
		}
		_, err := r.RecordBreakSession(ctx, BreakSession{DurationMinutes: minutes, Completed: true})
		require.NoError(t, err)
	}
	add(now.Add(-time.Hour), true, 25)
	add(now.Add(-30*time.Minute), false, 5)
	add(now.AddDate(0, 0, -1), true, 50)  // Tuesday
	add(now.AddDate(0, 0, -2), true, 10)  // Monday
	add(now.AddDate(0, 0, -3), true, 100) // Sunday, previous week
	clock.now = now

	today, err := r.TodayFocusMinutes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, today)

	week, err := r.WeekFocusMinutes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 85, week)
}

func TestWeekStartSunday(t *testing.T) {
	now := time.Date(2024, 1, 17, 15, 0, 0, 0, time.Local)
	r, _, _ := newTestRecords(t, now, time.Sunday)

	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.Local), r.WeekStart(now))

	monday := NewRecords(nil, nil, time.Monday)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), monday.WeekStart(now))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local),
		monday.WeekStart(time.Date(2024, 1, 21, 23, 0, 0, 0, time.Local)))
}

func TestParseWeekStart(t *testing.T) {
	assert.Equal(t, time.Sunday, ParseWeekStart("Sunday"))
	assert.Equal(t, time.Monday, ParseWeekStart("monday"))
	assert.Equal(t, time.Monday, ParseWeekStart(""))
}

func TestDailyFocus(t *testing.T) {
	now := time.Date(2024, 1, 17, 15, 0, 0, 0, time.Local)
	r, clock, _ := newTestRecords(t, now, time.Monday)
	ctx := context.Background()

	clock.now = now.AddDate(0, 0, -2)
	r.RecordWorkSession(ctx, 25, Target{})
	r.RecordWorkSession(ctx, 25, Target{})
	clock.now = now
	r.RecordWorkSession(ctx, 30, Target{})
	r.RecordBreakSession(ctx, BreakSession{DurationMinutes: 5})

	days, err := r.DailyFocus(ctx, now.AddDate(0, 0, -2), now)
	require.NoError(t, err)
	assert.Equal(t, []DayTotal{
		{Date: "2024-01-15", Minutes: 50},
		{Date: "2024-01-16", Minutes: 0},
		{Date: "2024-01-17", Minutes: 30},
	}, days)
}

func TestRecordDefaults(t *testing.T) {
	r, _, st := newTestRecords(t, time.Date(2024, 1, 17, 15, 0, 0, 0, time.Local), time.Monday)

	rec, err := r.RecordBreakSession(context.Background(), BreakSession{DurationMinutes: 15, IsLongBreak: true, Completed: true})
	require.NoError(t, err)
	assert.Equal(t, 15, rec.ActualMinutes)
	assert.Equal(t, "Focus", rec.EventTitle)

	all, _ := st.ListSessions(context.Background(), time.Time{}, time.Time{})
	require.Len(t, all, 1)
	assert.True(t, all[0].IsLongBreak)
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		0:   "0m",
		45:  "45m",
		60:  "1h 0m",
		135: "2h 15m",
		-3:  "0m",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatDuration(in), "minutes=%d", in)
	}
}
