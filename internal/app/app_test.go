package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/remindr/internal/pomodoro"
	"github.com/sadopc/remindr/internal/reminder"
	"github.com/sadopc/remindr/internal/store"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

type noDriver struct{}

func (noDriver) Start(func()) {}
func (noDriver) Stop()        {}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestTimerCreditsReminder(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	_, err := a.Reminders.Create(ctx, store.Reminder{ID: "r", Title: "Read", Date: "2024-01-10", Repeat: "FREQ=DAILY"})
	require.NoError(t, err)

	target, err := a.TargetFor(ctx, "r_2024-01-12")
	require.NoError(t, err)
	assert.Equal(t, pomodoro.Target{ID: "r", Title: "Read"}, target)

	require.NoError(t, a.Store.SetSetting(pomodoro.KeyRecordWork, "on"))
	clock := &stepClock{now: time.Now()}
	var seen []pomodoro.EventKind
	e := a.NewTimer(target, func(_ *pomodoro.Engine, ev pomodoro.Event) { seen = append(seen, ev.Kind) },
		pomodoro.WithClock(clock), pomodoro.WithDriver(noDriver{}))
	require.NoError(t, e.Start())
	clock.now = clock.now.Add(25 * time.Minute)
	e.Tick()

	r, err := a.Reminders.Get(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, 1, r.PomodoroCount)
	assert.Equal(t, []pomodoro.EventKind{pomodoro.EventWorkCycleCompleted}, seen)

	today, err := a.Records.TodayFocusMinutes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, today)
}

func TestTimerDefaultsLogBreaksOnly(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	_, err := a.Reminders.Create(ctx, store.Reminder{ID: "r", Title: "Read", Date: "2024-01-10"})
	require.NoError(t, err)
	target, err := a.TargetFor(ctx, "r")
	require.NoError(t, err)

	clock := &stepClock{now: time.Now()}
	e := a.NewTimer(target, nil, pomodoro.WithClock(clock), pomodoro.WithDriver(noDriver{}))
	require.NoError(t, e.Start())
	clock.now = clock.now.Add(25 * time.Minute)
	e.Tick()

	recs, err := a.Store.ListSessions(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, recs, "a finished work cycle writes no record")
	r, err := a.Reminders.Get(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, 1, r.PomodoroCount)

	e.StartShortBreak()
	require.NoError(t, e.Start())
	clock.now = clock.now.Add(5 * time.Minute)
	e.Tick()

	recs, err = a.Store.ListSessions(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, store.SessionBreak, recs[0].Type)
	assert.Equal(t, 5, recs[0].DurationMinutes)
	assert.True(t, recs[0].Completed)
}

func TestEndPlayer(t *testing.T) {
	a := newTestApp(t)
	var buf bytes.Buffer

	require.NoError(t, a.EndPlayer(&buf).Play(pomodoro.CueWork))
	require.NoError(t, a.EndPlayer(&buf).Play(pomodoro.CueEnd))
	assert.Equal(t, "\a", buf.String())

	buf.Reset()
	require.NoError(t, a.Store.SetSetting(pomodoro.KeyEndSound, ""))
	require.NoError(t, a.EndPlayer(&buf).Play(pomodoro.CueEnd))
	assert.Empty(t, buf.String())
}

func TestTargetForMissing(t *testing.T) {
	a := newTestApp(t)
	_, err := a.TargetFor(context.Background(), "nope")
	assert.Error(t, err)
}

func TestAddReminderCreatesBlock(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	r, err := a.AddReminder(ctx, store.Reminder{Title: "Call Bob", Date: "2024-01-10"})
	require.NoError(t, err)
	assert.Equal(t, r.ID, r.BlockID)

	b, err := a.Reminders.Open(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Call Bob", b.Content)
}

func TestAddReminderUnknownBlock(t *testing.T) {
	a := newTestApp(t)
	_, err := a.AddReminder(context.Background(), store.Reminder{Title: "x", Date: "2024-01-10", BlockID: "gone"})
	assert.ErrorIs(t, err, reminder.ErrOrphanedReminder)

	snap, err := a.Reminders.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestExportDocument(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	a.Reminders.Create(ctx, store.Reminder{Title: "One", Date: "2024-01-10"})
	a.Records.RecordBreakSession(ctx, pomodoro.BreakSession{DurationMinutes: 5, Completed: true})

	doc, err := a.ExportDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Count)
	assert.Len(t, doc.Sessions, 1)
}

func TestReloadSettingsWeekStart(t *testing.T) {
	a := newTestApp(t)
	wed := time.Date(2024, 1, 17, 12, 0, 0, 0, time.Local)
	assert.Equal(t, time.Monday, a.Records.WeekStart(wed).Weekday())

	a.Store.SetSetting(pomodoro.KeyWeekStart, "sunday")
	a.ReloadSettings()
	assert.Equal(t, time.Sunday, a.Records.WeekStart(wed).Weekday())
}
