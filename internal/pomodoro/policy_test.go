package pomodoro

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/remindr/internal/store"
)

func TestPolicyNextBreak(t *testing.T) {
	p := Policy{LongBreakEvery: 4}
	want := []Phase{ShortBreak, ShortBreak, ShortBreak, LongBreak, ShortBreak, ShortBreak, ShortBreak, LongBreak}
	for i, w := range want {
		assert.Equal(t, w, p.NextBreak(i+1), "completed=%d", i+1)
	}
	assert.Equal(t, ShortBreak, Policy{}.NextBreak(4))
}

func newAutomated(t *testing.T, settings Settings) (*Engine, *fakeClock, *store.Store, *[]string) {
	t.Helper()
	st, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := &fakeClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)}
	records := NewRecords(st, clock, time.Monday)
	var credited []string
	auto := &Automation{
		Records:  records,
		Settings: st,
		Credit: func(_ context.Context, id string) error {
			credited = append(credited, id)
			return nil
		},
		Logger: zerolog.Nop(),
	}
	e := NewEngine(settings, Target{ID: "r1", Title: "Essay"},
		WithClock(clock), WithDriver(&manualDriver{}), WithRecords(records), WithListener(auto.Handle))
	return e, clock, st, &credited
}

func TestAutomationCreditsAndRecordsWork(t *testing.T) {
	s := DefaultSettings()
	s.RecordWork = true
	e, clock, st, credited := newAutomated(t, s)
	e.Start()
	clock.Advance(25 * time.Minute)
	e.Tick()

	assert.Equal(t, []string{"r1"}, *credited)
	recs, _ := st.ListSessions(context.Background(), time.Time{}, time.Time{})
	require.Len(t, recs, 1)
	assert.Equal(t, store.SessionWork, recs[0].Type)
	assert.Equal(t, 25, recs[0].DurationMinutes)
	assert.Equal(t, Work, e.Snapshot().Phase)
}

func TestAutomationWithoutWorkRecords(t *testing.T) {
	e, clock, st, credited := newAutomated(t, DefaultSettings())
	e.Start()
	clock.Advance(25 * time.Minute)
	e.Tick()

	recs, _ := st.ListSessions(context.Background(), time.Time{}, time.Time{})
	assert.Empty(t, recs)
	assert.Equal(t, []string{"r1"}, *credited)
}

func TestAutomationAutoBreakCycle(t *testing.T) {
	s := Settings{WorkMinutes: 1, BreakMinutes: 1, LongBreakMinutes: 2, LongBreakEvery: 2, AutoBreak: true}
	e, clock, _, _ := newAutomated(t, s)
	e.Start()

	clock.Advance(time.Minute)
	e.Tick()
	snap := e.Snapshot()
	assert.Equal(t, ShortBreak, snap.Phase)
	assert.True(t, snap.Running)

	clock.Advance(time.Minute)
	e.Tick()
	snap = e.Snapshot()
	assert.Equal(t, Work, snap.Phase)
	assert.True(t, snap.Running, "work restarts after an automatic break")

	clock.Advance(time.Minute)
	e.Tick()
	snap = e.Snapshot()
	assert.Equal(t, 2, snap.Completed)
	assert.Equal(t, LongBreak, snap.Phase)
}

func TestAutomationPersistsBreakEdit(t *testing.T) {
	e, _, st, _ := newAutomated(t, DefaultSettings())
	e.StartShortBreak()

	require.NoError(t, e.EditBreakRemaining("07:30"))

	assert.Equal(t, 8, st.SettingInt(KeyBreak, 0))
	assert.Equal(t, 15, st.SettingInt(KeyLongBreak, 0))
}

func TestLoadSettings(t *testing.T) {
	st, err := store.NewMemory()
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, DefaultSettings(), LoadSettings(st))

	st.SetSetting(KeyWork, "50")
	st.SetSetting(KeyBreak, "0")
	st.SetSetting(KeyAutoBreak, "on")
	s := LoadSettings(st)
	assert.Equal(t, 50, s.WorkMinutes)
	assert.Equal(t, 5, s.BreakMinutes)
	assert.True(t, s.AutoBreak)
}
