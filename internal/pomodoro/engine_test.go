package pomodoro

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/remindr/internal/store"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type manualDriver struct {
	tick    func()
	running bool
	starts  int
	stops   int
}

func (d *manualDriver) Start(tick func()) {
	d.tick = tick
	d.running = true
	d.starts++
}

func (d *manualDriver) Stop() {
	d.running = false
	d.stops++
}

type recordingPlayer struct {
	played []Cue
	paused int
	fail   bool
}

func (p *recordingPlayer) Play(c Cue) error {
	p.played = append(p.played, c)
	if p.fail {
		return errors.New("no audio device")
	}
	return nil
}
func (p *recordingPlayer) Pause() { p.paused++ }
func (p *recordingPlayer) Stop()  {}

type harness struct {
	engine *Engine
	clock  *fakeClock
	driver *manualDriver
	player *recordingPlayer
	store  *store.Store
	events []Event
}

func newHarness(t *testing.T, settings Settings) *harness {
	t.Helper()
	st, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	h := &harness{
		clock:  &fakeClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)},
		driver: &manualDriver{},
		player: &recordingPlayer{},
		store:  st,
	}
	h.engine = NewEngine(settings, Target{ID: "a", Title: "Write report"},
		WithClock(h.clock),
		WithDriver(h.driver),
		WithPlayer(h.player),
		WithRecords(NewRecords(st, h.clock, time.Monday)),
		WithListener(func(_ *Engine, ev Event) { h.events = append(h.events, ev) }),
	)
	return h
}

// run advances the clock one second at a time, ticking like the driver.
func (h *harness) run(d time.Duration) {
	for i := 0; i < int(d/time.Second); i++ {
		h.clock.Advance(time.Second)
		h.engine.Tick()
	}
}

func (h *harness) sessions(t *testing.T) []store.SessionRecord {
	t.Helper()
	recs, err := h.store.ListSessions(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	return recs
}

func TestWorkCountsUp(t *testing.T) {
	h := newHarness(t, DefaultSettings())

	require.NoError(t, h.engine.Start())
	h.run(90 * time.Second)

	s := h.engine.Snapshot()
	assert.Equal(t, Work, s.Phase)
	assert.True(t, s.Running)
	assert.Equal(t, 90, s.Elapsed)
	assert.Equal(t, "01:30", s.Display)
	assert.InDelta(t, 90.0/1500.0, s.Progress, 1e-9)
	assert.Equal(t, []Cue{CueWork}, h.player.played)
}

func TestElapsedFollowsWallClockNotTicks(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.Start()

	h.clock.Advance(10 * time.Minute)
	h.engine.Tick()

	assert.Equal(t, 600, h.engine.Snapshot().Elapsed)
}

func TestPauseResumeHasNoDrift(t *testing.T) {
	paused := newHarness(t, DefaultSettings())
	paused.engine.Start()
	paused.run(40 * time.Second)
	paused.engine.Pause()
	paused.clock.Advance(17 * time.Minute)
	paused.engine.Tick()
	assert.Equal(t, 40, paused.engine.Snapshot().Elapsed)
	paused.engine.Resume()
	paused.run(20 * time.Second)

	continuous := newHarness(t, DefaultSettings())
	continuous.engine.Start()
	continuous.run(60 * time.Second)

	assert.Equal(t, continuous.engine.Snapshot().Elapsed, paused.engine.Snapshot().Elapsed)
	assert.Equal(t, 60, paused.engine.Snapshot().Elapsed)
	assert.Equal(t, 1, paused.player.paused)
}

func TestPauseStopsDriver(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.Start()
	assert.True(t, h.driver.running)

	h.engine.Pause()
	assert.False(t, h.driver.running)
	assert.True(t, h.engine.Snapshot().Paused)

	require.NoError(t, h.engine.Toggle())
	assert.True(t, h.driver.running)
	assert.False(t, h.engine.Snapshot().Paused)
}

func TestWorkCycleThenBreakRecordsOnce(t *testing.T) {
	h := newHarness(t, DefaultSettings())

	h.engine.Start()
	h.run(25 * time.Minute)

	s := h.engine.Snapshot()
	assert.Equal(t, 1, s.Completed)
	assert.Empty(t, h.sessions(t), "work completion writes no record")
	require.Len(t, h.events, 1)
	assert.Equal(t, EventWorkCycleCompleted, h.events[0].Kind)
	assert.True(t, s.Running, "work keeps counting after a cycle")
	assert.InDelta(t, 0, s.Progress, 1e-9)

	h.engine.StartShortBreak()
	assert.Equal(t, 1, h.engine.Snapshot().Completed)
	assert.Equal(t, "05:00", h.engine.Snapshot().Display)
	h.engine.Start()
	h.run(5 * time.Minute)

	recs := h.sessions(t)
	require.Len(t, recs, 1)
	assert.Equal(t, store.SessionBreak, recs[0].Type)
	assert.Equal(t, 5, recs[0].DurationMinutes)
	assert.False(t, recs[0].IsLongBreak)
	assert.True(t, recs[0].Completed)
	assert.Equal(t, "a", recs[0].EventID)
	assert.Equal(t, "Write report", recs[0].EventTitle)

	s = h.engine.Snapshot()
	assert.Equal(t, Work, s.Phase)
	assert.False(t, s.Running)
	assert.False(t, h.driver.running)
	assert.Equal(t, CueEnd, h.player.played[len(h.player.played)-1])

	last := h.events[len(h.events)-1]
	assert.Equal(t, EventBreakCompleted, last.Kind)
	require.NotNil(t, last.Record)
	assert.NoError(t, last.Err)
}

func TestWorkCyclesCountedOnLateTick(t *testing.T) {
	h := newHarness(t, Settings{WorkMinutes: 1, BreakMinutes: 1, LongBreakMinutes: 2})
	h.engine.Start()

	h.clock.Advance(3*time.Minute + 10*time.Second)
	h.engine.Tick()

	assert.Equal(t, 3, h.engine.Snapshot().Completed)
	assert.Len(t, h.events, 3)
}

func TestLongBreakRecord(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.StartLongBreak()
	h.engine.Start()
	h.run(15 * time.Minute)

	recs := h.sessions(t)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].IsLongBreak)
	assert.Equal(t, 15, recs[0].DurationMinutes)
}

func TestManualSwitchDiscardsProgress(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.StartShortBreak()
	h.engine.Start()
	h.run(4 * time.Minute)

	h.engine.StartLongBreak()
	s := h.engine.Snapshot()
	assert.Equal(t, LongBreak, s.Phase)
	assert.False(t, s.Running)
	assert.Equal(t, 900, s.Remaining)
	assert.Empty(t, h.sessions(t))

	h.engine.StartWorkTime()
	assert.Equal(t, Work, h.engine.Snapshot().Phase)
	assert.Empty(t, h.sessions(t))
	assert.False(t, h.driver.running)
}

func TestStartWorkTimeResetsCount(t *testing.T) {
	h := newHarness(t, Settings{WorkMinutes: 1, BreakMinutes: 1, LongBreakMinutes: 1})
	h.engine.Start()
	h.run(2 * time.Minute)
	require.Equal(t, 2, h.engine.Snapshot().Completed)

	h.engine.StartShortBreak()
	assert.Equal(t, 2, h.engine.Snapshot().Completed)

	h.engine.StartWorkTime()
	assert.Equal(t, 0, h.engine.Snapshot().Completed)
}

func TestReset(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.Start()
	h.run(30 * time.Minute)
	h.engine.Reset()

	s := h.engine.Snapshot()
	assert.Equal(t, Work, s.Phase)
	assert.False(t, s.Running)
	assert.Zero(t, s.Elapsed)
	assert.Zero(t, s.Completed)
	assert.False(t, h.driver.running)
}

func TestCloseStopsDriver(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.Start()
	h.engine.Close()

	assert.False(t, h.driver.running)
	assert.ErrorIs(t, h.engine.Start(), ErrClosed)

	h.clock.Advance(time.Hour)
	h.engine.Tick()
	assert.Zero(t, h.engine.Snapshot().Completed)
}

func TestStaleTickAfterStopIgnored(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.Start()
	tick := h.driver.tick
	h.engine.Pause()

	h.clock.Advance(time.Hour)
	tick()

	assert.Zero(t, h.engine.Snapshot().Completed)
	assert.Empty(t, h.events)
}

func TestEditBreakRemaining(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.StartShortBreak()
	h.engine.Start()
	h.run(10 * time.Second)

	assert.ErrorIs(t, h.engine.EditBreakRemaining("01:00"), ErrTimerRunning)

	h.engine.Pause()
	before := h.engine.Snapshot()

	assert.ErrorIs(t, h.engine.SetBreakRemaining(0), ErrInvalidTimeInput)
	assert.ErrorIs(t, h.engine.SetBreakRemaining(6000), ErrInvalidTimeInput)
	assert.ErrorIs(t, h.engine.EditBreakRemaining("1:75"), ErrInvalidTimeInput)
	assert.ErrorIs(t, h.engine.EditBreakRemaining("abc"), ErrInvalidTimeInput)
	assert.Equal(t, before, h.engine.Snapshot())

	require.NoError(t, h.engine.SetBreakRemaining(60))
	s := h.engine.Snapshot()
	assert.Equal(t, "01:00", s.Display)
	assert.Equal(t, 1, s.Settings.BreakMinutes)
	assert.Equal(t, EventSettingsChanged, h.events[len(h.events)-1].Kind)

	require.NoError(t, h.engine.EditBreakRemaining("02:30"))
	s = h.engine.Snapshot()
	assert.Equal(t, 150, s.Remaining)
	assert.Equal(t, 3, s.Settings.BreakMinutes)

	h.engine.Resume()
	h.run(150 * time.Second)
	recs := h.sessions(t)
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].DurationMinutes)
}

func TestEditBreakRemainingDuringWork(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	assert.ErrorIs(t, h.engine.EditBreakRemaining("01:00"), ErrNotBreakPhase)
}

func TestEditIdleLongBreak(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.StartLongBreak()

	require.NoError(t, h.engine.EditBreakRemaining("20"))
	s := h.engine.Snapshot()
	assert.Equal(t, 1200, s.Remaining)
	assert.Equal(t, 20, s.Settings.LongBreakMinutes)
	assert.Equal(t, 5, s.Settings.BreakMinutes)
}

func TestBreakProgress(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.StartShortBreak()
	h.engine.Start()
	h.run(75 * time.Second)

	s := h.engine.Snapshot()
	assert.Equal(t, 225, s.Remaining)
	assert.Equal(t, "03:45", s.Display)
	assert.InDelta(t, 0.25, s.Progress, 1e-9)
}

func TestAudioFailureDoesNotBlock(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.player.fail = true

	require.NoError(t, h.engine.Start())
	h.run(time.Minute)
	assert.Equal(t, 60, h.engine.Snapshot().Elapsed)
}

type failingLog struct{}

func (failingLog) AppendSession(context.Context, store.SessionRecord) (*store.SessionRecord, error) {
	return nil, errors.New("disk full")
}

func (failingLog) ListSessions(context.Context, time.Time, time.Time) ([]store.SessionRecord, error) {
	return nil, errors.New("disk full")
}

func TestBreakCompletesWhenRecordFails(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)}
	var got []Event
	e := NewEngine(DefaultSettings(), Target{}, WithClock(clock), WithDriver(&manualDriver{}),
		WithRecords(NewRecords(failingLog{}, clock, time.Monday)),
		WithListener(func(_ *Engine, ev Event) { got = append(got, ev) }))

	e.StartShortBreak()
	e.Start()
	clock.Advance(5 * time.Minute)
	e.Tick()

	require.Len(t, got, 1)
	assert.Error(t, got[0].Err)
	assert.Equal(t, Work, e.Snapshot().Phase)
}

func TestShorterWorkLengthDoesNotBackfillCycles(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.Start()
	h.run(10 * time.Minute)

	s := DefaultSettings()
	s.WorkMinutes = 1
	h.engine.SetSettings(s)
	h.run(time.Second)

	assert.Equal(t, 0, h.engine.Snapshot().Completed)
	assert.Empty(t, h.events)

	// The next whole minute under the new length completes exactly one.
	h.run(59 * time.Second)
	assert.Equal(t, 1, h.engine.Snapshot().Completed)
	assert.Len(t, h.events, 1)
}

func TestLongerWorkLengthKeepsCount(t *testing.T) {
	s := DefaultSettings()
	s.WorkMinutes = 1
	h := newHarness(t, s)
	h.engine.Start()
	h.run(90 * time.Second)
	require.Equal(t, 1, h.engine.Snapshot().Completed)

	s.WorkMinutes = 2
	h.engine.SetSettings(s)
	h.run(29 * time.Second)
	assert.Equal(t, 1, h.engine.Snapshot().Completed)
	assert.Equal(t, "01:59", h.engine.Snapshot().Display)
}

func TestSubSecondPausesDoNotRefillBreak(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	h.engine.StartShortBreak()
	require.NoError(t, h.engine.Start())

	for i := 0; i < 10; i++ {
		h.clock.Advance(300 * time.Millisecond)
		h.engine.Pause()
		h.engine.Resume()
	}

	s := h.engine.Snapshot()
	assert.Equal(t, 297, s.Remaining)
	assert.Equal(t, "04:57", s.Display)
}

func TestSubSecondPausesDoNotLoseWork(t *testing.T) {
	h := newHarness(t, DefaultSettings())
	require.NoError(t, h.engine.Start())

	for i := 0; i < 10; i++ {
		h.clock.Advance(700 * time.Millisecond)
		h.engine.Pause()
		h.engine.Resume()
	}

	assert.Equal(t, 7, h.engine.Snapshot().Elapsed)
}
