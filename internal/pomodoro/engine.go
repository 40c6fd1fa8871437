// Package pomodoro runs focus timers. Work counts up and completes a
// pomodoro every WorkMinutes; breaks count down and log a session record
// when they run out. Elapsed and remaining time are derived from the wall
// clock, so ticks only decide when to look.
package pomodoro

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/remindr/internal/store"
)

type Phase int

const (
	Work Phase = iota
	ShortBreak
	LongBreak
)

var phaseNames = map[Phase]string{
	Work:       "WORK",
	ShortBreak: "SHORT BREAK",
	LongBreak:  "LONG BREAK",
}

func (p Phase) String() string { return phaseNames[p] }

func (p Phase) IsBreak() bool { return p == ShortBreak || p == LongBreak }

// Target is the reminder a timer is focused on. ID is the stored reminder
// ID; repeat instances are resolved to their original before the timer is
// created.
type Target struct {
	ID    string
	Title string
}

type EventKind int

const (
	EventWorkCycleCompleted EventKind = iota
	EventBreakCompleted
	EventSettingsChanged
)

// Event reports a natural completion or a settings change. Record is the
// session written for a completed break; Err is set when writing it failed.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Record   *store.SessionRecord
	Err      error
}

// Listener receives events after the engine lock is released, so it may
// call back into the engine.
type Listener func(*Engine, Event)

// Snapshot is a point-in-time view of the timer.
type Snapshot struct {
	Phase     Phase
	Running   bool
	Paused    bool
	Elapsed   int
	Remaining int
	Completed int
	Progress  float64
	Display   string
	Target    Target
	Settings  Settings
}

// Idle reports whether the timer has not been started in this phase.
func (s Snapshot) Idle() bool { return !s.Running }

type Option func(*Engine)

func WithClock(c Clock) Option           { return func(e *Engine) { e.clock = c } }
func WithDriver(d Driver) Option         { return func(e *Engine) { e.driver = d } }
func WithPlayer(p Player) Option         { return func(e *Engine) { e.player = p } }
func WithRecords(r *Records) Option      { return func(e *Engine) { e.records = r } }
func WithListener(l Listener) Option     { return func(e *Engine) { e.listener = l } }
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.logger = l } }

// Engine is one timer instance. It owns its driver: Reset, Close and
// manual phase switches stop it before changing state.
type Engine struct {
	mu sync.Mutex

	clock    Clock
	driver   Driver
	player   Player
	records  *Records
	listener Listener
	logger   zerolog.Logger

	settings Settings
	target   Target

	phase   Phase
	running bool
	paused  bool
	closed  bool

	// anchor is now-elapsed during work and the break deadline otherwise.
	// elapsed and remaining keep sub-second precision; only Snapshot rounds.
	anchor    time.Time
	elapsed   time.Duration
	remaining time.Duration
	completed int
	lastCycle int
}

func NewEngine(settings Settings, target Target, opts ...Option) *Engine {
	e := &Engine{
		clock:    SystemClock(),
		player:   NopPlayer(),
		logger:   zerolog.Nop(),
		settings: settings,
		target:   target,
		phase:    Work,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewTickerDriver(time.Second)
	}
	return e
}

// Start begins or resumes the current phase.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.running {
		if e.paused {
			e.resumeLocked()
		}
		return nil
	}
	if e.phase.IsBreak() && e.remaining <= 0 {
		e.remaining = e.breakLength(e.phase)
	}
	e.running = true
	e.paused = false
	e.anchorLocked()
	e.play(cueFor(e.phase))
	e.driver.Start(e.Tick)
	e.logger.Debug().Str("phase", e.phase.String()).Msg("timer started")
	return nil
}

// Pause freezes the timer without losing progress.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.paused {
		return
	}
	e.syncLocked()
	e.paused = true
	e.driver.Stop()
	e.player.Pause()
}

// Resume continues a paused timer from where it stopped.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || !e.running || !e.paused {
		return
	}
	e.resumeLocked()
}

// Toggle starts, pauses or resumes depending on the current state.
func (e *Engine) Toggle() error {
	e.mu.Lock()
	running, paused := e.running, e.paused
	e.mu.Unlock()
	switch {
	case running && !paused:
		e.Pause()
		return nil
	case running && paused:
		e.Resume()
		return nil
	}
	return e.Start()
}

func (e *Engine) resumeLocked() {
	e.paused = false
	e.anchorLocked()
	e.play(cueFor(e.phase))
	e.driver.Start(e.Tick)
}

// Reset stops the timer and returns to an idle work phase with no progress.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.haltLocked()
	e.phase = Work
	e.remaining = 0
	e.completed = 0
}

// Close stops the driver and audio for good.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.haltLocked()
	e.closed = true
}

// StartWorkTime switches to an idle work phase and clears the pomodoro
// count. Current progress is discarded and nothing is recorded.
func (e *Engine) StartWorkTime() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.haltLocked()
	e.phase = Work
	e.remaining = 0
	e.completed = 0
}

// StartShortBreak switches to an idle short break. Nothing is recorded.
func (e *Engine) StartShortBreak() { e.switchBreak(ShortBreak) }

// StartLongBreak switches to an idle long break. Nothing is recorded.
func (e *Engine) StartLongBreak() { e.switchBreak(LongBreak) }

// StartBreak switches to the given break phase.
func (e *Engine) StartBreak(p Phase) {
	if p == LongBreak {
		e.StartLongBreak()
		return
	}
	e.StartShortBreak()
}

func (e *Engine) switchBreak(p Phase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.haltLocked()
	e.phase = p
	e.remaining = e.breakLength(p)
}

func (e *Engine) breakLength(p Phase) time.Duration {
	return time.Duration(e.settings.BreakMinutesFor(p)) * time.Minute
}

func (e *Engine) workCycle() time.Duration {
	return time.Duration(e.settings.WorkMinutes) * time.Minute
}

// haltLocked stops the driver and audio and clears the current phase's
// progress. The completed count is left to the caller.
func (e *Engine) haltLocked() {
	e.driver.Stop()
	e.player.Stop()
	e.running = false
	e.paused = false
	e.elapsed = 0
	e.lastCycle = 0
}

// Tick re-reads the clock and fires any natural completion. The driver
// calls it; it is a no-op unless the timer is live.
func (e *Engine) Tick() {
	e.mu.Lock()
	evs := e.advanceLocked()
	e.mu.Unlock()
	e.emit(evs)
}

func (e *Engine) advanceLocked() []Event {
	if e.closed || !e.running || e.paused {
		return nil
	}
	e.syncLocked()

	if e.phase == Work {
		cycle := e.workCycle()
		if cycle <= 0 {
			return nil
		}
		var evs []Event
		for n := int(e.elapsed / cycle); e.lastCycle < n; {
			e.lastCycle++
			e.completed++
			e.logger.Info().Int("completed", e.completed).Str("target", e.target.ID).Msg("pomodoro completed")
			evs = append(evs, Event{Kind: EventWorkCycleCompleted, Snapshot: e.snapshotLocked()})
		}
		return evs
	}

	if e.remaining > 0 {
		return nil
	}
	return []Event{e.completeBreakLocked()}
}

func (e *Engine) completeBreakLocked() Event {
	phase := e.phase
	e.driver.Stop()
	e.player.Stop()
	e.play(CueEnd)

	ev := Event{Kind: EventBreakCompleted}
	if e.records != nil {
		minutes := e.settings.BreakMinutesFor(phase)
		ev.Record, ev.Err = e.records.RecordBreakSession(context.Background(), BreakSession{
			DurationMinutes: minutes,
			ActualMinutes:   minutes,
			EventID:         e.target.ID,
			EventTitle:      e.target.Title,
			IsLongBreak:     phase == LongBreak,
			Completed:       true,
		})
		if ev.Err != nil {
			e.logger.Error().Err(ev.Err).Msg("record break session")
		}
	}
	e.logger.Info().Str("phase", phase.String()).Msg("break completed")

	e.phase = Work
	e.running = false
	e.paused = false
	e.remaining = 0
	e.elapsed = 0
	e.lastCycle = 0
	ev.Snapshot = e.snapshotLocked()
	return ev
}

// EditBreakRemaining parses "MM:SS" or plain minutes and applies it with
// SetBreakRemaining.
func (e *Engine) EditBreakRemaining(input string) error {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.mu.Unlock()

	secs, err := ParseClock(input)
	if err != nil {
		return err
	}
	return e.SetBreakRemaining(secs)
}

// SetBreakRemaining sets the countdown of an idle or paused break to secs,
// which must be within [1, MaxBreakSeconds]. The break length setting is
// updated to secs rounded up to whole minutes.
func (e *Engine) SetBreakRemaining(secs int) error {
	e.mu.Lock()
	if err := e.editableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if secs < 1 || secs > MaxBreakSeconds {
		e.mu.Unlock()
		return fmt.Errorf("%w: break must be between 00:01 and 99:59", ErrInvalidTimeInput)
	}
	e.remaining = time.Duration(secs) * time.Second
	minutes := int(math.Ceil(float64(secs) / 60))
	if e.phase == LongBreak {
		e.settings.LongBreakMinutes = minutes
	} else {
		e.settings.BreakMinutes = minutes
	}
	ev := Event{Kind: EventSettingsChanged, Snapshot: e.snapshotLocked()}
	e.mu.Unlock()

	e.emit([]Event{ev})
	return nil
}

func (e *Engine) editableLocked() error {
	if e.closed {
		return ErrClosed
	}
	if !e.phase.IsBreak() {
		return ErrNotBreakPhase
	}
	if e.running && !e.paused {
		return ErrTimerRunning
	}
	return nil
}

// SetSettings replaces the durations used from the next phase on. Work
// cycles already passed under the old length are not counted again.
func (e *Engine) SetSettings(s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running && !e.paused {
		e.syncLocked()
	}
	e.settings = s
	if cycle := e.workCycle(); e.phase == Work && cycle > 0 {
		e.lastCycle = int(e.elapsed / cycle)
	}
}

// SetTarget changes the reminder future records are credited to.
func (e *Engine) SetTarget(t Target) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.target = t
}

// Snapshot reads the live state without firing completions.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	elapsed, remaining := e.elapsed, e.remaining
	if e.running && !e.paused {
		elapsed, remaining = e.measureLocked()
	}

	s := Snapshot{
		Phase:     e.phase,
		Running:   e.running,
		Paused:    e.paused,
		Elapsed:   int(elapsed / time.Second),
		Remaining: int(math.Ceil(remaining.Seconds())),
		Completed: e.completed,
		Target:    e.target,
		Settings:  e.settings,
	}
	if e.phase == Work {
		s.Display = FormatClock(s.Elapsed)
		if cycle := e.settings.WorkMinutes * 60; cycle > 0 {
			s.Progress = float64(s.Elapsed%cycle) / float64(cycle)
		}
	} else {
		s.Display = FormatClock(s.Remaining)
		if total := e.breakLength(e.phase); total > 0 {
			s.Progress = clamp(float64(total-remaining) / float64(total))
		}
	}
	return s
}

func (e *Engine) anchorLocked() {
	now := e.clock.Now()
	if e.phase == Work {
		e.anchor = now.Add(-e.elapsed)
		return
	}
	e.anchor = now.Add(e.remaining)
}

func (e *Engine) syncLocked() {
	e.elapsed, e.remaining = e.measureLocked()
}

func (e *Engine) measureLocked() (elapsed, remaining time.Duration) {
	now := e.clock.Now()
	if e.phase == Work {
		return now.Sub(e.anchor), e.remaining
	}
	return e.elapsed, max(0, e.anchor.Sub(now))
}

func (e *Engine) play(c Cue) {
	if err := e.player.Play(c); err != nil {
		e.logger.Warn().Err(err).Int("cue", int(c)).Msg("audio playback failed")
	}
}

func (e *Engine) emit(evs []Event) {
	if e.listener == nil {
		return
	}
	for _, ev := range evs {
		e.listener(e, ev)
	}
}

func clamp(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}
