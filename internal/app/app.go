// Package app wires the store, event bus and services into one value that
// the CLI commands and the TUI share.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/remindr/internal/events"
	"github.com/sadopc/remindr/internal/export"
	"github.com/sadopc/remindr/internal/logging"
	"github.com/sadopc/remindr/internal/pomodoro"
	"github.com/sadopc/remindr/internal/reminder"
	"github.com/sadopc/remindr/internal/store"
)

type App struct {
	Store     *store.Store
	Bus       *events.Bus
	Reminders *reminder.Service
	Records   *pomodoro.Records

	logger zerolog.Logger
}

// Open opens the database at dbPath and builds the services on top of it.
func Open(dbPath string) (*App, error) {
	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return New(st), nil
}

// New builds an App around an open store.
func New(st *store.Store) *App {
	bus := events.NewBus(logging.Component("events"))
	a := &App{
		Store:     st,
		Bus:       bus,
		Reminders: reminder.NewService(st, st, st, bus, logging.Component("reminder")),
		logger:    logging.Component("app"),
	}
	a.ReloadSettings()
	return a
}

// ReloadSettings re-reads settings that are cached in services.
func (a *App) ReloadSettings() {
	weekStart, _ := a.Store.GetSetting(pomodoro.KeyWeekStart)
	a.Records = pomodoro.NewRecords(a.Store, pomodoro.SystemClock(), pomodoro.ParseWeekStart(weekStart))
}

func (a *App) Close() error {
	return a.Store.Close()
}

// PomodoroSettings loads the timer settings.
func (a *App) PomodoroSettings() pomodoro.Settings {
	return pomodoro.LoadSettings(a.Store)
}

// TargetFor resolves a reminder or repeat instance ID to the stored
// reminder a timer should credit.
func (a *App) TargetFor(ctx context.Context, id string) (pomodoro.Target, error) {
	snap, err := a.Reminders.Snapshot(ctx)
	if err != nil {
		return pomodoro.Target{}, err
	}
	orig := reminder.OriginalID(snap, id)
	r, ok := snap[orig]
	if !ok {
		return pomodoro.Target{}, fmt.Errorf("%w: %s", reminder.ErrMissingReminder, id)
	}
	return pomodoro.Target{ID: r.ID, Title: r.Title}, nil
}

// NewTimer builds a timer for target. Completed work cycles are credited to
// the reminder, and listener (if any) sees every event after the app has
// handled it.
func (a *App) NewTimer(target pomodoro.Target, listener pomodoro.Listener, opts ...pomodoro.Option) *pomodoro.Engine {
	auto := &pomodoro.Automation{
		Records:  a.Records,
		Settings: a.Store,
		Credit:   a.Reminders.IncrementPomodoroCount,
		Logger:   logging.Component("pomodoro"),
	}
	base := []pomodoro.Option{
		pomodoro.WithRecords(a.Records),
		pomodoro.WithLogger(logging.Component("pomodoro")),
		pomodoro.WithListener(func(e *pomodoro.Engine, ev pomodoro.Event) {
			auto.Handle(e, ev)
			if listener != nil {
				listener(e, ev)
			}
		}),
	}
	return pomodoro.NewEngine(a.PomodoroSettings(), target, append(base, opts...)...)
}

// EndPlayer returns the player for the end_sound setting. A bell is written
// to w, which must be safe to call from the timer's goroutine.
func (a *App) EndPlayer(w io.Writer) pomodoro.Player {
	endSound, _ := a.Store.GetSetting(pomodoro.KeyEndSound)
	return pomodoro.PlayerFor(endSound, w)
}

// AddReminder creates r together with the note block it belongs to. A
// given BlockID must already exist; otherwise a block holding the title is
// created under the reminder's ID.
func (a *App) AddReminder(ctx context.Context, r store.Reminder) (store.Reminder, error) {
	if r.BlockID != "" {
		b, err := a.Store.LookupBlock(ctx, r.BlockID)
		if err != nil {
			return store.Reminder{}, fmt.Errorf("lookup block: %w", err)
		}
		if b == nil {
			return store.Reminder{}, fmt.Errorf("%w: block %s", reminder.ErrOrphanedReminder, r.BlockID)
		}
		return a.Reminders.Create(ctx, r)
	}

	created, err := a.Reminders.Create(ctx, r)
	if err != nil {
		return store.Reminder{}, err
	}
	if _, err := a.Store.CreateBlock(ctx, created.BlockID, created.Title); err != nil {
		a.logger.Warn().Err(err).Str("block", created.BlockID).Msg("create block")
		return created, fmt.Errorf("create block: %w", err)
	}
	return created, nil
}

// ExportDocument collects every reminder and session record.
func (a *App) ExportDocument(ctx context.Context) (export.Document, error) {
	snap, err := a.Reminders.Snapshot(ctx)
	if err != nil {
		return export.Document{}, err
	}
	list := make([]store.Reminder, 0, len(snap))
	for _, r := range snap {
		list = append(list, r)
	}
	sessions, err := a.Records.Sessions(ctx, time.Time{}, time.Time{})
	if err != nil {
		return export.Document{}, fmt.Errorf("list sessions: %w", err)
	}
	return export.NewDocument(list, sessions, time.Now()), nil
}
