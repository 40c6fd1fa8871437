package pomodoro

import (
	"context"

	"github.com/rs/zerolog"
)

// Policy picks the break that follows a completed pomodoro: every
// LongBreakEvery-th one earns a long break.
type Policy struct {
	LongBreakEvery int
}

func (p Policy) NextBreak(completed int) Phase {
	if p.LongBreakEvery > 0 && completed > 0 && completed%p.LongBreakEvery == 0 {
		return LongBreak
	}
	return ShortBreak
}

// Automation reacts to engine events on behalf of the application: it
// credits the focused reminder, optionally logs work cycles, optionally
// rolls into the next break, and persists edited break lengths.
type Automation struct {
	Records  *Records
	Settings SettingsWriter
	Credit   func(ctx context.Context, reminderID string) error
	Logger   zerolog.Logger
}

// Handle is meant to be called from an engine Listener.
func (a *Automation) Handle(e *Engine, ev Event) {
	ctx := context.Background()
	s := ev.Snapshot

	switch ev.Kind {
	case EventWorkCycleCompleted:
		if a.Credit != nil && s.Target.ID != "" {
			if err := a.Credit(ctx, s.Target.ID); err != nil {
				a.Logger.Warn().Err(err).Str("reminder", s.Target.ID).Msg("credit pomodoro")
			}
		}
		if s.Settings.RecordWork && a.Records != nil {
			if _, err := a.Records.RecordWorkSession(ctx, s.Settings.WorkMinutes, s.Target); err != nil {
				a.Logger.Error().Err(err).Msg("record work session")
			}
		}
		if s.Settings.AutoBreak {
			next := Policy{LongBreakEvery: s.Settings.LongBreakEvery}.NextBreak(s.Completed)
			e.StartBreak(next)
			if err := e.Start(); err != nil {
				a.Logger.Warn().Err(err).Msg("start break")
			}
		}

	case EventBreakCompleted:
		if s.Settings.AutoBreak {
			if err := e.Start(); err != nil {
				a.Logger.Warn().Err(err).Msg("start work")
			}
		}

	case EventSettingsChanged:
		if a.Settings != nil {
			if err := SaveBreakSettings(a.Settings, s.Settings); err != nil {
				a.Logger.Error().Err(err).Msg("save break settings")
			}
		}
	}
}
