package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sadopc/remindr/internal/events"
	"github.com/sadopc/remindr/internal/store"
)

// Repository reads and writes the whole reminder collection. Writes replace
// everything; there is no per-key update.
type Repository interface {
	ReadReminders(ctx context.Context) (store.Snapshot, error)
	WriteReminders(ctx context.Context, snap store.Snapshot) error
}

// BlockLookup resolves the note block a reminder belongs to. A missing block
// is (nil, nil).
type BlockLookup interface {
	LookupBlock(ctx context.Context, id string) (*store.Block, error)
}

// SettingsStore persists the sort preference.
type SettingsStore interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Notifier broadcasts changes to open views.
type Notifier interface {
	PublishReminderUpdated()
	PublishSortConfigUpdated(events.SortConfigPayload)
}

const sortMethodKey = "sort_method"

// Service runs every reminder mutation through Mutate: read the full
// snapshot, change it in memory, write it back, then notify. Concurrent
// writers from other processes are last-writer-wins.
type Service struct {
	repo     Repository
	blocks   BlockLookup
	settings SettingsStore
	notify   Notifier
	logger   zerolog.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewService(repo Repository, blocks BlockLookup, settings SettingsStore, notify Notifier, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		blocks:   blocks,
		settings: settings,
		notify:   notify,
		logger:   logger,
		now:      time.Now,
	}
}

// Snapshot returns the normalized reminder collection.
func (s *Service) Snapshot(ctx context.Context) (store.Snapshot, error) {
	snap, err := s.repo.ReadReminders(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("read reminders")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return NormalizeSnapshot(snap), nil
}

// Mutate applies fn to a fresh snapshot and writes the result when fn
// reports a change. ReminderUpdated is published only after the write
// succeeds. An error from fn aborts without writing.
func (s *Service) Mutate(ctx context.Context, fn func(store.Snapshot) (bool, error)) error {
	s.mu.Lock()
	changed, err := s.mutateLocked(ctx, fn)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if changed && s.notify != nil {
		s.notify.PublishReminderUpdated()
	}
	return nil
}

func (s *Service) mutateLocked(ctx context.Context, fn func(store.Snapshot) (bool, error)) (bool, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	changed, err := fn(snap)
	if err != nil || !changed {
		return false, err
	}
	if err := s.repo.WriteReminders(ctx, snap); err != nil {
		s.logger.Error().Err(err).Msg("write reminders")
		return false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return true, nil
}

// update runs fn on the reminder with the given id.
func (s *Service) update(ctx context.Context, id string, fn func(*store.Reminder) error) error {
	return s.Mutate(ctx, func(snap store.Snapshot) (bool, error) {
		r, ok := snap[id]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrMissingReminder, id)
		}
		if err := fn(&r); err != nil {
			return false, err
		}
		snap[id] = r
		return true, nil
	})
}

// Create stores a new reminder. ID, blockId, priority and createdAt are
// filled in when empty.
func (s *Service) Create(ctx context.Context, r store.Reminder) (store.Reminder, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = s.now().UTC().Format(time.RFC3339Nano)
	}
	r.Title = strings.TrimSpace(r.Title)
	r = Normalize(r)
	if err := Validate(r); err != nil {
		return store.Reminder{}, err
	}
	if r.Repeat != "" {
		if _, err := ParseRepeat(r); err != nil {
			return store.Reminder{}, err
		}
	}

	err := s.Mutate(ctx, func(snap store.Snapshot) (bool, error) {
		if _, exists := snap[r.ID]; exists {
			return false, fmt.Errorf("%w: duplicate id %s", ErrInvalidReminder, r.ID)
		}
		snap[r.ID] = r
		return true, nil
	})
	if err != nil {
		return store.Reminder{}, err
	}
	s.logger.Info().Str("id", r.ID).Str("date", r.Date).Msg("reminder created")
	return r, nil
}

// Get returns one reminder.
func (s *Service) Get(ctx context.Context, id string) (store.Reminder, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return store.Reminder{}, err
	}
	r, ok := snap[id]
	if !ok {
		return store.Reminder{}, fmt.Errorf("%w: %s", ErrMissingReminder, id)
	}
	return r, nil
}

// List returns the tab f for the given day, ordered by the saved sort method.
func (s *Service) List(ctx context.Context, f Filter, today string) ([]store.Reminder, Counts, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, Counts{}, err
	}
	b := Classify(snap, today)
	list := b.View(f)
	Sort(list, s.SortMethod())
	return list, b.Counts(), nil
}

// Toggle sets the completed flag.
func (s *Service) Toggle(ctx context.Context, id string, completed bool) error {
	return s.update(ctx, id, func(r *store.Reminder) error {
		r.Completed = completed
		return nil
	})
}

// SetPriority changes the priority of one reminder.
func (s *Service) SetPriority(ctx context.Context, id, priority string) error {
	if _, ok := priorityRank[priority]; !ok {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidReminder, priority)
	}
	return s.update(ctx, id, func(r *store.Reminder) error {
		r.Priority = priority
		return nil
	})
}

// Edit replaces the user-editable fields of the stored reminder with those
// of changes. Identity, completion, creation time and pomodoro count are
// kept.
func (s *Service) Edit(ctx context.Context, changes store.Reminder) error {
	return s.update(ctx, changes.ID, func(r *store.Reminder) error {
		next := *r
		next.Title = strings.TrimSpace(changes.Title)
		next.Note = changes.Note
		next.Date = changes.Date
		next.EndDate = changes.EndDate
		next.Time = changes.Time
		next.EndTime = changes.EndTime
		next.Priority = changes.Priority
		next.Repeat = changes.Repeat
		next = Normalize(next)
		if err := Validate(next); err != nil {
			return err
		}
		if next.Repeat != "" {
			if _, err := ParseRepeat(next); err != nil {
				return err
			}
		}
		*r = next
		return nil
	})
}

// Delete removes the reminder's key from the store.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Mutate(ctx, func(snap store.Snapshot) (bool, error) {
		if _, ok := snap[id]; !ok {
			return false, fmt.Errorf("%w: %s", ErrMissingReminder, id)
		}
		delete(snap, id)
		return true, nil
	})
}

// DeleteByBlock removes every reminder attached to blockID, including
// legacy reminders whose own ID is the block ID. It returns how many were
// removed; nothing is written when none match.
func (s *Service) DeleteByBlock(ctx context.Context, blockID string) (int, error) {
	var n int
	err := s.Mutate(ctx, func(snap store.Snapshot) (bool, error) {
		for id, r := range snap {
			if r.BlockID == blockID || r.ID == blockID {
				delete(snap, id)
				n++
			}
		}
		return n > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Open resolves the block behind a reminder. It returns ErrOrphanedReminder
// when the block is gone; the caller decides whether to DeleteByBlock.
func (s *Service) Open(ctx context.Context, id string) (*store.Block, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.blocks == nil {
		return nil, fmt.Errorf("%w: block %s", ErrOrphanedReminder, r.BlockID)
	}
	b, err := s.blocks.LookupBlock(ctx, r.BlockID)
	if err != nil {
		s.logger.Error().Err(err).Str("block", r.BlockID).Msg("lookup block")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: block %s", ErrOrphanedReminder, r.BlockID)
	}
	return b, nil
}

// MoveEvent applies a calendar drag to the stored reminder.
func (s *Service) MoveEvent(ctx context.Context, id string, p Placement) error {
	return s.update(ctx, id, func(r *store.Reminder) error {
		*r = ApplyDrop(*r, p)
		return Validate(*r)
	})
}

// ResizeEvent applies a calendar resize to the stored reminder.
func (s *Service) ResizeEvent(ctx context.Context, id string, p Placement) error {
	return s.update(ctx, id, func(r *store.Reminder) error {
		*r = ApplyResize(*r, p)
		return Validate(*r)
	})
}

// IncrementPomodoroCount credits one finished focus session to the
// reminder. Repeat instances credit the stored original.
func (s *Service) IncrementPomodoroCount(ctx context.Context, id string) error {
	return s.Mutate(ctx, func(snap store.Snapshot) (bool, error) {
		target := OriginalID(snap, id)
		r, ok := snap[target]
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrMissingReminder, id)
		}
		r.PomodoroCount++
		snap[target] = r
		return true, nil
	})
}

// SortMethod returns the saved sort preference, SortTime when unset or
// unreadable.
func (s *Service) SortMethod() SortMethod {
	if s.settings == nil {
		return SortTime
	}
	v, err := s.settings.GetSetting(sortMethodKey)
	if err != nil {
		return SortTime
	}
	return ParseSortMethod(v)
}

// SetSortMethod saves m and publishes SortConfigUpdated.
func (s *Service) SetSortMethod(m SortMethod) error {
	if _, ok := sortMethodNames[m]; !ok {
		return fmt.Errorf("unknown sort method %q", m)
	}
	if s.settings == nil {
		return errors.New("no settings store")
	}
	if err := s.settings.SetSetting(sortMethodKey, string(m)); err != nil {
		s.logger.Error().Err(err).Msg("save sort method")
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if s.notify != nil {
		s.notify.PublishSortConfigUpdated(events.SortConfigPayload{SortMethod: string(m)})
	}
	return nil
}
