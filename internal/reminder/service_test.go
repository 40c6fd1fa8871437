package reminder

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/remindr/internal/events"
	"github.com/sadopc/remindr/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store, *events.Bus) {
	t.Helper()
	st, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	bus := events.NewBus(zerolog.Nop())
	return NewService(st, st, st, bus, zerolog.Nop()), st, bus
}

type brokenRepo struct{ failWrite bool }

func (b brokenRepo) ReadReminders(context.Context) (store.Snapshot, error) {
	if b.failWrite {
		return store.Snapshot{"a": {ID: "a", Title: "A", Date: "2024-01-10"}}, nil
	}
	return nil, errors.New("disk gone")
}

func (b brokenRepo) WriteReminders(context.Context, store.Snapshot) error {
	return errors.New("read-only")
}

func TestCreateThenClassify(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, store.Reminder{ID: "a", Date: "2024-01-10", Title: "X"})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	b := Classify(snap, "2024-01-15")

	assert.Contains(t, ids(b.Overdue), "a")
	assert.Contains(t, ids(b.Today), "a")
	assert.NotContains(t, ids(b.Upcoming), "a")
}

func TestCreateFillsDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)

	r, err := svc.Create(context.Background(), store.Reminder{Title: "  Call mom ", Date: "2024-03-01"})
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, r.ID, r.BlockID)
	assert.Equal(t, "Call mom", r.Title)
	assert.Equal(t, store.PriorityNone, r.Priority)
	assert.NotEmpty(t, r.CreatedAt)
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, store.Reminder{Title: "x", Date: "2024-01-10", EndDate: "2024-01-01"})
	assert.ErrorIs(t, err, ErrInvalidReminder)

	_, err = svc.Create(ctx, store.Reminder{Title: "x", Date: "2024-01-10", Repeat: "FREQ=SOMETIMES"})
	assert.ErrorIs(t, err, ErrInvalidReminder)

	snap, _ := svc.Snapshot(ctx)
	assert.Empty(t, snap)
}

func TestDeleteRemovesKey(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, store.Reminder{ID: "a", Title: "A", Date: "2024-01-10"})

	require.NoError(t, svc.Delete(ctx, "a"))

	raw, err := st.ReadReminders(ctx)
	require.NoError(t, err)
	assert.NotContains(t, raw, "a")

	assert.ErrorIs(t, svc.Delete(ctx, "a"), ErrMissingReminder)
}

func TestPublishAfterWrite(t *testing.T) {
	svc, st, bus := newTestService(t)
	ctx := context.Background()

	var seen []bool
	unsubscribe := bus.SubscribeReminderUpdated(func() {
		snap, _ := st.ReadReminders(ctx)
		_, ok := snap["a"]
		seen = append(seen, ok)
	})
	defer unsubscribe()

	_, err := svc.Create(ctx, store.Reminder{ID: "a", Title: "A", Date: "2024-01-10"})
	require.NoError(t, err)

	assert.Equal(t, []bool{true}, seen)
}

func TestNoPublishWhenNothingChanges(t *testing.T) {
	svc, _, bus := newTestService(t)
	fired := 0
	defer bus.SubscribeReminderUpdated(func() { fired++ })()

	err := svc.Toggle(context.Background(), "ghost", true)
	assert.ErrorIs(t, err, ErrMissingReminder)

	n, err := svc.DeleteByBlock(context.Background(), "blk")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, fired)
}

func TestStoreFailures(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	fired := 0
	defer bus.SubscribeReminderUpdated(func() { fired++ })()

	unreadable := NewService(brokenRepo{}, nil, nil, bus, zerolog.Nop())
	_, err := unreadable.Get(context.Background(), "a")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	unwritable := NewService(brokenRepo{failWrite: true}, nil, nil, bus, zerolog.Nop())
	err = unwritable.Toggle(context.Background(), "a", true)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Zero(t, fired)
}

func TestToggleAndPriority(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, store.Reminder{ID: "a", Title: "A", Date: "2024-01-10"})

	require.NoError(t, svc.Toggle(ctx, "a", true))
	require.NoError(t, svc.SetPriority(ctx, "a", store.PriorityHigh))
	assert.ErrorIs(t, svc.SetPriority(ctx, "a", "urgent"), ErrInvalidReminder)

	r, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, r.Completed)
	assert.Equal(t, store.PriorityHigh, r.Priority)
}

func TestEditKeepsIdentity(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	orig, _ := svc.Create(ctx, store.Reminder{ID: "a", BlockID: "blk", Title: "A", Date: "2024-01-10"})
	svc.IncrementPomodoroCount(ctx, "a")

	err := svc.Edit(ctx, store.Reminder{ID: "a", Title: "B", Date: "2024-01-11", EndDate: "2024-01-11", Time: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	r, _ := svc.Get(ctx, "a")
	assert.Equal(t, "B", r.Title)
	assert.Equal(t, "2024-01-11", r.Date)
	assert.Empty(t, r.EndDate)
	assert.Equal(t, "10:00", r.EndTime)
	assert.Equal(t, "blk", r.BlockID)
	assert.Equal(t, orig.CreatedAt, r.CreatedAt)
	assert.Equal(t, 1, r.PomodoroCount)

	err = svc.Edit(ctx, store.Reminder{ID: "a", Title: "", Date: "2024-01-11"})
	assert.ErrorIs(t, err, ErrInvalidReminder)
}

func TestDeleteByBlock(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, store.Reminder{ID: "r1", BlockID: "blk", Title: "1", Date: "2024-01-10"})
	svc.Create(ctx, store.Reminder{ID: "r2", BlockID: "blk", Title: "2", Date: "2024-01-10"})
	svc.Create(ctx, store.Reminder{ID: "blk", Title: "legacy", Date: "2024-01-10"})
	svc.Create(ctx, store.Reminder{ID: "r3", BlockID: "other", Title: "3", Date: "2024-01-10"})

	n, err := svc.DeleteByBlock(ctx, "blk")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	snap, _ := svc.Snapshot(ctx)
	assert.Len(t, snap, 1)
	assert.Contains(t, snap, "r3")
}

func TestOpen(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	st.CreateBlock(ctx, "blk", "notes")
	svc.Create(ctx, store.Reminder{ID: "a", BlockID: "blk", Title: "A", Date: "2024-01-10"})
	svc.Create(ctx, store.Reminder{ID: "b", BlockID: "gone", Title: "B", Date: "2024-01-10"})

	b, err := svc.Open(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "notes", b.Content)

	_, err = svc.Open(ctx, "b")
	assert.ErrorIs(t, err, ErrOrphanedReminder)

	_, err = svc.Open(ctx, "zzz")
	assert.ErrorIs(t, err, ErrMissingReminder)
}

func TestIncrementPomodoroCountCreditsOriginal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, store.Reminder{ID: "daily", Title: "Standup", Date: "2024-01-10", Repeat: "FREQ=DAILY"})

	require.NoError(t, svc.IncrementPomodoroCount(ctx, "daily_2024-01-12"))
	require.NoError(t, svc.IncrementPomodoroCount(ctx, "daily"))

	r, _ := svc.Get(ctx, "daily")
	assert.Equal(t, 2, r.PomodoroCount)
	assert.ErrorIs(t, svc.IncrementPomodoroCount(ctx, "nope"), ErrMissingReminder)
}

func TestSortMethodSetting(t *testing.T) {
	svc, st, bus := newTestService(t)
	var got []string
	defer bus.SubscribeSortConfigUpdated(func(p events.SortConfigPayload) { got = append(got, p.SortMethod) })()

	assert.Equal(t, SortTime, svc.SortMethod())

	require.NoError(t, svc.SetSortMethod(SortPriority))
	assert.Equal(t, SortPriority, svc.SortMethod())
	assert.Equal(t, []string{"priority"}, got)

	assert.Error(t, svc.SetSortMethod("random"))

	st.SetSetting("sort_method", "garbage")
	assert.Equal(t, SortTime, svc.SortMethod())
}

func TestListUsesSavedSort(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	svc.Create(ctx, store.Reminder{ID: "a", Title: "b-title", Date: "2024-01-15", Time: "08:00"})
	svc.Create(ctx, store.Reminder{ID: "b", Title: "a-title", Date: "2024-01-15", Time: "09:00"})
	svc.Create(ctx, store.Reminder{ID: "c", Title: "future", Date: "2024-01-20"})

	list, counts, err := svc.List(ctx, FilterToday, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(list))
	assert.Equal(t, 1, counts.Upcoming)

	svc.SetSortMethod(SortTitle)
	list, _, _ = svc.List(ctx, FilterAll, "2024-01-15")
	assert.Equal(t, []string{"b", "a", "c"}, ids(list))
}
