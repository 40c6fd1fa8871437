// Package events carries change notifications between views. Dispatch is
// synchronous: Publish returns after every subscriber has run.
package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Event names a notification kind.
type Event string

const (
	// ReminderUpdated tells views to re-read the reminder store and redraw.
	ReminderUpdated Event = "reminder.updated"
	// SortConfigUpdated carries the new persisted sort method.
	SortConfigUpdated Event = "sort-config.updated"
)

// SortConfigPayload is delivered with SortConfigUpdated.
type SortConfigPayload struct {
	SortMethod string
}

type subscriber struct {
	id int
	fn func(any)
}

// Bus is a typed in-process publish/subscribe bus. Each subscription
// returns its own unsubscribe func; views call it on teardown.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Event][]subscriber
	logger zerolog.Logger
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		subs:   make(map[Event][]subscriber),
		logger: logger,
	}
}

// SubscribeReminderUpdated registers fn for ReminderUpdated.
func (b *Bus) SubscribeReminderUpdated(fn func()) (unsubscribe func()) {
	return b.subscribe(ReminderUpdated, func(any) { fn() })
}

// SubscribeSortConfigUpdated registers fn for SortConfigUpdated.
func (b *Bus) SubscribeSortConfigUpdated(fn func(SortConfigPayload)) (unsubscribe func()) {
	return b.subscribe(SortConfigUpdated, func(p any) {
		if payload, ok := p.(SortConfigPayload); ok {
			fn(payload)
		}
	})
}

func (b *Bus) PublishReminderUpdated() {
	b.publish(ReminderUpdated, nil)
}

func (b *Bus) PublishSortConfigUpdated(p SortConfigPayload) {
	b.publish(SortConfigUpdated, p)
}

// Subscribers returns the number of live subscriptions for event.
func (b *Bus) Subscribers(event Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[event])
}

func (b *Bus) subscribe(event Event, fn func(any)) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[event] = append(b.subs[event], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			list := b.subs[event]
			for i, s := range list {
				if s.id == id {
					b.subs[event] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) publish(event Event, payload any) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs[event]))
	copy(subs, b.subs[event])
	b.mu.Unlock()

	b.logger.Debug().Str("event", string(event)).Int("subscribers", len(subs)).Msg("event fired")

	for _, s := range subs {
		b.dispatch(event, s, payload)
	}
}

func (b *Bus) dispatch(event Event, s subscriber, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("event", string(event)).
				Str("panic", fmt.Sprint(r)).
				Msg("subscriber panicked")
		}
	}()
	s.fn(payload)
}
