// Package events implements the per-tour event bus.
package events

import (
	"log/slog"
	"sync"

	"github.com/aretw0/tourguide/internal/logging"
	"github.com/aretw0/tourguide/pkg/domain"
)

// Handler receives events published on a bus.
type Handler func(domain.Event)

type subscription struct {
	topic domain.EventType // empty means every topic
	fn    Handler
}

// Bus is a synchronous publish/subscribe channel scoped to one tour.
// Handlers run on the publisher's goroutine, in subscription order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]subscription
	order  []uint64
	logger *slog.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bus{
		subs:   make(map[uint64]subscription),
		logger: logger,
	}
}

// On registers fn for one topic and returns a function that removes it.
func (b *Bus) On(topic domain.EventType, fn Handler) func() {
	return b.add(subscription{topic: topic, fn: fn})
}

// OnAny registers fn for every topic.
func (b *Bus) OnAny(fn Handler) func() {
	return b.add(subscription{fn: fn})
}

func (b *Bus) add(s subscription) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[id] = s
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Emit delivers e to the matching handlers.
// The handler list is snapshotted first so handlers may subscribe or
// unsubscribe while being called.
func (b *Bus) Emit(e domain.Event) {
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		s := b.subs[id]
		if s.topic == "" || s.topic == e.Type {
			targets = append(targets, s.fn)
		}
	}
	b.mu.RUnlock()

	b.logger.Debug("bus: emitting", "type", e.Type, "tour", e.TourKey, "handlers", len(targets))
	for _, fn := range targets {
		fn(e)
	}
}

// Len returns the number of subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stream adapts the bus to a buffered channel. Events are dropped when the
// buffer is full, so a slow consumer never blocks the tour.
// The returned function unsubscribes and closes the channel.
func (b *Bus) Stream(buffer int) (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, buffer)
	var mu sync.Mutex
	closed := false

	off := b.OnAny(func(e domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
			b.logger.Warn("bus: stream buffer full, dropping event", "type", e.Type, "tour", e.TourKey)
		}
	})

	return ch, func() {
		off()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
}
