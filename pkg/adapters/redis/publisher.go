// Package redis mirrors tour bus events onto Redis pub/sub so that remote
// UI bindings can follow a tour driven elsewhere.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tourguide/internal/logging"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/events"
	backend "github.com/redis/go-redis/v9"
)

// Publisher publishes tour events as JSON on <prefix>tour:<key>.
type Publisher struct {
	client  *backend.Client
	prefix  string
	logger  *slog.Logger
	timeout time.Duration
	buffer  int
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithPrefix namespaces the channels, e.g. "myapp:".
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTimeout bounds each PUBLISH call.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.timeout = d
	}
}

// WithBuffer sets how many events may queue before new ones are dropped.
func WithBuffer(n int) Option {
	return func(p *Publisher) {
		p.buffer = n
	}
}

// NewPublisher creates a publisher on client.
func NewPublisher(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		prefix:  "tourguide:",
		logger:  logging.NewNop(),
		timeout: 2 * time.Second,
		buffer:  64,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Channel returns the pub/sub channel of a tour key.
func (p *Publisher) Channel(key string) string {
	return p.prefix + "tour:" + key
}

// Publish sends one event.
func (p *Publisher) Publish(ctx context.Context, e domain.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.Channel(e.TourKey), payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", p.Channel(e.TourKey), err)
	}
	return nil
}

// Attach forwards every event of bus until the returned function is called.
// Publishing happens off the emitting goroutine so a slow Redis never
// blocks navigation; the stop function waits for queued events to drain.
func (p *Publisher) Attach(bus *events.Bus) (stop func()) {
	ch, cancel := bus.Stream(p.buffer)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for e := range ch {
			ctx, cancelPublish := context.WithTimeout(context.Background(), p.timeout)
			if err := p.Publish(ctx, e); err != nil {
				p.logger.Warn("redis: event not published", "tour", e.TourKey, "type", e.Type, "err", err)
			}
			cancelPublish()
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// Subscription receives the events published for one tour.
type Subscription struct {
	ps     *backend.PubSub
	events chan domain.Event
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// Subscribe follows key's channel. It returns once Redis has confirmed the
// subscription, so events published afterwards are not missed.
func (p *Publisher) Subscribe(ctx context.Context, key string) (*Subscription, error) {
	ps := p.client.Subscribe(ctx, p.Channel(key))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", p.Channel(key), err)
	}

	s := &Subscription{
		ps:     ps,
		events: make(chan domain.Event, p.buffer),
		done:   make(chan struct{}),
	}
	go s.run(p.logger)
	return s, nil
}

func (s *Subscription) run(logger *slog.Logger) {
	defer close(s.events)
	for msg := range s.ps.Channel() {
		var e domain.Event
		if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
			logger.Warn("redis: malformed event", "channel", msg.Channel, "err", err)
			continue
		}
		select {
		case s.events <- e:
		case <-s.done:
			return
		}
	}
}

// Events delivers decoded events. It is closed after Close.
func (s *Subscription) Events() <-chan domain.Event {
	return s.events
}

// Close ends the subscription. Later calls return the first result.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.ps.Close()
	})
	return s.closeErr
}
