package clock

import (
	"sort"
	"sync"
	"time"

	"github.com/aretw0/tourguide/pkg/ports"
)

type task struct {
	id       uint64
	due      time.Duration
	fn       func()
	canceled bool
}

// Manual is a ports.Scheduler on virtual time. Frames run when
// Frame is called and timers run when Advance moves virtual time past them.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	frames []*task
	timers []*task
}

// NewManual creates a scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) cancel(t *task) ports.CancelFunc {
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		t.canceled = true
	}
}

// AfterFrame queues fn for the next Frame call.
func (m *Manual) AfterFrame(fn func()) ports.CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &task{id: m.seq, fn: fn}
	m.frames = append(m.frames, t)
	return m.cancel(t)
}

// AfterFunc queues fn to run once virtual time reaches now+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) ports.CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &task{id: m.seq, due: m.now + d, fn: fn}
	m.timers = append(m.timers, t)
	return m.cancel(t)
}

// Frame runs the callbacks queued before the call and returns how many ran.
// Callbacks queued while running wait for the next frame.
func (m *Manual) Frame() int {
	m.mu.Lock()
	batch := m.frames
	m.frames = nil
	m.mu.Unlock()

	ran := 0
	for _, t := range batch {
		m.mu.Lock()
		canceled := t.canceled
		m.mu.Unlock()
		if canceled {
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

// Frames runs n frames.
func (m *Manual) Frames(n int) {
	for i := 0; i < n; i++ {
		m.Frame()
	}
}

// Advance moves virtual time forward by d, running due timers in order.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		sort.SliceStable(m.timers, func(i, j int) bool {
			if m.timers[i].due != m.timers[j].due {
				return m.timers[i].due < m.timers[j].due
			}
			return m.timers[i].id < m.timers[j].id
		})
		if len(m.timers) == 0 || m.timers[0].due > target {
			m.now = target
			m.mu.Unlock()
			return
		}
		t := m.timers[0]
		m.timers = m.timers[1:]
		m.now = t.due
		canceled := t.canceled
		m.mu.Unlock()

		if !canceled {
			t.fn()
		}
	}
}

// PendingFrames returns the number of queued, uncanceled frame callbacks.
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.frames {
		if !t.canceled {
			n++
		}
	}
	return n
}

// PendingTimers returns the number of queued, uncanceled timers.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.canceled {
			n++
		}
	}
	return n
}

// Run lets d of virtual time pass, running one frame every interval.
func (m *Manual) Run(d, interval time.Duration) {
	if interval <= 0 {
		m.Frame()
		m.Advance(d)
		return
	}
	for elapsed := time.Duration(0); elapsed < d; elapsed += interval {
		m.Frame()
		m.Advance(min(interval, d-elapsed))
	}
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
