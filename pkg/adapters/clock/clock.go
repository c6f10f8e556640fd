// Package clock provides ports.Scheduler implementations on wall-clock and
// virtual time.
package clock

import (
	"sync"
	"time"

	"github.com/aretw0/tourguide/pkg/ports"
)

// Clock schedules callbacks with time.AfterFunc. Frames are emulated with a
// fixed interval, since a headless host has no display link.
type Clock struct {
	frame time.Duration
}

// New creates a Clock with the given frame interval.
func New(frame time.Duration) *Clock {
	return &Clock{frame: frame}
}

// AfterFrame runs fn after one frame interval.
func (c *Clock) AfterFrame(fn func()) ports.CancelFunc {
	return c.AfterFunc(c.frame, fn)
}

// AfterFunc runs fn once d has elapsed.
func (c *Clock) AfterFunc(d time.Duration, fn func()) ports.CancelFunc {
	t := time.AfterFunc(d, fn)
	var once sync.Once
	return func() {
		once.Do(func() { t.Stop() })
	}
}
