package ports

import "time"

// CancelFunc cancels a scheduled callback. It is safe to call more than once.
type CancelFunc func()

// Scheduler runs callbacks on the host event loop.
type Scheduler interface {
	// AfterFrame runs fn on the next render frame.
	AfterFrame(fn func()) CancelFunc
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) CancelFunc
}
