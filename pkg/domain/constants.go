package domain

import "time"

// DefaultTourKey is the tour used when the caller does not multiplex tours.
const DefaultTourKey = "_default"

const (
	// MaxStartTries bounds how many frames Start waits for the first step to
	// be registered. At 60fps this is about two seconds.
	MaxStartTries = 120

	// FrameInterval is the render-frame cadence assumed by the default scheduler.
	FrameInterval = time.Second / 60

	// SettleDelay is the wait between issuing a scroll and committing the step,
	// so the scroll animation can finish before the target is measured.
	SettleDelay = 100 * time.Millisecond

	// MoveDelay is the wait between a step change and the highlight move.
	MoveDelay = 150 * time.Millisecond

	// HighlightPadding inflates the measured target, split evenly on all sides.
	HighlightPadding = 4.0
)
