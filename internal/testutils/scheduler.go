// Package testutils holds deterministic doubles for the engine's ports.
package testutils

import "github.com/aretw0/tourguide/pkg/adapters/clock"

// ManualScheduler is the virtual-time scheduler tests drive by hand.
type ManualScheduler = clock.Manual

// NewManualScheduler creates a scheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return clock.NewManual()
}
