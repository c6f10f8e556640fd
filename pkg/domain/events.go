package domain

import (
	"context"
	"time"
)

// EventType is the topic of a tour bus event.
type EventType string

const (
	EventStart      EventType = "start"
	EventStop       EventType = "stop"
	EventStepChange EventType = "stepChange"
	// EventVisible fires once the tour becomes visible after a successful start.
	EventVisible EventType = "visible"
)

// Event is published on a tour's bus.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	TourKey   string    `json:"tour"`
	// Step is the new current step for stepChange, nil when the tour was cleared.
	Step *Step `json:"step,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// They fire at the points where the engine silently degrades.
type LifecycleHooks struct {
	OnStart          func(ctx context.Context, key string, step *Step)
	OnStop           func(ctx context.Context, key string)
	OnStepChange     func(ctx context.Context, key string, step *Step)
	OnStartAbandoned func(ctx context.Context, key string, tries int)
	OnGate           func(ctx context.Context, key string, step *Step, outcome Outcome)
	OnMeasureSkipped func(ctx context.Context, key string, step *Step, err error)
	OnStaleDiscarded func(ctx context.Context, key string, generation uint64)
}

// Merge returns hooks that call h first and then o for every callback.
func (h LifecycleHooks) Merge(o LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStart:          chain3(h.OnStart, o.OnStart),
		OnStop:           chain2(h.OnStop, o.OnStop),
		OnStepChange:     chain3(h.OnStepChange, o.OnStepChange),
		OnStartAbandoned: chain3(h.OnStartAbandoned, o.OnStartAbandoned),
		OnGate:           chain4(h.OnGate, o.OnGate),
		OnMeasureSkipped: chain4(h.OnMeasureSkipped, o.OnMeasureSkipped),
		OnStaleDiscarded: chain3(h.OnStaleDiscarded, o.OnStaleDiscarded),
	}
}

func chain2[A, B any](a, b func(A, B)) func(A, B) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(x A, y B) { a(x, y); b(x, y) }
}

func chain3[A, B, C any](a, b func(A, B, C)) func(A, B, C) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(x A, y B, z C) { a(x, y, z); b(x, y, z) }
}

func chain4[A, B, C, D any](a, b func(A, B, C, D)) func(A, B, C, D) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(x A, y B, z C, w D) { a(x, y, z, w); b(x, y, z, w) }
}
