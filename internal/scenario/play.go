package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/tourguide/pkg/domain"
)

// Driver executes scripted actions. An empty key means the active tour.
type Driver interface {
	Start(ctx context.Context, key, from string)
	Next(ctx context.Context, key string)
	Prev(ctx context.Context, key string)
	Stop(ctx context.Context, key string)
	Unregister(ctx context.Context, key, name string)
	Press(ctx context.Context, x, y float64) bool
	SetCanvas(ctx context.Context, r domain.Rect)
	SetTourKey(key string)
	// Wait lets d of (virtual) time pass, running scheduled work.
	Wait(d time.Duration)
}

// Observer is told about every action after the driver has settled.
type Observer func(i int, a Action)

// Play runs the script against d. After each action d waits for settle,
// so highlight moves and deferred commits have landed.
func (s *Scenario) Play(ctx context.Context, d Driver, settle time.Duration, observe Observer) error {
	for i, a := range s.Script {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch a.Do {
		case VerbStart:
			d.Start(ctx, a.Tour, a.From)
		case VerbNext:
			d.Next(ctx, a.Tour)
		case VerbPrev:
			d.Prev(ctx, a.Tour)
		case VerbStop:
			d.Stop(ctx, a.Tour)
		case VerbPress:
			d.Press(ctx, a.X, a.Y)
		case VerbResize:
			d.SetCanvas(ctx, *a.Canvas)
		case VerbUnregister:
			d.Unregister(ctx, a.Tour, a.Step)
		case VerbSelect:
			d.SetTourKey(a.Tour)
		case VerbWait:
			d.Wait(a.For)
		default:
			return fmt.Errorf("script %d: %w: unknown action %q", i, ErrInvalidScenario, a.Do)
		}
		d.Wait(settle)
		if observe != nil {
			observe(i, a)
		}
	}
	return nil
}

// String renders the action the way it appears in preview output.
func (a Action) String() string {
	s := string(a.Do)
	if a.Tour != "" {
		s += " [" + a.Tour + "]"
	}
	switch a.Do {
	case VerbStart:
		if a.From != "" {
			s += " from " + a.From
		}
	case VerbPress:
		s += fmt.Sprintf(" at (%g, %g)", a.X, a.Y)
	case VerbResize:
		s += " to " + a.Canvas.String()
	case VerbUnregister:
		s += " " + a.Step
	case VerbWait:
		s += " " + a.For.String()
	}
	return s
}
