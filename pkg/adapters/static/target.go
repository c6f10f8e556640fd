// Package static provides domain.Target implementations backed by fixed or
// computed geometry, for headless hosts, previews and tests.
package static

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/tourguide/pkg/domain"
)

// Target always measures the same rectangle.
type Target struct {
	mu   sync.RWMutex
	rect domain.Rect
}

// NewTarget creates a Target at rect.
func NewTarget(rect domain.Rect) *Target {
	return &Target{rect: rect}
}

// Move relocates the target, e.g. after a simulated scroll.
func (t *Target) Move(rect domain.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rect = rect
}

// Measure returns the current rectangle.
func (t *Target) Measure(ctx context.Context) (domain.Rect, error) {
	if err := ctx.Err(); err != nil {
		return domain.Rect{}, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rect, nil
}

// Func adapts a function to domain.Target.
type Func func(ctx context.Context) (domain.Rect, error)

// Measure calls f.
func (f Func) Measure(ctx context.Context) (domain.Rect, error) {
	return f(ctx)
}

// Unmounted never has a layout: every measurement fails.
type Unmounted struct{}

// Measure always returns domain.ErrInvalidMeasurement.
func (Unmounted) Measure(ctx context.Context) (domain.Rect, error) {
	return domain.Rect{}, fmt.Errorf("target not laid out: %w", domain.ErrInvalidMeasurement)
}

// Wrapper reports a fixed layout relative to whatever ancestor is asked for.
type Wrapper struct {
	Layout domain.Rect
}

// MeasureLayout calls fn with the fixed layout.
func (w Wrapper) MeasureLayout(ctx context.Context, ancestor any, fn domain.LayoutFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fn(w.Layout.X, w.Layout.Y, w.Layout.Width, w.Layout.Height)
	return nil
}
