package testutils

import (
	"context"
	"sync"

	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/mask"
	"github.com/aretw0/tourguide/pkg/ports"
)

// Wrapper reports a fixed layout relative to any ancestor.
type Wrapper struct {
	X, Y, Width, Height float64
	Err                 error

	mu        sync.Mutex
	Ancestors []any
}

func (w *Wrapper) MeasureLayout(ctx context.Context, ancestor any, fn domain.LayoutFunc) error {
	w.mu.Lock()
	w.Ancestors = append(w.Ancestors, ancestor)
	w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	fn(w.X, w.Y, w.Width, w.Height)
	return nil
}

// Scroller records ScrollTo calls.
type Scroller struct {
	mu    sync.Mutex
	Calls []ports.ScrollOptions
}

func (s *Scroller) ScrollTo(ctx context.Context, opts ports.ScrollOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, opts)
	return nil
}

// OffsetScroller records ScrollToOffset calls.
type OffsetScroller struct {
	mu    sync.Mutex
	Calls []ports.ScrollOptions
}

func (s *OffsetScroller) ScrollToOffset(ctx context.Context, opts ports.ScrollOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, opts)
	return nil
}

// Renderer records every call made by the overlay coordinator.
type Renderer struct {
	mu     sync.Mutex
	Frames []ports.Frame
	Masks  []mask.Mask
	Hides  int
}

func (r *Renderer) AnimateMove(ctx context.Context, frame ports.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Frames = append(r.Frames, frame)
	return nil
}

func (r *Renderer) RenderMask(ctx context.Context, m mask.Mask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Masks = append(r.Masks, m)
	return nil
}

func (r *Renderer) Hide(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Hides++
	return nil
}

// LastFrame returns the most recent frame, if any.
func (r *Renderer) LastFrame() (ports.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Frames) == 0 {
		return ports.Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// LastMask returns the most recent mask, if any.
func (r *Renderer) LastMask() (mask.Mask, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Masks) == 0 {
		return mask.Mask{}, false
	}
	return r.Masks[len(r.Masks)-1], true
}
