package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/ports"
)

// ScrollOffset computes the vertical offset that brings a wrapper at (y, h)
// into view, leaving topReserved points visible above it for a fixed header.
func ScrollOffset(y, h, topReserved float64) float64 {
	offset := 0.0
	if y > 0 {
		offset = y - h
	}
	if topReserved > 0 {
		if offset > topReserved {
			offset -= topReserved
		} else {
			offset = 0
		}
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// ScrollTo scrolls ref to offset using whichever primitive it exposes.
func ScrollTo(ctx context.Context, ref any, offset float64) error {
	opts := ports.ScrollOptions{Offset: offset, Animated: true}
	switch r := ref.(type) {
	case ports.Scroller:
		return r.ScrollTo(ctx, opts)
	case ports.OffsetScroller:
		return r.ScrollToOffset(ctx, opts)
	}
	return fmt.Errorf("scroll %T: %w", ref, domain.ErrUnsupportedScroller)
}

// scrollIntoView measures step's wrapper against ref and scrolls to it.
// Failures are logged and the step is still committed.
func (s *Store) scrollIntoView(ctx context.Context, key string, step *domain.Step, ref any, topReserved float64) {
	err := step.Wrapper.MeasureLayout(ctx, ref, func(x, y, w, h float64) {
		offset := ScrollOffset(y, h, topReserved)
		if err := ScrollTo(ctx, ref, offset); err != nil {
			s.logger.Warn("scroll into view failed", "tour", key, "step", step.Name, "err", err)
			return
		}
		s.logger.Debug("scrolled step into view", "tour", key, "step", step.Name, "offset", offset)
	})
	if err != nil {
		s.logger.Debug("wrapper measurement failed", "tour", key, "step", step.Name, "err", err)
	}
}
