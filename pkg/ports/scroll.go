package ports

import "context"

// ScrollOptions describes a vertical scroll request.
type ScrollOptions struct {
	Offset   float64
	Animated bool
}

// Scroller is a scroll container exposing scrollTo (scroll views).
type Scroller interface {
	ScrollTo(ctx context.Context, opts ScrollOptions) error
}

// OffsetScroller is a scroll container exposing scrollToOffset (virtualized lists).
type OffsetScroller interface {
	ScrollToOffset(ctx context.Context, opts ScrollOptions) error
}
