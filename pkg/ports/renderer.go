package ports

import (
	"context"
	"time"

	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/mask"
)

// Frame is what the renderer needs to move the highlight to a step.
type Frame struct {
	TourKey  string
	Step     *domain.Step
	Box      domain.Rect
	IsFirst  bool
	IsLast   bool
	Duration time.Duration

	Labels     domain.Labels
	Appearance domain.Appearance
}

// Renderer is the external overlay that draws the backdrop and tooltip.
type Renderer interface {
	// AnimateMove moves and resizes the highlight box.
	AnimateMove(ctx context.Context, frame Frame) error
	// RenderMask draws the input-intercepting regions around the highlight.
	RenderMask(ctx context.Context, m mask.Mask) error
	// Hide removes the overlay.
	Hide(ctx context.Context) error
}
