// Package mask derives the input-intercepting overlay regions around a
// highlighted target.
package mask

import (
	"math"

	"github.com/aretw0/tourguide/pkg/domain"
)

// Region names one band of the mask.
type Region string

const (
	RegionFull   Region = "full"
	RegionTop    Region = "top"
	RegionBottom Region = "bottom"
	RegionLeft   Region = "left"
	RegionRight  Region = "right"
)

// Band is one rectangle of the mask.
type Band struct {
	Region Region      `json:"region"`
	Rect   domain.Rect `json:"rect"`
}

// Options controls how the mask treats pointer input.
type Options struct {
	// DismissOnPress stops the tour when a band is tapped.
	DismissOnPress bool
	// PreventOutsideInteraction makes bands swallow input without dismissing.
	PreventOutsideInteraction bool
}

// Mask is the set of bands covering the canvas outside the target.
type Mask struct {
	Canvas domain.Rect `json:"canvas"`
	Target domain.Rect `json:"target"`
	Bands  []Band      `json:"bands"`
	// Pressable is true when the target itself is left uncovered.
	Pressable bool `json:"pressable"`
	// Intercepts is false when input passes through the bands to the UI below.
	Intercepts     bool `json:"intercepts"`
	DismissOnPress bool `json:"dismiss_on_press"`
}

// Derive computes the mask for target on canvas.
//
// Without pressable a single band covers the whole canvas. With pressable
// four bands tile the canvas minus the target: full-width top and bottom
// bands, and left and right bands bounded to the target's rows. The target
// is clipped to the canvas first so no band has a negative size.
func Derive(target, canvas domain.Rect, pressable bool, opts Options) Mask {
	m := Mask{
		Canvas:         canvas,
		Target:         target,
		Pressable:      pressable,
		Intercepts:     opts.DismissOnPress || opts.PreventOutsideInteraction,
		DismissOnPress: opts.DismissOnPress,
	}
	if !pressable {
		m.Bands = []Band{{Region: RegionFull, Rect: canvas}}
		return m
	}

	t := clip(target, canvas)
	m.Target = t
	m.Bands = []Band{
		{Region: RegionTop, Rect: domain.Rect{
			X: canvas.X, Y: canvas.Y,
			Width: canvas.Width, Height: t.Y - canvas.Y,
		}},
		{Region: RegionBottom, Rect: domain.Rect{
			X: canvas.X, Y: t.Bottom(),
			Width: canvas.Width, Height: canvas.Bottom() - t.Bottom(),
		}},
		{Region: RegionLeft, Rect: domain.Rect{
			X: canvas.X, Y: t.Y,
			Width: t.X - canvas.X, Height: t.Height,
		}},
		{Region: RegionRight, Rect: domain.Rect{
			X: t.Right(), Y: t.Y,
			Width: canvas.Right() - t.Right(), Height: t.Height,
		}},
	}
	return m
}

// Band returns the band for region, if present.
func (m Mask) Band(region Region) (domain.Rect, bool) {
	for _, b := range m.Bands {
		if b.Region == region {
			return b.Rect, true
		}
	}
	return domain.Rect{}, false
}

// Contains reports whether point (x, y) falls on a band, i.e. would be
// intercepted by the mask when Intercepts is set.
func (m Mask) Contains(x, y float64) bool {
	for _, b := range m.Bands {
		r := b.Rect
		if x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom() {
			return true
		}
	}
	return false
}

// clip bounds t to c. A target entirely outside collapses onto the nearest edge.
func clip(t, c domain.Rect) domain.Rect {
	x0 := clamp(t.X, c.X, c.Right())
	y0 := clamp(t.Y, c.Y, c.Bottom())
	x1 := clamp(t.Right(), c.X, c.Right())
	y1 := clamp(t.Bottom(), c.Y, c.Bottom())
	return domain.Rect{X: x0, Y: y0, Width: math.Max(0, x1-x0), Height: math.Max(0, y1-y0)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
