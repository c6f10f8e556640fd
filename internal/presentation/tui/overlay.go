package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/tourguide/pkg/mask"
	"github.com/aretw0/tourguide/pkg/ports"
	"github.com/muesli/termenv"
)

// Overlay prints the overlay to a terminal instead of drawing it.
// It implements ports.Renderer and ports.Scroller.
type Overlay struct {
	mu       sync.Mutex
	w        io.Writer
	profile  termenv.Profile
	markdown func(string) (string, error)
}

// OverlayOption configures an Overlay.
type OverlayOption func(*Overlay)

// WithProfile sets the color profile. The default is termenv.Ascii.
func WithProfile(p termenv.Profile) OverlayOption {
	return func(o *Overlay) {
		o.profile = p
	}
}

// WithMarkdown renders tooltip text through fn, see NewMarkdown.
func WithMarkdown(fn func(string) (string, error)) OverlayOption {
	return func(o *Overlay) {
		o.markdown = fn
	}
}

// NewOverlay returns an overlay printing to w.
func NewOverlay(w io.Writer, opts ...OverlayOption) *Overlay {
	o := &Overlay{w: w, profile: termenv.Ascii}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Overlay) style(s, color string) termenv.Style {
	return o.profile.String(s).Foreground(o.profile.Color(color))
}

// AnimateMove prints the highlighted step, its tooltip and buttons.
func (o *Overlay) AnimateMove(ctx context.Context, f ports.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	name := ""
	text := ""
	withoutButtons := false
	if f.Step != nil {
		name = f.Step.Name
		text = f.Step.Hints.Text
		withoutButtons = f.Step.Hints.WithoutButtons
	}

	header := fmt.Sprintf("▶ [%s] %s", f.TourKey, name)
	fmt.Fprintf(o.w, "%s %s\n", o.style(header, "#818cf8").Bold(), o.style(f.Box.String(), "#6b7280"))

	if text != "" {
		if o.markdown != nil {
			rendered, err := o.markdown(text)
			if err != nil {
				return fmt.Errorf("render tooltip: %w", err)
			}
			text = rendered
		}
		for _, line := range strings.Split(text, "\n") {
			fmt.Fprintf(o.w, "  %s\n", line)
		}
	}

	if withoutButtons {
		return nil
	}
	fmt.Fprintf(o.w, "  %s\n", strings.Join(o.buttons(f), " "))
	return nil
}

func (o *Overlay) buttons(f ports.Frame) []string {
	var out []string
	if !f.IsLast {
		out = append(out, o.style("("+f.Labels.Skip+")", "#6b7280").String())
	}
	if !f.IsFirst {
		out = append(out, o.style("["+f.Labels.Previous+"]", "#a78bfa").String())
	}
	if f.IsLast {
		out = append(out, o.style("["+f.Labels.Finish+"]", "#34d399").Bold().String())
	} else {
		out = append(out, o.style("["+f.Labels.Next+"]", "#34d399").Bold().String())
	}
	return out
}

// RenderMask prints the mask bands.
func (o *Overlay) RenderMask(ctx context.Context, m mask.Mask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	mode := "passthrough"
	switch {
	case m.DismissOnPress:
		mode = "dismiss"
	case m.Intercepts:
		mode = "intercept"
	}
	fmt.Fprintf(o.w, "  %s\n", o.style(fmt.Sprintf("mask %s pressable=%t", mode, m.Pressable), "#6b7280"))
	for _, b := range m.Bands {
		fmt.Fprintf(o.w, "    %-6s %s\n", b.Region, b.Rect)
	}
	return nil
}

// Hide prints the overlay removal.
func (o *Overlay) Hide(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintln(o.w, o.style("■ overlay hidden", "#f472b6"))
	return nil
}

// ScrollTo prints the scroll request.
func (o *Overlay) ScrollTo(ctx context.Context, opts ports.ScrollOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, "  scroll to %g animated=%t\n", opts.Offset, opts.Animated)
	return nil
}
