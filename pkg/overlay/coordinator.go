// Package overlay turns tour events into highlight moves and masks.
//
// The Coordinator listens to the active tour's bus, measures the current
// step's target and hands the padded box to the external renderer. Targets
// that are not laid out yet are skipped until the next trigger.
package overlay

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/aretw0/tourguide/internal/logging"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/events"
	"github.com/aretw0/tourguide/pkg/mask"
	"github.com/aretw0/tourguide/pkg/ports"
)

// Session is the part of the tour store the coordinator reads.
type Session interface {
	Bus(key string) *events.Bus
	CurrentStep(key string) *domain.Step
	IsVisible(key string) bool
	IsFirstStep(key string) bool
	IsLastStep(key string) bool
	Generation(key string) uint64
	Stop(ctx context.Context, key string)
}

// Settings are the overlay options applied by the coordinator.
type Settings struct {
	VerticalOffset    float64
	AnimationDuration time.Duration
	Padding           float64
	MoveDelay         time.Duration
	MeasureTimeout    time.Duration
	Mask              mask.Options
	Labels            domain.Labels
	Appearance        domain.Appearance
}

// DefaultSettings returns the stock overlay settings.
func DefaultSettings() Settings {
	return Settings{
		AnimationDuration: 300 * time.Millisecond,
		Padding:           domain.HighlightPadding,
		MoveDelay:         domain.MoveDelay,
		MeasureTimeout:    time.Second,
		Labels:            domain.DefaultLabels(),
	}
}

// Coordinator drives a Renderer from one tour's events.
type Coordinator struct {
	session   Session
	renderer  ports.Renderer
	scheduler ports.Scheduler
	settings  Settings
	logger    *slog.Logger
	hooks     domain.LifecycleHooks

	mu         sync.Mutex
	key        string
	canvas     domain.Rect
	box        *domain.Rect
	step       *domain.Step
	detach     func()
	cancelMove ports.CancelFunc
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSettings replaces the overlay settings.
func WithSettings(s Settings) Option {
	return func(c *Coordinator) {
		c.settings = s
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Coordinator) {
		c.hooks = hooks
	}
}

// WithCanvas sets the initial canvas rectangle.
func WithCanvas(r domain.Rect) Option {
	return func(c *Coordinator) {
		c.canvas = r
	}
}

// New creates a coordinator. Call Attach to start following a tour.
func New(session Session, renderer ports.Renderer, scheduler ports.Scheduler, opts ...Option) *Coordinator {
	c := &Coordinator{
		session:   session,
		renderer:  renderer,
		scheduler: scheduler,
		settings:  DefaultSettings(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach follows key's tour, dropping any previous subscription.
func (c *Coordinator) Attach(key string) {
	c.Detach()

	bus := c.session.Bus(key)
	offs := []func(){
		bus.On(domain.EventStart, c.onChange),
		bus.On(domain.EventStepChange, c.onChange),
		bus.On(domain.EventVisible, c.onChange),
		bus.On(domain.EventStop, c.onStop),
	}

	c.mu.Lock()
	c.key = key
	c.detach = func() {
		for _, off := range offs {
			off()
		}
	}
	c.mu.Unlock()
	c.logger.Debug("overlay attached", "tour", key)
}

// Detach stops following the current tour.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	detach := c.detach
	c.detach = nil
	if c.cancelMove != nil {
		c.cancelMove()
		c.cancelMove = nil
	}
	c.mu.Unlock()
	if detach != nil {
		detach()
	}
}

// TourKey returns the tour being followed.
func (c *Coordinator) TourKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

func (c *Coordinator) onChange(e domain.Event) {
	if !c.session.IsVisible(e.TourKey) && c.session.CurrentStep(e.TourKey) == nil {
		return
	}
	c.mu.Lock()
	if c.cancelMove != nil {
		c.cancelMove()
	}
	c.cancelMove = c.scheduler.AfterFunc(c.settings.MoveDelay, func() {
		c.Refresh(context.Background())
	})
	c.mu.Unlock()
}

func (c *Coordinator) onStop(e domain.Event) {
	c.mu.Lock()
	if c.cancelMove != nil {
		c.cancelMove()
		c.cancelMove = nil
	}
	c.box = nil
	c.step = nil
	c.mu.Unlock()

	if err := c.renderer.Hide(context.Background()); err != nil {
		c.logger.Warn("overlay hide failed", "tour", e.TourKey, "err", err)
	}
}

// Refresh measures the current step now and moves the highlight to it.
// Invalid or late measurements leave the overlay untouched.
func (c *Coordinator) Refresh(ctx context.Context) {
	key := c.TourKey()
	step := c.session.CurrentStep(key)
	if step == nil {
		return
	}
	gen := c.session.Generation(key)

	rect, err := c.measure(ctx, step)
	if err != nil {
		c.logger.Debug("measurement skipped", "tour", key, "step", step.Name, "err", err)
		if c.hooks.OnMeasureSkipped != nil {
			c.hooks.OnMeasureSkipped(ctx, key, step, err)
		}
		return
	}
	if c.session.Generation(key) != gen {
		c.logger.Debug("stale measurement discarded", "tour", key, "step", step.Name)
		if c.hooks.OnStaleDiscarded != nil {
			c.hooks.OnStaleDiscarded(ctx, key, gen)
		}
		return
	}

	box := HighlightBox(rect, c.settings.Padding, c.settings.VerticalOffset)
	frame := ports.Frame{
		TourKey:    key,
		Step:       step,
		Box:        box,
		IsFirst:    c.session.IsFirstStep(key),
		IsLast:     c.session.IsLastStep(key),
		Duration:   c.settings.AnimationDuration,
		Labels:     c.settings.Labels,
		Appearance: c.settings.Appearance,
	}
	if err := c.renderer.AnimateMove(ctx, frame); err != nil {
		c.logger.Warn("overlay move failed", "tour", key, "step", step.Name, "err", err)
		return
	}

	c.mu.Lock()
	c.box = &box
	c.step = step
	c.mu.Unlock()

	c.renderMask(ctx)
}

// measure calls the target under the measure timeout. A target that never
// answers is abandoned when the timeout fires.
func (c *Coordinator) measure(ctx context.Context, step *domain.Step) (domain.Rect, error) {
	if step.Target == nil {
		return domain.Rect{}, fmt.Errorf("step %q has no target: %w", step.Name, domain.ErrInvalidMeasurement)
	}
	if c.settings.MeasureTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.settings.MeasureTimeout)
		defer cancel()
	}

	type result struct {
		rect domain.Rect
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		r, err := step.Target.Measure(ctx)
		ch <- result{r, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return domain.Rect{}, res.err
		}
		if !res.rect.Valid() {
			return domain.Rect{}, fmt.Errorf("measured %v: %w", res.rect, domain.ErrInvalidMeasurement)
		}
		return res.rect, nil
	case <-ctx.Done():
		return domain.Rect{}, ctx.Err()
	}
}

// SetCanvas records a layout change of the overlay surface and re-derives
// the mask, since band edges depend on the canvas size.
func (c *Coordinator) SetCanvas(ctx context.Context, r domain.Rect) {
	c.mu.Lock()
	changed := c.canvas != r
	c.canvas = r
	c.mu.Unlock()
	if changed {
		c.renderMask(ctx)
	}
}

// Canvas returns the current canvas rectangle.
func (c *Coordinator) Canvas() domain.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canvas
}

// Highlight returns the last highlight box sent to the renderer.
func (c *Coordinator) Highlight() (domain.Rect, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.box == nil {
		return domain.Rect{}, false
	}
	return *c.box, true
}

// Mask derives the mask for the current highlight and canvas.
func (c *Coordinator) Mask() (mask.Mask, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.box == nil || c.step == nil {
		return mask.Mask{}, false
	}
	return mask.Derive(*c.box, c.canvas, c.step.Hints.Pressable, c.settings.Mask), true
}

func (c *Coordinator) renderMask(ctx context.Context) {
	m, ok := c.Mask()
	if !ok {
		return
	}
	if err := c.renderer.RenderMask(ctx, m); err != nil {
		c.logger.Warn("overlay mask failed", "tour", c.TourKey(), "err", err)
	}
}

// Press handles a tap at (x, y). It reports whether the mask swallowed it;
// with DismissOnPress a swallowed tap stops the tour.
func (c *Coordinator) Press(ctx context.Context, x, y float64) bool {
	m, ok := c.Mask()
	if !ok || !m.Intercepts || !m.Contains(x, y) {
		return false
	}
	if m.DismissOnPress {
		key := c.TourKey()
		c.logger.Debug("mask pressed, dismissing tour", "tour", key)
		c.session.Stop(ctx, key)
	}
	return true
}

// HighlightBox inflates a measured target by padding (split evenly on all
// sides) after rounding its origin, and shifts it down by verticalOffset.
func HighlightBox(r domain.Rect, padding, verticalOffset float64) domain.Rect {
	return domain.Rect{
		X:      math.Round(r.X) - padding/2,
		Y:      math.Round(r.Y) - padding/2 + verticalOffset,
		Width:  r.Width + padding,
		Height: r.Height + padding,
	}
}
