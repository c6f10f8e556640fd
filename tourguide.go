package tourguide

import (
	"context"
	"log/slog"

	"github.com/aretw0/tourguide/internal/config"
	"github.com/aretw0/tourguide/internal/logging"
	"github.com/aretw0/tourguide/internal/runtime"
	"github.com/aretw0/tourguide/pkg/adapters/clock"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/events"
	"github.com/aretw0/tourguide/pkg/overlay"
	"github.com/aretw0/tourguide/pkg/ports"
)

// Version is the library version, overridden at build time with -ldflags.
var Version = "0.1.0"

// Config is the provider configuration, see LoadConfig.
type Config = config.Config

// LoadConfig reads a config file (empty for none) plus TOURGUIDE_* overrides.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// DecodeConfig builds a Config from loosely typed provider props.
func DecodeConfig(props map[string]any) (Config, error) {
	return config.Decode(props)
}

// Guide is the high-level entry point of the library. It owns the tour store
// and, when a renderer is configured, the overlay coordinator that drives it.
type Guide struct {
	store     *runtime.Store
	overlay   *overlay.Coordinator
	scheduler ports.Scheduler
	renderer  ports.Renderer
	cfg       config.Config
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	canvas    domain.Rect
}

// Option defines a functional option for configuring the Guide.
type Option func(*Guide)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guide) {
		g.logger = logger
	}
}

// WithScheduler replaces the wall-clock frame scheduler.
func WithScheduler(s ports.Scheduler) Option {
	return func(g *Guide) {
		g.scheduler = s
	}
}

// WithRenderer enables the overlay and draws it through r.
func WithRenderer(r ports.Renderer) Option {
	return func(g *Guide) {
		g.renderer = r
	}
}

// WithConfig applies provider options.
func WithConfig(cfg Config) Option {
	return func(g *Guide) {
		g.cfg = cfg
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls add up.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Guide) {
		g.hooks = g.hooks.Merge(hooks)
	}
}

// WithCanvas sets the initial overlay canvas.
func WithCanvas(r domain.Rect) Option {
	return func(g *Guide) {
		g.canvas = r
	}
}

// New creates a Guide holding the default tour.
func New(opts ...Option) *Guide {
	g := &Guide{cfg: config.Default()}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	if g.scheduler == nil {
		g.scheduler = clock.New(domain.FrameInterval)
	}

	storeOpts := []runtime.StoreOption{
		runtime.WithLogger(g.logger),
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithScrollViewTopReserved(g.cfg.ScrollViewTopReserved),
		runtime.WithStartAtMount(g.cfg.StartAtMount.TourKey()),
		runtime.WithScheduler(g.scheduler),
	}
	g.store = runtime.NewStore(storeOpts...)

	if g.renderer != nil {
		g.overlay = overlay.New(g.store, g.renderer, g.scheduler,
			overlay.WithSettings(g.cfg.OverlaySettings()),
			overlay.WithLogger(g.logger),
			overlay.WithLifecycleHooks(g.hooks),
			overlay.WithCanvas(g.canvas),
		)
		g.overlay.Attach(g.store.TourKey())
	}
	return g
}

// Registration is the handle a mounted element keeps for its step.
type Registration struct {
	guide *Guide
	key   string
	name  string
}

// TourKey returns the tour the step belongs to.
func (r *Registration) TourKey() string { return r.key }

// Name returns the step name.
func (r *Registration) Name() string { return r.name }

// Unregister removes the step, stopping the tour if it was current.
func (r *Registration) Unregister(ctx context.Context) {
	r.guide.store.UnregisterStep(ctx, r.key, r.name)
}

// Register adds step to the tour under key and returns its handle.
func (g *Guide) Register(ctx context.Context, key string, step domain.Step) *Registration {
	if key == "" {
		key = domain.DefaultTourKey
	}
	g.store.RegisterStep(ctx, key, step)
	return &Registration{guide: g, key: key, name: step.Name}
}

// Controller returns the controls of the tour under key.
func (g *Guide) Controller(key string) *Controller {
	if key == "" {
		key = domain.DefaultTourKey
	}
	return &Controller{guide: g, key: key}
}

// Active returns the controls of the tour selected with SetTourKey.
func (g *Guide) Active() *Controller {
	return g.Controller(g.store.TourKey())
}

// SetTourKey selects the tour the overlay follows.
func (g *Guide) SetTourKey(key string) {
	g.store.SetTourKey(key)
	if g.overlay != nil {
		g.overlay.Attach(key)
	}
}

// TourKey returns the active tour key.
func (g *Guide) TourKey() string {
	return g.store.TourKey()
}

// SetScrollView registers the scroll container steps are scrolled within.
func (g *Guide) SetScrollView(ref any, topReserved float64) {
	g.store.SetScrollView(ref, topReserved)
}

// SetCanvas reports a layout change of the overlay surface.
func (g *Guide) SetCanvas(ctx context.Context, r domain.Rect) {
	if g.overlay != nil {
		g.overlay.SetCanvas(ctx, r)
	}
}

// Press forwards a tap on the overlay. It reports whether the mask took it.
func (g *Guide) Press(ctx context.Context, x, y float64) bool {
	if g.overlay == nil {
		return false
	}
	return g.overlay.Press(ctx, x, y)
}

// Overlay returns the overlay coordinator, or nil without a renderer.
func (g *Guide) Overlay() *overlay.Coordinator {
	return g.overlay
}

// Store exposes the underlying session store, e.g. for the HTTP adapter.
func (g *Guide) Store() *runtime.Store {
	return g.store
}

// Tours lists the known tour keys.
func (g *Guide) Tours() []string {
	return g.store.Tours()
}

// Snapshot copies the state of the tour under key.
func (g *Guide) Snapshot(key string) (domain.TourSnapshot, bool) {
	return g.store.Snapshot(key)
}

// Close detaches the overlay and tears the store down.
func (g *Guide) Close() {
	if g.overlay != nil {
		g.overlay.Detach()
	}
	g.store.Close()
}

// Controller drives one tour.
type Controller struct {
	guide *Guide
	key   string
}

// TourKey returns the controlled tour.
func (c *Controller) TourKey() string { return c.key }

// Start shows the tour from fromStep, or from its first step when empty.
func (c *Controller) Start(ctx context.Context, fromStep string) {
	c.StartIn(ctx, fromStep, nil)
}

// StartIn is Start with a scroll container for this run. A container set
// with SetScrollView takes precedence over scrollRef.
func (c *Controller) StartIn(ctx context.Context, fromStep string, scrollRef any) {
	c.guide.store.Start(ctx, c.key, fromStep, scrollRef)
}

// Next moves to the following step.
func (c *Controller) Next(ctx context.Context) {
	c.guide.store.Next(ctx, c.key)
}

// Prev moves to the preceding step.
func (c *Controller) Prev(ctx context.Context) {
	c.guide.store.Prev(ctx, c.key)
}

// Stop hides the tour.
func (c *Controller) Stop(ctx context.Context) {
	c.guide.store.Stop(ctx, c.key)
}

// CanStart reports whether any step is registered.
func (c *Controller) CanStart() bool {
	return c.guide.store.CanStart(c.key)
}

// IsVisible reports whether the tour is showing.
func (c *Controller) IsVisible() bool {
	return c.guide.store.IsVisible(c.key)
}

// CurrentStep returns the highlighted step, or nil.
func (c *Controller) CurrentStep() *domain.Step {
	return c.guide.store.CurrentStep(c.key)
}

// IsFirstStep reports whether the current step is the first one.
func (c *Controller) IsFirstStep() bool {
	return c.guide.store.IsFirstStep(c.key)
}

// IsLastStep reports whether the current step is the last one.
func (c *Controller) IsLastStep() bool {
	return c.guide.store.IsLastStep(c.key)
}

// Events returns the tour's event bus.
func (c *Controller) Events() *events.Bus {
	return c.guide.store.Bus(c.key)
}
