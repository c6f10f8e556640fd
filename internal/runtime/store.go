package runtime

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/tourguide/internal/logging"
	"github.com/aretw0/tourguide/pkg/adapters/clock"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/events"
	"github.com/aretw0/tourguide/pkg/ports"
)

// tour is the state kept for one tour key.
type tour struct {
	key     string
	steps   map[string]*domain.Step
	current *domain.Step
	visible bool
	bus     *events.Bus

	// generation increments on every commit attempt and on stop.
	// Async continuations compare against it before committing.
	generation uint64

	startTries  int
	cancelStart ports.CancelFunc
	autoStarted bool
}

func (t *tour) stepList() []*domain.Step {
	list := make([]*domain.Step, 0, len(t.steps))
	for _, s := range t.steps {
		list = append(list, s)
	}
	return list
}

// Store is the multi-tour session state machine.
// It is safe for concurrent use. Gates, hooks and event handlers are always
// called without the internal lock held, so they may call back into the store.
type Store struct {
	mu     sync.Mutex
	tours  map[string]*tour
	seq    uint64
	closed bool

	activeKey   string
	scrollRef   any
	topReserved float64

	scheduler     ports.Scheduler
	logger        *slog.Logger
	hooks         domain.LifecycleHooks
	startAtMount  string
	settleDelay   time.Duration
	maxStartTries int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithScheduler sets the frame/timer scheduler. Defaults to a wall clock at 60fps.
func WithScheduler(s ports.Scheduler) StoreOption {
	return func(st *Store) {
		st.scheduler = s
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(st *Store) {
		if logger != nil {
			st.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) StoreOption {
	return func(st *Store) {
		st.hooks = hooks
	}
}

// WithStartAtMount starts the tour under key once its first step registers.
// An empty key disables it.
func WithStartAtMount(key string) StoreOption {
	return func(st *Store) {
		st.startAtMount = key
	}
}

// WithScrollViewTopReserved reserves space hidden behind a fixed header when
// scrolling a step into view.
func WithScrollViewTopReserved(v float64) StoreOption {
	return func(st *Store) {
		st.topReserved = v
	}
}

// WithSettleDelay overrides the wait between scrolling and committing a step.
func WithSettleDelay(d time.Duration) StoreOption {
	return func(st *Store) {
		st.settleDelay = d
	}
}

// WithMaxStartTries overrides how many frames Start waits for registration.
func WithMaxStartTries(n int) StoreOption {
	return func(st *Store) {
		st.maxStartTries = n
	}
}

// NewStore creates a store holding the default tour.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		tours:         make(map[string]*tour),
		activeKey:     domain.DefaultTourKey,
		logger:        logging.NewNop(),
		settleDelay:   domain.SettleDelay,
		maxStartTries: domain.MaxStartTries,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scheduler == nil {
		s.scheduler = clock.New(domain.FrameInterval)
	}
	s.tourLocked(domain.DefaultTourKey)
	return s
}

// tourLocked returns the tour for key, creating it lazily. Caller holds mu.
func (s *Store) tourLocked(key string) *tour {
	t, ok := s.tours[key]
	if !ok {
		t = &tour{
			key:   key,
			steps: make(map[string]*domain.Step),
			bus:   events.NewBus(s.logger.With("tour", key)),
		}
		s.tours[key] = t
	}
	return t
}

// RegisterStep inserts step under key, replacing any step with the same name.
func (s *Store) RegisterStep(ctx context.Context, key string, step domain.Step) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	t := s.tourLocked(key)
	s.seq++
	stored := step.WithSeq(s.seq)
	_, replaced := t.steps[step.Name]
	t.steps[step.Name] = stored
	if t.current != nil && t.current.Name == step.Name {
		t.current = stored
	}

	autoStart := s.startAtMount == key && !t.autoStarted && !t.visible && t.current == nil
	if autoStart {
		t.autoStarted = true
	}
	s.mu.Unlock()

	s.logger.Debug("step registered", "tour", key, "step", step.Name, "order", step.Order, "replaced", replaced)

	if autoStart {
		// Wait a frame so steps mounted in the same pass are all registered.
		s.scheduler.AfterFrame(func() {
			s.Start(ctx, key, "", nil)
		})
	}
}

// UnregisterStep removes the named step. Removing the current step stops the
// tour so no highlight is left pointing at an unmounted target.
func (s *Store) UnregisterStep(ctx context.Context, key, name string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	t, ok := s.tours[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	if _, ok := t.steps[name]; !ok {
		s.mu.Unlock()
		return
	}
	delete(t.steps, name)
	wasCurrent := t.current != nil && t.current.Name == name
	s.mu.Unlock()

	s.logger.Debug("step unregistered", "tour", key, "step", name, "was_current", wasCurrent)
	if wasCurrent {
		s.Stop(ctx, key)
	}
}

// Start shows the tour from fromStep, or from the first step when empty.
//
// Targets may mount after Start is called, so while the tour has no steps
// Start retries once per frame, up to the configured cap. Past the cap it
// gives up silently; callers can check CanStart beforehand. A fromStep that
// is not registered while the tour does have steps is a no-op.
func (s *Store) Start(ctx context.Context, key, fromStep string, scrollRef any) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if scrollRef != nil && s.scrollRef == nil {
		s.scrollRef = scrollRef
	}
	t := s.tourLocked(key)
	if t.cancelStart != nil {
		t.cancelStart()
		t.cancelStart = nil
	}

	var step *domain.Step
	if fromStep != "" && len(t.steps) > 0 {
		step = t.steps[fromStep]
		if step == nil {
			s.mu.Unlock()
			s.logger.Debug("start ignored: unknown step", "tour", key, "step", fromStep)
			return
		}
	} else if fromStep == "" {
		step = FirstStep(t.stepList())
	}

	if step == nil {
		if t.startTries >= s.maxStartTries {
			tries := t.startTries
			t.startTries = 0
			s.mu.Unlock()
			s.logger.Debug("start abandoned: no steps registered", "tour", key, "tries", tries)
			if s.hooks.OnStartAbandoned != nil {
				s.hooks.OnStartAbandoned(ctx, key, tries)
			}
			return
		}
		t.startTries++
		t.cancelStart = s.scheduler.AfterFrame(func() {
			if ctx.Err() != nil {
				s.resetStartTries(key)
				return
			}
			s.Start(ctx, key, fromStep, scrollRef)
		})
		s.mu.Unlock()
		return
	}

	t.startTries = 0
	gen := t.generation
	bus := t.bus
	s.mu.Unlock()

	s.logger.Debug("tour starting", "tour", key, "step", step.Name)
	bus.Emit(domain.Event{Timestamp: time.Now(), Type: domain.EventStart, TourKey: key})
	if s.hooks.OnStart != nil {
		s.hooks.OnStart(ctx, key, step)
	}
	s.setCurrentStep(ctx, key, gen, step, scrollRef, true)
}

func (s *Store) resetStartTries(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		t.startTries = 0
		t.cancelStart = nil
	}
}

// Next moves key's tour to the following step.
func (s *Store) Next(ctx context.Context, key string) {
	s.navigate(ctx, key, 1)
}

// Prev moves key's tour to the preceding step.
func (s *Store) Prev(ctx context.Context, key string) {
	s.navigate(ctx, key, -1)
}

func (s *Store) navigate(ctx context.Context, key string, dir int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	t, ok := s.tours[key]
	if !ok || t.current == nil {
		s.mu.Unlock()
		s.logger.Debug("navigation ignored: tour not active", "tour", key)
		return
	}
	current := t.current
	var candidate *domain.Step
	var gate domain.GateFunc
	if dir > 0 {
		candidate = NextStep(t.stepList(), current)
		gate = current.OnNext
	} else {
		candidate = PrevStep(t.stepList(), current)
		gate = current.OnPrevious
	}
	gen := t.generation
	s.mu.Unlock()

	if candidate == nil {
		s.logger.Debug("navigation ignored: boundary reached", "tour", key, "step", current.Name, "dir", dir)
		return
	}

	outcome := domain.Continue
	if gate != nil {
		outcome = gate(current, candidate)
		if s.hooks.OnGate != nil {
			s.hooks.OnGate(ctx, key, current, outcome)
		}
	}

	switch outcome {
	case domain.Stop:
		s.logger.Debug("gate stopped tour", "tour", key, "step", current.Name)
		s.Stop(ctx, key)
	case domain.Abort:
		s.logger.Debug("gate aborted transition", "tour", key, "step", current.Name, "candidate", candidate.Name)
	default:
		s.setCurrentStep(ctx, key, gen, candidate, nil, false)
	}
}

// Stop hides key's tour and clears its current step. Commits still pending
// from an earlier navigation are discarded.
func (s *Store) Stop(ctx context.Context, key string) {
	s.mu.Lock()
	t, ok := s.tours[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	if t.cancelStart != nil {
		t.cancelStart()
		t.cancelStart = nil
	}
	t.startTries = 0
	t.generation++
	t.visible = false
	t.current = nil
	bus := t.bus
	s.mu.Unlock()

	s.logger.Debug("tour stopped", "tour", key)
	now := time.Now()
	bus.Emit(domain.Event{Timestamp: now, Type: domain.EventStepChange, TourKey: key})
	bus.Emit(domain.Event{Timestamp: now, Type: domain.EventStop, TourKey: key})
	if s.hooks.OnStop != nil {
		s.hooks.OnStop(ctx, key)
	}
}

// setCurrentStep is the commit path shared by Start, Next and Prev.
// base is the generation observed when the transition was resolved; if the
// tour moved on since (a Stop from a gate or listener), the step is dropped.
// When a scroll container is known the step's wrapper is scrolled into view
// first and the commit waits for the settle delay.
func (s *Store) setCurrentStep(ctx context.Context, key string, base uint64, step *domain.Step, scrollRef any, show bool) {
	s.mu.Lock()
	t := s.tourLocked(key)
	if t.generation != base || s.closed {
		current := t.generation
		s.mu.Unlock()
		s.discardStale(ctx, key, step, base, current)
		return
	}
	t.generation++
	gen := t.generation
	ref := s.scrollRef
	if ref == nil {
		ref = scrollRef
	}
	topReserved := s.topReserved
	s.mu.Unlock()

	if ref == nil || step == nil || step.Wrapper == nil {
		s.commit(ctx, key, gen, step, show)
		return
	}

	s.scrollIntoView(ctx, key, step, ref, topReserved)
	s.scheduler.AfterFunc(s.settleDelay, func() {
		s.commit(ctx, key, gen, step, show)
	})
}

func (s *Store) commit(ctx context.Context, key string, gen uint64, step *domain.Step, show bool) {
	s.mu.Lock()
	t, ok := s.tours[key]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	if t.generation != gen {
		current := t.generation
		s.mu.Unlock()
		s.discardStale(ctx, key, step, gen, current)
		return
	}
	t.current = step
	becameVisible := show && !t.visible
	if show {
		t.visible = true
	}
	bus := t.bus
	s.mu.Unlock()

	now := time.Now()
	bus.Emit(domain.Event{Timestamp: now, Type: domain.EventStepChange, TourKey: key, Step: step})
	if s.hooks.OnStepChange != nil {
		s.hooks.OnStepChange(ctx, key, step)
	}
	if becameVisible {
		bus.Emit(domain.Event{Timestamp: now, Type: domain.EventVisible, TourKey: key, Step: step})
	}
}

func (s *Store) discardStale(ctx context.Context, key string, step *domain.Step, gen, current uint64) {
	s.logger.Debug("stale step commit discarded", "tour", key, "step", domain.StepName(step), "generation", gen, "current", current)
	if s.hooks.OnStaleDiscarded != nil {
		s.hooks.OnStaleDiscarded(ctx, key, gen)
	}
}

// CurrentStep returns the current step of key's tour, or nil.
func (s *Store) CurrentStep(key string) *domain.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		return t.current
	}
	return nil
}

// IsVisible reports whether key's tour is showing.
func (s *Store) IsVisible(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		return t.visible
	}
	return false
}

// CanStart reports whether key's tour has at least one registered step.
func (s *Store) CanStart(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		return len(t.steps) > 0
	}
	return false
}

// IsFirstStep reports whether the current step is the first one.
func (s *Store) IsFirstStep(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		return IsFirstStep(t.stepList(), t.current)
	}
	return false
}

// IsLastStep reports whether the current step is the last one.
func (s *Store) IsLastStep(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		return IsLastStep(t.stepList(), t.current)
	}
	return false
}

// Steps returns key's registered steps in traversal order.
func (s *Store) Steps(key string) []*domain.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		return SortSteps(t.stepList())
	}
	return nil
}

// Step returns the named step of key's tour.
func (s *Store) Step(key, name string) (*domain.Step, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		step, ok := t.steps[name]
		return step, ok
	}
	return nil, false
}

// Generation returns the commit generation of key's tour.
func (s *Store) Generation(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tours[key]; ok {
		return t.generation
	}
	return 0
}

// Snapshot copies the state of key's tour.
func (s *Store) Snapshot(key string) (domain.TourSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tours[key]
	if !ok {
		return domain.TourSnapshot{}, false
	}
	list := t.stepList()
	snap := domain.TourSnapshot{
		Key:        key,
		Current:    domain.StepName(t.current),
		Visible:    t.visible,
		CanStart:   len(t.steps) > 0,
		IsFirst:    IsFirstStep(list, t.current),
		IsLast:     IsLastStep(list, t.current),
		Generation: t.generation,
		Steps:      make([]domain.StepInfo, 0, len(list)),
	}
	for _, step := range SortSteps(list) {
		snap.Steps = append(snap.Steps, step.Info())
	}
	return snap, true
}

// Tours lists the known tour keys.
func (s *Store) Tours() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.tours))
	for k := range s.tours {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Bus returns the event bus of key's tour, creating the tour if needed so
// bindings can subscribe before any step mounts.
func (s *Store) Bus(key string) *events.Bus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tourLocked(key).bus
}

// SetTourKey selects the tour driven by the overlay and the un-keyed controls.
func (s *Store) SetTourKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeKey = key
	s.tourLocked(key)
}

// TourKey returns the active tour key.
func (s *Store) TourKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeKey
}

// SetScrollView registers the scroll container used to bring steps into view,
// and the height reserved at its top.
func (s *Store) SetScrollView(ref any, topReserved float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollRef = ref
	s.topReserved = topReserved
}

// Close tears the store down. Later registrations and unregistrations are
// ignored and pending commits are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, t := range s.tours {
		if t.cancelStart != nil {
			t.cancelStart()
			t.cancelStart = nil
		}
	}
}
