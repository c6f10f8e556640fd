// Package scenario reads headless tour scenarios: a canvas, the steps that
// would be mounted on it and a script of user actions. The CLI uses them to
// preview and serve tours without a host UI.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/tourguide/internal/config"
	"github.com/aretw0/tourguide/pkg/adapters/static"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/zone"
	"gopkg.in/yaml.v3"
)

// Scenario is the root of a scenario file.
type Scenario struct {
	Name       string         `yaml:"name"`
	Canvas     domain.Rect    `yaml:"canvas"`
	Config     map[string]any `yaml:"config"`
	ScrollView *ScrollView    `yaml:"scrollView"`
	Steps      []StepSpec     `yaml:"steps"`
	Script     []Action       `yaml:"script"`
}

// ScrollView declares a scroll container steps are scrolled within.
type ScrollView struct {
	TopReserved float64 `yaml:"topReserved"`
}

// StepSpec describes one mounted step.
type StepSpec struct {
	Tour  string  `yaml:"tour"`
	Name  string  `yaml:"name"`
	Zone  *int    `yaml:"zone"`
	Order float64 `yaml:"order"`
	// Rect is the measured box. Without Rect or Position the target never lays out.
	Rect     *domain.Rect   `yaml:"rect"`
	Position *zone.Position `yaml:"position"`
	// Layout is the position inside the scroll view, used to scroll it into view.
	Layout     *domain.Rect `yaml:"layout"`
	Hints      domain.Hints `yaml:"hints"`
	OnNext     string       `yaml:"onNext"`
	OnPrevious string       `yaml:"onPrevious"`
}

// Verb names a scripted action.
type Verb string

const (
	VerbStart      Verb = "start"
	VerbNext       Verb = "next"
	VerbPrev       Verb = "prev"
	VerbStop       Verb = "stop"
	VerbPress      Verb = "press"
	VerbResize     Verb = "resize"
	VerbUnregister Verb = "unregister"
	VerbSelect     Verb = "select"
	VerbWait       Verb = "wait"
)

// Action is one scripted user or host action.
type Action struct {
	Do     Verb          `yaml:"do"`
	Tour   string        `yaml:"tour"`
	From   string        `yaml:"from"`
	Step   string        `yaml:"step"`
	X      float64       `yaml:"x"`
	Y      float64       `yaml:"y"`
	Canvas *domain.Rect  `yaml:"canvas"`
	For    time.Duration `yaml:"for"`
}

// ErrInvalidScenario wraps every validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document. Unknown fields are errors.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks step identities, geometry and script verbs.
func (s *Scenario) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, st := range s.Steps {
		name := st.StepName()
		if name == "" {
			errs = append(errs, fmt.Errorf("step %d: name or zone is required", i))
			continue
		}
		id := st.TourKey() + "/" + name
		if seen[id] {
			errs = append(errs, fmt.Errorf("step %d: duplicate step %q in tour %q", i, name, st.TourKey()))
		}
		seen[id] = true
		if st.Rect != nil && st.Position != nil {
			errs = append(errs, fmt.Errorf("step %q: rect and position are exclusive", name))
		}
		if st.Position != nil && st.Zone == nil {
			errs = append(errs, fmt.Errorf("step %q: position requires a zone", name))
		}
		for field, v := range map[string]string{"onNext": st.OnNext, "onPrevious": st.OnPrevious} {
			if !validOutcome(v) {
				errs = append(errs, fmt.Errorf("step %q: %s: unknown outcome %q", name, field, v))
			}
		}
	}
	for i, a := range s.Script {
		switch a.Do {
		case VerbStart, VerbNext, VerbPrev, VerbStop, VerbSelect, VerbWait:
		case VerbPress:
		case VerbResize:
			if a.Canvas == nil {
				errs = append(errs, fmt.Errorf("script %d: resize needs a canvas", i))
			}
		case VerbUnregister:
			if a.Step == "" {
				errs = append(errs, fmt.Errorf("script %d: unregister needs a step", i))
			}
		default:
			errs = append(errs, fmt.Errorf("script %d: unknown action %q", i, a.Do))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return nil
}

func validOutcome(s string) bool {
	switch s {
	case "", "continue", "stop", "doNothing", "do_nothing", "abort":
		return true
	}
	return false
}

// EngineConfig decodes the config block.
func (s *Scenario) EngineConfig() (config.Config, error) {
	if s.ScrollView != nil {
		if s.Config == nil {
			s.Config = make(map[string]any)
		}
		if _, ok := s.Config["scrollViewTopReserved"]; !ok {
			s.Config["scrollViewTopReserved"] = s.ScrollView.TopReserved
		}
	}
	return config.Decode(s.Config)
}

// TourKey returns the step's tour, defaulting to the default tour.
func (st StepSpec) TourKey() string {
	if st.Tour == "" {
		return domain.DefaultTourKey
	}
	return st.Tour
}

// StepName returns the explicit name, or the zone name.
func (st StepSpec) StepName() string {
	if st.Name != "" {
		return st.Name
	}
	if st.Zone != nil {
		return zone.Name(*st.Zone)
	}
	return ""
}

// Build turns st into a domain step. canvas resolves positioned zones.
func (st StepSpec) Build(canvas zone.CanvasFunc) domain.Step {
	var step domain.Step
	switch {
	case st.Zone != nil && st.Position != nil:
		step = zone.ByPosition(*st.Zone, *st.Position, canvas, zone.WithHints(st.Hints))
	case st.Zone != nil:
		step = zone.New(*st.Zone, zone.WithHints(st.Hints))
	default:
		step = domain.Step{Name: st.Name, Order: st.Order, Hints: st.Hints}
	}
	if st.Name != "" {
		step.Name = st.Name
	}

	if step.Target == nil {
		if st.Rect != nil {
			step.Target = static.NewTarget(*st.Rect)
		} else {
			step.Target = static.Unmounted{}
		}
	}
	if st.Layout != nil {
		step.Wrapper = static.Wrapper{Layout: *st.Layout}
	}
	step.OnNext = gate(st.OnNext)
	step.OnPrevious = gate(st.OnPrevious)
	return step
}

func gate(outcome string) domain.GateFunc {
	if outcome == "" {
		return nil
	}
	o := domain.ParseOutcome(outcome)
	return func(_, _ *domain.Step) domain.Outcome { return o }
}
