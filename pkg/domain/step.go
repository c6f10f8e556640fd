package domain

import (
	"context"
)

// Shape selects the outline the renderer draws around the highlight.
type Shape string

const (
	ShapeRectangle        Shape = "rectangle"
	ShapeCircle           Shape = "circle"
	ShapeCircleAndKeep    Shape = "circle_and_keep"
	ShapeRectangleAndKeep Shape = "rectangle_and_keep"
)

// BorderRadius sets the corner radius of the highlight per corner.
type BorderRadius struct {
	TopLeft     *float64 `json:"top_left,omitempty" yaml:"top_left,omitempty" mapstructure:"topLeft"`
	TopRight    *float64 `json:"top_right,omitempty" yaml:"top_right,omitempty" mapstructure:"topRight"`
	BottomLeft  *float64 `json:"bottom_left,omitempty" yaml:"bottom_left,omitempty" mapstructure:"bottomLeft"`
	BottomRight *float64 `json:"bottom_right,omitempty" yaml:"bottom_right,omitempty" mapstructure:"bottomRight"`
}

// Hints are presentation settings passed through to the renderer unchanged.
type Hints struct {
	Text                string        `json:"text,omitempty" yaml:"text,omitempty"`
	Shape               Shape         `json:"shape,omitempty" yaml:"shape,omitempty"`
	Pressable           bool          `json:"pressable,omitempty" yaml:"pressable,omitempty"`
	WithoutButtons      bool          `json:"without_buttons,omitempty" yaml:"without_buttons,omitempty"`
	KeepTooltipPosition bool          `json:"keep_tooltip_position,omitempty" yaml:"keep_tooltip_position,omitempty"`
	TooltipBottomOffset float64       `json:"tooltip_bottom_offset,omitempty" yaml:"tooltip_bottom_offset,omitempty"`
	MaskOffset          *float64      `json:"mask_offset,omitempty" yaml:"mask_offset,omitempty"`
	BorderRadius        *float64      `json:"border_radius,omitempty" yaml:"border_radius,omitempty"`
	BorderRadiusObject  *BorderRadius `json:"border_radius_object,omitempty" yaml:"border_radius_object,omitempty"`
}

// Outcome is the decision returned by a gating callback.
type Outcome int

const (
	// Continue commits the candidate step. It is the zero value.
	Continue Outcome = iota
	// Stop terminates the tour and discards the candidate.
	Stop
	// Abort leaves the tour unchanged.
	Abort
)

func (o Outcome) String() string {
	switch o {
	case Stop:
		return "stop"
	case Abort:
		return "doNothing"
	default:
		return "continue"
	}
}

// ParseOutcome maps the textual callback results ("stop", "doNothing") to an
// Outcome. Anything else continues.
func ParseOutcome(s string) Outcome {
	switch s {
	case "stop":
		return Stop
	case "doNothing", "do_nothing", "abort":
		return Abort
	default:
		return Continue
	}
}

// GateFunc runs before a navigation is committed. candidate is the step the
// tour would move to.
type GateFunc func(current, candidate *Step) Outcome

// Target measures the on-screen box of a highlighted element.
type Target interface {
	// Measure returns the target rectangle in canvas coordinates.
	// An error or a non-finite field means the element is not laid out yet.
	Measure(ctx context.Context) (Rect, error)
}

// LayoutFunc receives a wrapper position relative to a scroll ancestor.
type LayoutFunc func(x, y, width, height float64)

// Wrapper measures the element relative to an ancestor scroll container.
type Wrapper interface {
	MeasureLayout(ctx context.Context, ancestor any, fn LayoutFunc) error
}

// Step is the unit registered for each highlighted element.
type Step struct {
	Name    string  `json:"name"`
	Order   float64 `json:"order"`
	Hints   Hints   `json:"hints"`
	Target  Target  `json:"-"`
	Wrapper Wrapper `json:"-"`

	OnNext     GateFunc `json:"-"`
	OnPrevious GateFunc `json:"-"`

	// seq is assigned by the store on registration and breaks Order ties.
	seq uint64
}

// Seq returns the registration sequence number assigned by the store.
func (s *Step) Seq() uint64 { return s.seq }

// WithSeq returns a copy of the step stamped with a registration sequence.
func (s Step) WithSeq(seq uint64) *Step {
	s.seq = seq
	return &s
}

// StepName returns the name of s, or "" for nil.
func StepName(s *Step) string {
	if s == nil {
		return ""
	}
	return s.Name
}

// StepInfo is the serializable view of a registered step.
type StepInfo struct {
	Name  string  `json:"name"`
	Order float64 `json:"order"`
	Hints Hints   `json:"hints"`
}

// Info returns the serializable view of s.
func (s *Step) Info() StepInfo {
	return StepInfo{Name: s.Name, Order: s.Order, Hints: s.Hints}
}

// TourSnapshot is a point-in-time copy of one tour's state.
type TourSnapshot struct {
	Key        string     `json:"key"`
	Current    string     `json:"current,omitempty"`
	Visible    bool       `json:"visible"`
	CanStart   bool       `json:"can_start"`
	IsFirst    bool       `json:"is_first"`
	IsLast     bool       `json:"is_last"`
	Generation uint64     `json:"generation"`
	Steps      []StepInfo `json:"steps"`
}
