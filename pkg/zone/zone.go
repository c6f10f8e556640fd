// Package zone builds numbered tour steps.
//
// A zone is a step whose name is its number and whose order is that same
// number, so hosts can lay out a tour by tagging elements 1, 2, 3...
package zone

import (
	"strconv"

	"github.com/aretw0/tourguide/pkg/domain"
)

// Option customizes a zone step.
type Option func(*domain.Step)

// WithText overrides the default "Zone <n>" tooltip text.
func WithText(text string) Option {
	return func(s *domain.Step) {
		s.Hints.Text = text
	}
}

// WithHints replaces the presentation hints. An empty Text keeps the default.
func WithHints(h domain.Hints) Option {
	return func(s *domain.Step) {
		text := s.Hints.Text
		s.Hints = h
		if s.Hints.Text == "" {
			s.Hints.Text = text
		}
	}
}

// WithShape sets the highlight outline.
func WithShape(shape domain.Shape) Option {
	return func(s *domain.Step) {
		s.Hints.Shape = shape
	}
}

// Pressable leaves the highlighted element reachable through the mask.
func Pressable() Option {
	return func(s *domain.Step) {
		s.Hints.Pressable = true
	}
}

// WithTarget sets the element measured for the highlight.
func WithTarget(t domain.Target) Option {
	return func(s *domain.Step) {
		s.Target = t
	}
}

// WithWrapper sets the element measured when scrolling the zone into view.
func WithWrapper(w domain.Wrapper) Option {
	return func(s *domain.Step) {
		s.Wrapper = w
	}
}

// WithGates sets the gating callbacks. Either may be nil.
func WithGates(onNext, onPrevious domain.GateFunc) Option {
	return func(s *domain.Step) {
		s.OnNext = onNext
		s.OnPrevious = onPrevious
	}
}

// Name returns the step name used for zone n.
func Name(n int) string {
	return strconv.Itoa(n)
}

// New builds the step for zone n.
func New(n int, opts ...Option) domain.Step {
	s := domain.Step{
		Name:  Name(n),
		Order: float64(n),
		Hints: domain.Hints{Text: "Zone " + strconv.Itoa(n)},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
