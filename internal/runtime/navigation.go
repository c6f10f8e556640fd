package runtime

import (
	"sort"

	"github.com/aretw0/tourguide/pkg/domain"
)

// SortSteps returns a copy of steps ordered by Order. Equal orders keep
// registration order.
func SortSteps(steps []*domain.Step) []*domain.Step {
	out := make([]*domain.Step, 0, len(steps))
	for _, s := range steps {
		if s != nil {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Seq() < out[j].Seq()
	})
	return out
}

// FirstStep returns the step with the lowest order, or nil when empty.
func FirstStep(steps []*domain.Step) *domain.Step {
	sorted := SortSteps(steps)
	if len(sorted) == 0 {
		return nil
	}
	return sorted[0]
}

// LastStep returns the step with the highest order, or nil when empty.
func LastStep(steps []*domain.Step) *domain.Step {
	sorted := SortSteps(steps)
	if len(sorted) == 0 {
		return nil
	}
	return sorted[len(sorted)-1]
}

// NextStep returns the step after current. It clamps: the last step, a nil
// current and a current that is no longer registered all yield nil.
func NextStep(steps []*domain.Step, current *domain.Step) *domain.Step {
	return neighbor(steps, current, 1)
}

// PrevStep returns the step before current, clamping like NextStep.
func PrevStep(steps []*domain.Step, current *domain.Step) *domain.Step {
	return neighbor(steps, current, -1)
}

// IsFirstStep reports whether current is the first registered step.
func IsFirstStep(steps []*domain.Step, current *domain.Step) bool {
	first := FirstStep(steps)
	return current != nil && first != nil && first.Name == current.Name
}

// IsLastStep reports whether current is the last registered step.
func IsLastStep(steps []*domain.Step, current *domain.Step) bool {
	last := LastStep(steps)
	return current != nil && last != nil && last.Name == current.Name
}

func neighbor(steps []*domain.Step, current *domain.Step, delta int) *domain.Step {
	if current == nil {
		return nil
	}
	sorted := SortSteps(steps)
	for i, s := range sorted {
		if s.Name != current.Name {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(sorted) {
			return nil
		}
		return sorted[j]
	}
	return nil
}
