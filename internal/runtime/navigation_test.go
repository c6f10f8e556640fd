package runtime_test

import (
	"testing"

	"github.com/aretw0/tourguide/internal/runtime"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func steps(orders map[string]float64) []*domain.Step {
	var out []*domain.Step
	var seq uint64
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if o, ok := orders[name]; ok {
			seq++
			out = append(out, domain.Step{Name: name, Order: o}.WithSeq(seq))
		}
	}
	return out
}

func TestNavigation_OrderIndependentOfRegistration(t *testing.T) {
	list := steps(map[string]float64{"a": 30, "b": 10, "c": 20, "d": -5})

	assert.Equal(t, "d", runtime.FirstStep(list).Name)
	assert.Equal(t, "a", runtime.LastStep(list).Name)

	var walk []string
	for s := runtime.FirstStep(list); s != nil; s = runtime.NextStep(list, s) {
		walk = append(walk, s.Name)
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, walk)

	var back []string
	for s := runtime.LastStep(list); s != nil; s = runtime.PrevStep(list, s) {
		back = append(back, s.Name)
	}
	assert.Equal(t, []string{"a", "c", "b", "d"}, back)
}

func TestNavigation_Boundaries(t *testing.T) {
	list := steps(map[string]float64{"a": 0, "b": 1})
	first, last := runtime.FirstStep(list), runtime.LastStep(list)

	assert.Nil(t, runtime.NextStep(list, last))
	assert.Nil(t, runtime.PrevStep(list, first))
	assert.Nil(t, runtime.NextStep(list, nil))
	assert.Nil(t, runtime.NextStep(list, &domain.Step{Name: "gone"}))

	assert.Nil(t, runtime.FirstStep(nil))
	assert.Nil(t, runtime.LastStep(nil))
}

func TestNavigation_TiesKeepRegistrationOrder(t *testing.T) {
	list := steps(map[string]float64{"a": 1, "b": 1, "c": 0, "d": 1})

	sorted := runtime.SortSteps(list)
	names := make([]string, len(sorted))
	for i, s := range sorted {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"c", "a", "b", "d"}, names)
}

func TestNavigation_FirstLastFlags(t *testing.T) {
	list := steps(map[string]float64{"a": 0, "b": 1, "c": 2})

	assert.True(t, runtime.IsFirstStep(list, list[0]))
	assert.False(t, runtime.IsLastStep(list, list[0]))
	assert.True(t, runtime.IsLastStep(list, list[2]))
	assert.False(t, runtime.IsFirstStep(list, nil))
}
