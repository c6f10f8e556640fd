package graph_test

import (
	"testing"

	"github.com/aretw0/tourguide/internal/presentation/graph"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		tours       []graph.Tour
		contains    []string
		notContains []string
	}{
		{
			name: "Step Shapes",
			tours: []graph.Tour{{Key: "_default", Steps: []domain.StepInfo{
				{Name: "1", Hints: domain.Hints{Text: "Search \"here\"\nmore"}},
				{Name: "2", Hints: domain.Hints{Pressable: true}},
			}}},
			contains: []string{
				"subgraph _default[\"_default\"]",
				"_default__1[\"1 <br/> Search 'here'\"]",
				"_default__2([\"2\"])",
				"_default__1 --> _default__2",
			},
			notContains: []string{"classDef current"},
		},
		{
			name: "Gates",
			tours: []graph.Tour{{
				Key:   "t",
				Steps: []domain.StepInfo{{Name: "a"}, {Name: "b"}},
				Gates: map[string]graph.Gate{
					"a": {OnNext: "abort"},
					"b": {OnPrevious: "stop"},
				},
			}},
			contains: []string{
				"t__a -- \"next: abort\" --> t__b",
				"t__b -. \"prev: stop\" .-> t__a",
			},
		},
		{
			name: "ID Sanitization",
			tours: []graph.Tour{{Key: "my-tour", Steps: []domain.StepInfo{{Name: "path/to.step"}}}},
			contains: []string{
				"subgraph my_tour[\"my-tour\"]",
				"my_tour__path_to_step[\"path/to.step\"]",
			},
		},
		{
			name: "Current Step",
			tours: []graph.Tour{graph.FromSnapshot(domain.TourSnapshot{
				Key: "k", Visible: true, Current: "a",
				Steps: []domain.StepInfo{{Name: "a"}},
			})},
			contains: []string{
				"classDef current",
				"class k__a current;",
			},
		},
		{
			name: "Hidden Tour Has No Current",
			tours: []graph.Tour{graph.FromSnapshot(domain.TourSnapshot{
				Key: "k", Current: "a",
				Steps: []domain.StepInfo{{Name: "a"}},
			})},
			notContains: []string{"class k__a current;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tt.tours)
			assert.Contains(t, out, "graph LR\n")
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}
