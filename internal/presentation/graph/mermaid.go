// Package graph draws registered tours as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tourguide/pkg/domain"
)

// Tour is one tour as drawn on the graph.
type Tour struct {
	Key     string
	Current string
	Steps   []domain.StepInfo
	// Gates annotates steps with their gating outcome, by step name.
	Gates map[string]Gate
}

// Gate holds the fixed outcomes of a step's gating callbacks, if any.
type Gate struct {
	OnNext     string
	OnPrevious string
}

// FromSnapshot builds a Tour from a store snapshot. Steps are already sorted.
func FromSnapshot(s domain.TourSnapshot) Tour {
	t := Tour{Key: s.Key, Steps: s.Steps}
	if s.Visible {
		t.Current = s.Current
	}
	return t
}

// GenerateMermaid produces a Mermaid flowchart with one subgraph per tour.
// It applies semantic styling:
// - Pressable steps: ([Stadium])
// - Default: [Rectangle]
// Forward edges follow step order; gated edges carry the outcome.
func GenerateMermaid(tours []Tour) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	var current []string
	for _, t := range tours {
		tourID := sanitizeMermaidID(t.Key)
		fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", tourID, t.Key)
		for _, step := range t.Steps {
			opener, closer := "[", "]"
			if step.Hints.Pressable {
				opener, closer = "([", "])"
			}
			fmt.Fprintf(&sb, "        %s%s\"%s\"%s\n", stepID(t.Key, step.Name), opener, label(step), closer)
		}
		for i := 1; i < len(t.Steps); i++ {
			from, to := t.Steps[i-1].Name, t.Steps[i].Name
			arrow := "-->"
			if g := t.Gates[from].OnNext; g != "" {
				arrow = fmt.Sprintf("-- \"next: %s\" -->", g)
			}
			fmt.Fprintf(&sb, "        %s %s %s\n", stepID(t.Key, from), arrow, stepID(t.Key, to))
			if g := t.Gates[to].OnPrevious; g != "" {
				fmt.Fprintf(&sb, "        %s -. \"prev: %s\" .-> %s\n", stepID(t.Key, to), g, stepID(t.Key, from))
			}
		}
		sb.WriteString("    end\n")
		if t.Current != "" {
			current = append(current, stepID(t.Key, t.Current))
		}
	}

	if len(current) > 0 {
		sb.WriteString("\n    %% Current steps\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range current {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}
	return sb.String()
}

func label(step domain.StepInfo) string {
	text := step.Name
	if step.Hints.Text != "" {
		first, _, _ := strings.Cut(step.Hints.Text, "\n")
		text += " <br/> " + first
	}
	return strings.ReplaceAll(text, "\"", "'")
}

func stepID(key, name string) string {
	return sanitizeMermaidID(key) + "__" + sanitizeMermaidID(name)
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
