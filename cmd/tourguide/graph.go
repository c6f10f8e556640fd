package main

import (
	"fmt"

	"github.com/aretw0/tourguide"
	"github.com/aretw0/tourguide/internal/presentation/graph"
	"github.com/aretw0/tourguide/internal/scenario"
	"github.com/aretw0/tourguide/pkg/adapters/clock"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <scenario.yaml>",
	Short: "Export the scenario's tours as a Mermaid diagram",
	Long:  `Mounts the scenario's steps and outputs a Mermaid diagram (graph LR) with one subgraph per tour, in step order.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(scenarioTours(cmd, s)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

// scenarioTours mounts s on a throwaway guide and reads the tours back.
func scenarioTours(cmd *cobra.Command, s *scenario.Scenario) []graph.Tour {
	g := tourguide.New(tourguide.WithScheduler(clock.NewManual()))
	defer g.Close()

	gates := make(map[string]map[string]graph.Gate)
	for i, reg := range mount(cmd.Context(), g, s, nil) {
		spec := s.Steps[i]
		if spec.OnNext == "" && spec.OnPrevious == "" {
			continue
		}
		if gates[reg.TourKey()] == nil {
			gates[reg.TourKey()] = make(map[string]graph.Gate)
		}
		gates[reg.TourKey()][reg.Name()] = graph.Gate{OnNext: spec.OnNext, OnPrevious: spec.OnPrevious}
	}

	var tours []graph.Tour
	for _, key := range g.Tours() {
		snap, ok := g.Snapshot(key)
		if !ok || len(snap.Steps) == 0 {
			continue
		}
		t := graph.FromSnapshot(snap)
		t.Gates = gates[key]
		tours = append(tours, t)
	}
	return tours
}
