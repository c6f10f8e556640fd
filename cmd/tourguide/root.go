package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tourguide"
	"github.com/aretw0/tourguide/internal/config"
	"github.com/aretw0/tourguide/internal/scenario"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tourguide",
	Short: "tourguide previews and serves guided product tours",
	Long: `tourguide runs tour scenarios headlessly. A scenario file declares a canvas,
the steps mounted on it and a script of user actions. tourguide can preview
the overlay the script draws, export the tours as a diagram, or serve them
over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Provider config file; replaces the scenario's config block")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// settings resolves the engine config for a scenario and builds the logger.
// TOURGUIDE_* variables apply only together with --config.
func settings(cmd *cobra.Command, s *scenario.Scenario) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
		if err == nil && s.ScrollView != nil && cfg.ScrollViewTopReserved == 0 {
			cfg.ScrollViewTopReserved = s.ScrollView.TopReserved
		}
	} else {
		cfg, err = s.EngineConfig()
	}
	if err != nil {
		return config.Config{}, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	logger, err := cfg.Logger()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// mount registers every scenario step on g, in file order. Positioned zones
// resolve against canvas, or the scenario canvas when canvas is nil.
func mount(ctx context.Context, g *tourguide.Guide, s *scenario.Scenario, canvas func() domain.Rect) []*tourguide.Registration {
	if canvas == nil {
		canvas = func() domain.Rect { return s.Canvas }
	}
	regs := make([]*tourguide.Registration, 0, len(s.Steps))
	for _, spec := range s.Steps {
		regs = append(regs, g.Register(ctx, spec.TourKey(), spec.Build(canvas)))
	}
	return regs
}
