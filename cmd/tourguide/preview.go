package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/tourguide"
	"github.com/aretw0/tourguide/internal/presentation/tui"
	"github.com/aretw0/tourguide/internal/scenario"
	"github.com/aretw0/tourguide/pkg/adapters/clock"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var previewCmd = &cobra.Command{
	Use:   "preview <scenario.yaml>",
	Short: "Play a scenario and print the overlay it draws",
	Long: `Plays the scenario's script on virtual time and prints every highlight
move, mask and scroll the overlay would perform, followed by the tour state.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		cfg, logger, err := settings(cmd, s)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		style, _ := cmd.Flags().GetString("style")
		width, _ := cmd.Flags().GetInt("width")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		if style == "auto" && !isTerminal(out) {
			style = "notty"
		}
		profile := termenv.Ascii
		if style != "plain" {
			profile = termenv.EnvColorProfile()
		}
		if !noBanner {
			tui.PrintBanner(out, profile)
		}

		opts := []tui.OverlayOption{tui.WithProfile(profile)}
		if style != "plain" {
			md, err := tui.NewMarkdown(style, width)
			if err != nil {
				return fmt.Errorf("markdown renderer: %w", err)
			}
			opts = append(opts, tui.WithMarkdown(md))
		}
		return preview(cmd.Context(), out, s, cfg, logger, tui.NewOverlay(out, opts...))
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().String("style", "auto", "Tooltip markdown style (auto, dark, light, notty, plain)")
	previewCmd.Flags().Int("width", 60, "Tooltip word wrap width")
	previewCmd.Flags().Bool("no-banner", false, "Do not print the banner")
}

func preview(ctx context.Context, out io.Writer, s *scenario.Scenario, cfg tourguide.Config, logger *slog.Logger, overlay *tui.Overlay) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sched := clock.NewManual()
	g := tourguide.New(
		tourguide.WithConfig(cfg),
		tourguide.WithLogger(logger),
		tourguide.WithScheduler(sched),
		tourguide.WithRenderer(overlay),
		tourguide.WithCanvas(s.Canvas),
	)
	defer g.Close()
	if s.ScrollView != nil {
		g.SetScrollView(overlay, cfg.ScrollViewTopReserved)
	}

	d := newGuideDriver(g, sched)
	d.mountScenario(ctx, s, g.Overlay().Canvas)
	// Let auto start and mount-time frames run before the script.
	d.Wait(domain.FrameInterval)

	if s.Name != "" {
		fmt.Fprintf(out, "scenario %s\n", s.Name)
	}
	settle := cfg.OverlaySettings().MoveDelay + domain.SettleDelay
	return s.Play(ctx, d, settle, func(i int, a scenario.Action) {
		fmt.Fprintf(out, "» %d %s\n", i+1, a)
		key := a.Tour
		if key == "" {
			key = g.TourKey()
		}
		if snap, ok := g.Snapshot(key); ok {
			fmt.Fprintf(out, "  state %s\n", describe(snap))
		}
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func describe(snap domain.TourSnapshot) string {
	if !snap.Visible {
		return fmt.Sprintf("[%s] hidden", snap.Key)
	}
	pos := ""
	switch {
	case snap.IsFirst && snap.IsLast:
		pos = " only"
	case snap.IsFirst:
		pos = " first"
	case snap.IsLast:
		pos = " last"
	}
	return fmt.Sprintf("[%s] at %s%s", snap.Key, snap.Current, pos)
}
