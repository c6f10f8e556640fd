package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tourguide"
	"github.com/aretw0/tourguide/internal/scenario"
	"github.com/aretw0/tourguide/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd serves tour control to MCP clients.
var mcpCmd = &cobra.Command{
	Use:   "mcp <scenario.yaml>",
	Short: "Expose the scenario's tours as MCP tools",
	Long: `Mounts the scenario's steps and exposes tour control as Model Context
Protocol tools (list_tours, get_tour, start_tour, next_step, prev_step,
stop_tour), so an agent can walk a user through the tours.

Transports:
  stdio  JSON-RPC over stdin/stdout, for agents that spawn the process (default)
  sse    Server-Sent Events on --port, for remote agents`,
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
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		g := tourguide.New(tourguide.WithConfig(cfg), tourguide.WithLogger(logger))
		defer g.Close()
		mount(cmd.Context(), g, s, nil)

		srv := mcp.NewServer(g.Store(), mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Logs go to stderr; stdout carries JSON-RPC.
			logger.Info("starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err := srv.ServeSSE(ctx, fmt.Sprintf(":%d", port), fmt.Sprintf("http://localhost:%d", port))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "MCP transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8081, "SSE listen port")
}
