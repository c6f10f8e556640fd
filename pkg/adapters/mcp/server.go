// Package mcp exposes tour control to AI agents as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tourguide"
	"github.com/aretw0/tourguide/internal/logging"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToursURI is the resource listing every tour snapshot.
const ToursURI = "tourguide://tours"

// Engine is the tour store surface exposed over MCP.
type Engine interface {
	Tours() []string
	Snapshot(key string) (domain.TourSnapshot, bool)
	Start(ctx context.Context, key, fromStep string, scrollRef any)
	Next(ctx context.Context, key string)
	Prev(ctx context.Context, key string)
	Stop(ctx context.Context, key string)
}

// Server wraps the tour store and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("tourguide-mcp", strings.TrimSpace(tourguide.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "addr", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_tours",
		mcp.WithDescription("List the keys of every known tour."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.engine.Tours())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	tourArg := mcp.WithString("tour", mcp.Description("Tour key (defaults to _default)"))

	s.mcpServer.AddTool(mcp.NewTool("get_tour",
		mcp.WithDescription("Get the state of a tour: current step, visibility and its ordered steps."),
		tourArg,
		mcp.WithOutputSchema[domain.TourSnapshot](),
	), mcp.NewStructuredToolHandler(s.handleGet))

	s.mcpServer.AddTool(mcp.NewTool("start_tour",
		mcp.WithDescription("Start a tour, from its first step or from the named step."),
		tourArg,
		mcp.WithString("from", mcp.Description("Step name to start from (optional)")),
		mcp.WithOutputSchema[domain.TourSnapshot](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	for _, nav := range []struct {
		name, description string
		fn                func(context.Context, string)
	}{
		{"next_step", "Move a tour to its following step. Gates may keep or stop the tour.", s.engine.Next},
		{"prev_step", "Move a tour to its preceding step. Gates may keep or stop the tour.", s.engine.Prev},
		{"stop_tour", "Stop a tour and hide its overlay.", s.engine.Stop},
	} {
		s.mcpServer.AddTool(mcp.NewTool(nav.name,
			mcp.WithDescription(nav.description),
			tourArg,
			mcp.WithOutputSchema[domain.TourSnapshot](),
		), mcp.NewStructuredToolHandler(s.navigate(nav.name, nav.fn)))
	}
}

func tourKey(args map[string]interface{}) string {
	if key, _ := args["tour"].(string); key != "" {
		return key
	}
	return domain.DefaultTourKey
}

func (s *Server) snapshot(key string) (domain.TourSnapshot, error) {
	snap, ok := s.engine.Snapshot(key)
	if !ok {
		return domain.TourSnapshot{}, fmt.Errorf("tour %q: %w", key, domain.ErrTourNotFound)
	}
	return snap, nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.TourSnapshot, error) {
	return s.snapshot(tourKey(args))
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.TourSnapshot, error) {
	key := tourKey(args)
	from, _ := args["from"].(string)
	// Start may retry on later frames, past the tool call.
	s.engine.Start(context.WithoutCancel(ctx), key, from, nil)
	s.logger.Debug("MCP start", "tour", key, "from", from)
	return s.snapshot(key)
}

func (s *Server) navigate(name string, fn func(context.Context, string)) func(context.Context, mcp.CallToolRequest, map[string]interface{}) (domain.TourSnapshot, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.TourSnapshot, error) {
		key := tourKey(args)
		if _, err := s.snapshot(key); err != nil {
			return domain.TourSnapshot{}, err
		}
		fn(context.WithoutCancel(ctx), key)
		s.logger.Debug("MCP "+name, "tour", key)
		return s.snapshot(key)
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ToursURI, "Tour Snapshots",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.snapshots())
		if err != nil {
			return nil, fmt.Errorf("failed to encode tours: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ToursURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) snapshots() []domain.TourSnapshot {
	keys := s.engine.Tours()
	out := make([]domain.TourSnapshot, 0, len(keys))
	for _, key := range keys {
		if snap, ok := s.engine.Snapshot(key); ok {
			out = append(out, snap)
		}
	}
	return out
}
