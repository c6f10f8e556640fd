// Package http exposes tour control and event streaming over HTTP.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/tourguide/internal/logging"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/events"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the tour store surface served over HTTP.
type Engine interface {
	Tours() []string
	Snapshot(key string) (domain.TourSnapshot, bool)
	Start(ctx context.Context, key, fromStep string, scrollRef any)
	Next(ctx context.Context, key string)
	Prev(ctx context.Context, key string)
	Stop(ctx context.Context, key string)
	Bus(key string) *events.Bus
}

// Server holds the handler dependencies.
type Server struct {
	Engine   Engine
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	// StreamBuffer is the per-client SSE buffer; events past it are dropped.
	StreamBuffer int
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithGatherer serves g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// NewHandler creates the HTTP handler for engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:       engine,
		Logger:       logging.NewNop(),
		StreamBuffer: 16,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/tours", s.ListTours)
	r.Route("/tours/{key}", func(r chi.Router) {
		r.Get("/", s.GetTour)
		r.Post("/start", s.StartTour)
		r.Post("/next", s.navigate("next", engine.Next))
		r.Post("/prev", s.navigate("prev", engine.Prev))
		r.Post("/stop", s.navigate("stop", engine.Stop))
		r.Get("/events", s.SubscribeEvents)
	})
	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTours handles GET /tours.
func (s *Server) ListTours(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"tours": s.Engine.Tours()})
}

// GetTour handles GET /tours/{key}.
func (s *Server) GetTour(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	snap, ok := s.Engine.Snapshot(key)
	if !ok {
		s.notFound(w, key)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// StartTour handles POST /tours/{key}/start?from=<step>.
// The start may complete on a later frame, so the reply is 202 with the
// snapshot as of the request.
func (s *Server) StartTour(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	from := r.URL.Query().Get("from")

	// Start keeps retrying on later frames and stops once ctx is done,
	// so it must outlive the request.
	s.Engine.Start(context.WithoutCancel(r.Context()), key, from, nil)
	s.Logger.Debug("http: start requested", "tour", key, "from", from)

	snap, _ := s.Engine.Snapshot(key)
	s.writeJSON(w, http.StatusAccepted, snap)
}

func (s *Server) navigate(action string, fn func(context.Context, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if _, ok := s.Engine.Snapshot(key); !ok {
			s.notFound(w, key)
			return
		}
		fn(context.WithoutCancel(r.Context()), key)
		s.Logger.Debug("http: navigation requested", "tour", key, "action", action)

		snap, _ := s.Engine.Snapshot(key)
		s.writeJSON(w, http.StatusOK, snap)
	}
}

// SubscribeEvents handles GET /tours/{key}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: streaming not supported")
		return
	}
	key := chi.URLParam(r, "key")

	ch, cancel := s.Engine.Bus(key).Stream(s.StreamBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.Logger.Info("SSE: client subscribed", "tour", key)

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected", "tour", key)
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.Logger.Error("SSE: encode event failed", "tour", key, "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
			flusher.Flush()
		}
	}
}

func (s *Server) notFound(w http.ResponseWriter, key string) {
	err := fmt.Errorf("tour %q: %w", key, domain.ErrTourNotFound)
	s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("http: response encode failed", "err", err)
	}
}
