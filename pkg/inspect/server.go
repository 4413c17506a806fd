package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/imui/pkg/imui"
	"github.com/vango-dev/imui/pkg/retained"
)

// DefaultEventBuffer is the number of queued actions before POST /events
// answers 503.
const DefaultEventBuffer = 64

// maxEventBody limits the size of a POST /events body.
const maxEventBody = 1 << 16

// Stats is the JSON form of imui.Stats.
type Stats struct {
	Trigger    string   `json:"trigger"`
	Source     *imui.ID `json:"source,omitempty"`
	Created    int      `json:"created"`
	Destroyed  int      `json:"destroyed"`
	Refreshed  int      `json:"refreshed"`
	Moved      int      `json:"moved"`
	Duplicates int      `json:"duplicates"`
	Passes     int      `json:"passes"`
	Duration   string   `json:"duration"`
}

// StatsOf converts session statistics for publishing.
func StatsOf(st imui.Stats) Stats {
	out := Stats{
		Trigger:    st.Trigger.String(),
		Created:    st.Created,
		Destroyed:  st.Destroyed,
		Refreshed:  st.Refreshed,
		Moved:      st.Moved,
		Duplicates: st.Duplicates,
		Passes:     st.Passes,
		Duration:   st.Duration.String(),
	}
	if st.HasSource {
		id := st.Source
		out.Source = &id
	}
	return out
}

// Update is one published state, as sent to websocket clients.
type Update struct {
	Seq   uint64            `json:"seq"`
	Tree  retained.Snapshot `json:"tree"`
	Stats Stats             `json:"stats"`
}

// Server is the inspector. Publish and Events may be used from any
// goroutine.
type Server struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer

	mu      sync.RWMutex
	current Update

	events chan retained.Action
	hub    *hub

	srvMu      sync.Mutex
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGatherer serves g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithEventBuffer sets the action queue size.
func WithEventBuffer(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.events = make(chan retained.Action, n)
		}
	}
}

// New creates an inspector. It does not listen until ListenAndServe.
func New(opts ...Option) *Server {
	s := &Server{
		logger: slog.Default(),
		events: make(chan retained.Action, DefaultEventBuffer),
		hub:    newHub(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish replaces the served state and pushes it to websocket clients.
func (s *Server) Publish(tree retained.Snapshot, stats imui.Stats) {
	s.mu.Lock()
	s.current = Update{Seq: s.current.Seq + 1, Tree: tree, Stats: StatsOf(stats)}
	u := s.current
	s.mu.Unlock()

	s.hub.broadcast(u)
}

// Current returns the last published state.
func (s *Server) Current() Update {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Events returns the queue of actions posted to /events.
func (s *Server) Events() <-chan retained.Action {
	return s.events
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	return s.hub.count()
}

// Handler returns the inspector routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/tree", s.handleTree)
	r.Get("/stats", s.handleStats)
	r.Post("/events", s.handleEvent)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.hub.serve(w, r, s.Current)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("inspect request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree := s.Current().Tree
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, tree.String())
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Current().Stats)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var a retained.Action
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		http.Error(w, "invalid action: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := a.Validate(); err != nil {
		http.Error(w, "invalid action: "+err.Error(), http.StatusBadRequest)
		return
	}

	select {
	case s.events <- a:
		s.logger.Debug("action queued", "action", a.String())
		w.WriteHeader(http.StatusAccepted)
	default:
		s.logger.Warn("action queue full", "action", a.String())
		http.Error(w, "action queue full", http.StatusServiceUnavailable)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves the inspector on addr until ctx is cancelled or
// the server fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves the inspector on ln until ctx is cancelled or the server
// fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.srvMu.Lock()
	s.httpServer = srv
	s.srvMu.Unlock()

	s.logger.Info("inspector listening", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Close()
		return nil
	case err := <-errCh:
		s.Close()
		return err
	}
}

// Close disconnects websocket clients and shuts the HTTP server down.
func (s *Server) Close() {
	s.hub.close()

	s.srvMu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.srvMu.Unlock()

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
