// Package api exposes the planner and the food analyzer over JSON/HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
	"github.com/hammamikhairi/nutriplan/internal/planner"
)

// maxAnalyzeBody bounds /api/analyze-food request bodies. Base64 adds a
// third on top of the decoded image cap.
const maxAnalyzeBody = 32 << 20

// maxJSONBody bounds every other request body.
const maxJSONBody = 1 << 20

// Option configures the Server.
type Option func(*Server)

// WithAllowedOrigins restricts CORS origins. The default allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// Server holds the HTTP handlers.
type Server struct {
	planner         *planner.Planner
	analyzer        domain.FoodAnalyzer
	log             *logger.Logger
	origins         []string
	shutdownTimeout time.Duration
}

// New creates an API server. analyzer may be nil, in which case
// /api/analyze-food answers 503.
func New(p *planner.Planner, analyzer domain.FoodAnalyzer, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		planner:         p,
		analyzer:        analyzer,
		log:             log,
		origins:         []string{"*"},
		shutdownTimeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed handler wrapped in logging and CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/plan", s.handlePlan).Methods(http.MethodPost)
	api.HandleFunc("/diet-plan/replace", s.handleReplace).Methods(http.MethodPost)
	api.HandleFunc("/foods", s.handleFoods).Methods(http.MethodGet)
	api.HandleFunc("/foods/alternatives/{slot}", s.handleAlternatives).Methods(http.MethodGet)
	api.HandleFunc("/analyze-food", s.handleAnalyze).Methods(http.MethodPost)

	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/quiz/{step}", s.handleAnswer).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/paid", s.handlePaid).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/plan", s.handleSessionPlan).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/swap", s.handleSwap).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(requestID(s.loggingMiddleware(r)))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
