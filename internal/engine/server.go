// Package engine exposes the gateway over HTTP.
package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/polystoreio/polystore/internal/database"
	"github.com/polystoreio/polystore/internal/gateway"
	"github.com/polystoreio/polystore/internal/monitoring"
	"github.com/polystoreio/polystore/internal/scenario"
	"github.com/polystoreio/polystore/pkg/health"
	"github.com/polystoreio/polystore/pkg/logger"
)

// Server is the HTTP surface over the gateway router.
type Server struct {
	router     *mux.Router
	gw         *gateway.Router
	supervisor *database.Supervisor
	tracker    *monitoring.Tracker
	ecommerce  *scenario.Ecommerce
	checker    *health.Checker
	logger     *logger.Logger
	httpServer *http.Server
}

// NewServer wires the HTTP surface.
func NewServer(gw *gateway.Router, supervisor *database.Supervisor, tracker *monitoring.Tracker, log *logger.Logger) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		gw:         gw,
		supervisor: supervisor,
		tracker:    tracker,
		ecommerce:  scenario.NewEcommerce(gw, log),
		checker:    health.NewChecker(),
		logger:     log,
	}
	s.setupRoutes()
	s.setupMiddleware()
	return s
}

func (s *Server) setupMiddleware() {
	// Logging middleware
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			if s.logger != nil {
				s.logger.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
			}
		})
	})
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/operations", s.handleOperation).Methods(http.MethodPost)

	api.HandleFunc("/health", s.handleHealthAll).Methods(http.MethodGet)
	api.HandleFunc("/health/{paradigm}", s.handleHealthOne).Methods(http.MethodGet)

	api.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	api.HandleFunc("/metrics", s.handleMetricsReset).Methods(http.MethodDelete)

	api.HandleFunc("/scenarios/ecommerce", s.handleEcommerce).Methods(http.MethodPost)
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handler returns the mux router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or Stop is called.
func (s *Server) Start(addr string, port int) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", addr, port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if s.logger != nil {
		s.logger.Info("http server listening on %s", s.httpServer.Addr)
	}
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
