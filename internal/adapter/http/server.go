package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingestion reports the load state of the earthquake snapshot.
type Ingestion interface {
	CheckReadiness(ctx context.Context) error
	State() pipeline.State
	Snapshot() *domain.Snapshot
	Err() error
}

// Options configures the listener and cross-origin policy.
type Options struct {
	Addr        string
	CORSOrigins []string
}

// Server exposes the dashboard API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	ingestion  Ingestion
	session    *dashboard.Session
	hub        *Hub
	logger     *slog.Logger
}

// NewServer wires the router. Selection changes on session are pushed to
// websocket clients.
func NewServer(opts Options, ingestion Ingestion, session *dashboard.Session, metrics *observability.Metrics, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		ingestion: ingestion,
		session:   session,
		hub:       NewHub(metrics, logger),
		logger:    logger,
	}
	session.OnSelectionChange(s.hub.BroadcastSelection)

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/healthz", s.handleHealth)
	router.Get("/readyz", s.handleReady)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/ws/selection", s.handleSelectionSocket)

	router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.requireData)

			r.Get("/records", s.handleRecords)
			r.Get("/records/{id}", s.handleRecord)
			r.Get("/summary", s.handleSummary)

			r.Route("/table", func(r chi.Router) {
				r.Get("/", s.handleTable)
				r.Patch("/params", s.handleUpdateTable)
				r.Post("/sort/{field}", s.handleToggleSort)
				r.Post("/page/next", s.handleNextPage)
				r.Post("/page/prev", s.handlePrevPage)
			})

			r.Route("/chart", func(r chi.Router) {
				r.Get("/", s.handleChart)
				r.Patch("/params", s.handleUpdateChart)
			})

			r.Route("/selection", func(r chi.Router) {
				r.Get("/", s.handleDetail)
				r.Put("/", s.handleSelectRecord)
				r.Delete("/", s.handleClearSelection)
				r.Post("/{id}", s.handleSelectByID)
			})
		})
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown closes websocket clients and drains connections within the given
// context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ingestion.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
