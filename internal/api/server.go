package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lowaak/tabata-timer/internal/go_func_utils"
	"github.com/lowaak/tabata-timer/internal/interval"
	"github.com/lowaak/tabata-timer/internal/trainer"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
)

// Server wraps the chi router and the workout it controls.
type Server struct {
	router  *chi.Mux
	manager *trainer.WorkoutManager
	model   *trainer.UIModel
	store   *trainer.SettingsStore
	logger  *log.Logger
	addr    string

	unlisten []func()
}

// NewServer creates and configures a new HTTP server.
// store may be nil, in which case settings changes are not persisted.
func NewServer(addr string, manager *trainer.WorkoutManager, model *trainer.UIModel, store *trainer.SettingsStore, logger *log.Logger) *Server {
	if manager == nil {
		panic("Server: manager cannot be nil")
	}
	if model == nil {
		panic("Server: model cannot be nil")
	}
	if logger == nil {
		panic("Server: logger cannot be nil")
	}

	srv := &Server{
		router:  chi.NewRouter(),
		manager: manager,
		model:   model,
		store:   store,
		logger:  logger,
		addr:    addr,
	}

	srv.unlisten = append(srv.unlisten,
		manager.ListenToCues(func(cue interval.Cue) {
			cuesTotal.WithLabelValues(string(cue)).Inc()
		}),
		manager.ListenToPhaseChanges(func(phase interval.Phase) {
			phaseTransitionsTotal.WithLabelValues(phase.String()).Inc()
		}),
	)

	srv.router.Use(middleware.RequestID)
	srv.router.Use(middleware.Recoverer)
	srv.router.Use(srv.loggingMiddleware)
	srv.router.Use(metricsMiddleware)
	srv.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	srv.routes()

	return srv
}

// routes registers all HTTP routes on the router.
func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", s.metricsHandler())

	s.router.Get("/v1/logs", s.handleGetLogs)

	s.router.Route("/v1/timer", func(r chi.Router) {
		r.Get("/", s.handleGetTimer)
		r.Get("/events", s.handleStreamEvents)
		r.Post("/start", s.handleCommand(s.manager.Start))
		r.Post("/toggle", s.handleCommand(s.manager.Toggle))
		r.Post("/pause", s.handleCommand(s.manager.Pause))
		r.Post("/resume", s.handleCommand(s.manager.Resume))
		r.Post("/reset", s.handleCommand(s.manager.Reset))
		r.Put("/settings", s.handleUpdateSettings)
	})
}

// Router returns the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Close detaches the server's metric listeners from the workout manager
func (s *Server) Close() {
	for _, unlisten := range s.unlisten {
		unlisten()
	}
	s.unlisten = nil
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go_func_utils.SafeGo(s.logger, "API.listen", func() {
		s.logger.Printf("API: Listening on %s", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Printf("API: Shutting down (%s)", sig)
	case err := <-errCh:
		return errors.Wrap(err, "server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}

	s.logger.Printf("API: Server stopped")
	return nil
}

// loggingMiddleware logs each request with its status and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Printf("API: %s %s %d %dms [%s]",
			r.Method, r.URL.Path, ww.Status(), time.Since(start).Milliseconds(),
			middleware.GetReqID(r.Context()))
	})
}
