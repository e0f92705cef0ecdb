package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/wayfarer-hub/travel-api/internal/config"
	adminhttp "github.com/wayfarer-hub/travel-api/internal/interfaces/http/admin"
	commonhttp "github.com/wayfarer-hub/travel-api/internal/interfaces/http/common"
	publichttp "github.com/wayfarer-hub/travel-api/internal/interfaces/http/public"
	"github.com/wayfarer-hub/travel-api/internal/metrics"
	"github.com/wayfarer-hub/travel-api/internal/review/application"
)

// Options carries the collaborators assembled by the entry point.
type Options struct {
	Config  config.Config
	Logger  zerolog.Logger
	Repo    application.ReviewRepository
	Cache   application.StatsCache
	Metrics *metrics.Metrics
	// Closers run after the HTTP server stops, in order.
	Closers []func(context.Context) error
}

// Server owns the HTTP lifecycle and wires review services into the router.
type Server struct {
	logger         zerolog.Logger
	repo           application.ReviewRepository
	metrics        *metrics.Metrics
	reviews        application.ReviewService
	moderation     application.ModerationService
	jwt            config.JWTConfig
	addr           string
	allowedOrigins []string
	requestTimeout time.Duration
	closers        []func(context.Context) error
}

// New builds the application services and returns a Server ready to Run.
func New(opts Options) *Server {
	m := opts.Metrics
	if m == nil {
		m = metrics.New("reviews")
	}

	deps := application.Dependencies{
		Repo:     opts.Repo,
		Cache:    opts.Cache,
		Observer: m,
		Logger:   opts.Logger,
		MaxLimit: opts.Config.MaxPageLimit,
	}

	reviews, moderation := application.NewServices(deps)

	return &Server{
		logger:         opts.Logger,
		repo:           opts.Repo,
		metrics:        m,
		reviews:        reviews,
		moderation:     moderation,
		jwt:            opts.Config.JWT,
		addr:           opts.Config.Addr,
		allowedOrigins: append([]string(nil), opts.Config.AllowedOrigins...),
		requestTimeout: opts.Config.RequestTimeout,
		closers:        opts.Closers,
	}
}

// Router assembles middleware, public routes and the authenticated admin group.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(hlog.NewHandler(s.logger))
	router.Use(hlog.AccessHandler(accessLog))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))
	router.Use(s.metrics.Middleware)

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		commonhttp.WriteError(s.logger, w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		commonhttp.WriteError(s.logger, w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/healthz", s.healthHandler())
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:         s.logger,
		Reviews:        s.reviews,
		RequestTimeout: s.requestTimeout,
	})
	publicHandler.Register(router)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:         s.logger,
		Moderation:     s.moderation,
		RequestTimeout: s.requestTimeout,
	})
	router.Group(func(r chi.Router) {
		r.Use(s.authMiddleware, s.requireRole(s.jwt.AdminRole))
		adminHandler.Register(r)
	})

	return router
}

// Run starts the HTTP server and blocks until it stops or a signal arrives.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("http server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	return s.waitForShutdown(httpServer, errChan)
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	event := hlog.FromRequest(r).Info()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Error()
	} else if status >= http.StatusBadRequest {
		event = hlog.FromRequest(r).Warn()
	}
	event.
		Str("requestId", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request completed")
}

// withCORS returns middleware that adds CORS headers for allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports store connectivity only, never domain state.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.repo.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("health check failed")
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, closeFn := range s.closers {
		if err := closeFn(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("shutdown hook failed")
		}
	}
}

// waitForShutdown watches ListenAndServe and OS signals and shuts down gracefully.
func (s *Server) waitForShutdown(httpServer *http.Server, errChan <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case sig := <-sigChan:
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("http shutdown failed")
		}
	}

	s.shutdown(context.Background())
	return runErr
}
