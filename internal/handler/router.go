package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/greenverse/greenverse-go/internal/metrics"
	"github.com/greenverse/greenverse-go/internal/middleware"
	"github.com/greenverse/greenverse-go/internal/service"
	"github.com/greenverse/greenverse-go/internal/session"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth     *service.Authenticator
	Sessions *session.Manager
	Analyses *service.AnalysisService
	Feed     *service.FeedService

	Logger   *slog.Logger
	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer

	Routes         middleware.RouteTable
	AllowedOrigins []string
	Production     bool

	// TrustProxyHeaders takes the client address from X-Forwarded-For or
	// X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// NewRouter builds the HTTP handler. ctx bounds background work started by
// middleware.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.Auth, cfg.Sessions, cfg.Metrics)
	analysisHandler := NewAnalysisHandler(cfg.Analyses)
	feedHandler := NewFeedHandler(cfg.Feed)

	r := chi.NewRouter()

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Use(chimw.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(cfg.Logger, cfg.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.Production))
	r.Use(middleware.Guard(cfg.Sessions, cfg.Routes, cfg.Metrics))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Gatherer))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", Page("login"))
		r.Get("/register", Page("register"))
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, cfg.Metrics))
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})
	})

	for _, prefix := range cfg.Routes.Protected {
		page := Page(strings.TrimPrefix(prefix, "/"))
		r.Get(prefix, page)
		r.Get(prefix+"/*", page)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireSession(cfg.Sessions))

		r.Get("/auth/me", authHandler.HandleMe)

		r.Get("/plant-analyses", analysisHandler.HandleList)
		r.Post("/plant-analyses", analysisHandler.HandleCreate)

		r.Get("/posts", feedHandler.HandleList)
		r.Post("/posts", feedHandler.HandleCreate)
		r.Post("/posts/{postID}/like", feedHandler.HandleToggleLike)
		r.Get("/posts/{postID}/comments", feedHandler.HandleListComments)
		r.Post("/posts/{postID}/comments", feedHandler.HandleAddComment)
	})

	return r
}
