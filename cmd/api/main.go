package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/greenverse/greenverse-go/internal/config"
	"github.com/greenverse/greenverse-go/internal/crypto"
	"github.com/greenverse/greenverse-go/internal/handler"
	"github.com/greenverse/greenverse-go/internal/logger"
	"github.com/greenverse/greenverse-go/internal/metrics"
	"github.com/greenverse/greenverse-go/internal/middleware"
	"github.com/greenverse/greenverse-go/internal/repository"
	"github.com/greenverse/greenverse-go/internal/service"
	"github.com/greenverse/greenverse-go/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	stores, err := repository.Open(ctx, cfg.StorageBackend, cfg.DatabaseDSN, cfg.RunMigrations)
	if err != nil {
		return err
	}
	defer stores.Close()

	credentials := service.NewCredentialStore(stores.Users, crypto.NewHasher(crypto.DefaultHashParams()))
	if cfg.SeedDemoUsers {
		if _, err := service.SeedDemoUsers(ctx, credentials); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := handler.NewRouter(ctx, handler.RouterConfig{
		Auth:               service.NewAuthenticator(credentials),
		Sessions:           session.NewManager(cfg.SessionSecret, session.WithSecureCookie(cfg.IsProduction())),
		Analyses:           service.NewAnalysisService(stores.Analyses),
		Feed:               service.NewFeedService(stores.Posts),
		Logger:             log,
		Metrics:            metrics.NewCollector(reg),
		Gatherer:           reg,
		Routes:             middleware.DefaultRoutes(),
		AllowedOrigins:     cfg.AllowedOrigins,
		Production:         cfg.IsProduction(),
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
		AuthRateLimitBurst: cfg.AuthRateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
