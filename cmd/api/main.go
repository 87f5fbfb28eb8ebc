package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohamedamrelashry/fitness/internal/api"
	"github.com/mohamedamrelashry/fitness/internal/auth"
	"github.com/mohamedamrelashry/fitness/internal/config"
	"github.com/mohamedamrelashry/fitness/internal/db"
	"github.com/mohamedamrelashry/fitness/internal/domain"
	"github.com/mohamedamrelashry/fitness/internal/logger"
	"github.com/mohamedamrelashry/fitness/internal/persistence/postgres"
	httptransport "github.com/mohamedamrelashry/fitness/internal/transport/http"
	"github.com/mohamedamrelashry/fitness/internal/users"
	"github.com/mohamedamrelashry/fitness/internal/web"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.RunMigrations(cfg.PostgresURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	pool, err := db.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	activityRepo := postgres.NewActivityRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	activityService := domain.NewService(activityRepo, domain.WithPageSize(cfg.PageSize))
	accountService := users.NewService(userRepo)

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, Expiry: cfg.JWTExpiry}

	mux := http.NewServeMux()
	api.NewHandler(activityService, accountService, authCfg).RegisterRoutes(mux)
	web.NewHandler(activityService, accountService, authCfg).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Simple CORS middleware for local dev
	cors := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	// Basic request logger
	requestLog := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			slog.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}

	// Bearer auth guards the API; pages, health and metrics are resolved by
	// the cookie middleware instead.
	bearerSkipper := func(r *http.Request) bool {
		path := r.URL.Path
		if !strings.HasPrefix(path, "/api/") {
			return true
		}
		switch path {
		case "/api/auth/register", "/api/auth/login", "/api/auth/logout":
			return true
		}
		return false
	}

	bearer := auth.NewMiddleware(authCfg, bearerSkipper)
	cookie := auth.CookieMiddleware{Config: authCfg}

	handler := bearer.Wrap(cookie.Wrap(requestLog(cors(mux))))

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, handler)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("fitness tracker listening", "address", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
