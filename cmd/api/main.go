// Package main is the entry point for the Trailbook API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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
	_ "time/tzdata" // TRIP_TIMEZONE must resolve in minimal containers

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/trailbook/backend/internal/auth"
	"github.com/pkordes/trailbook/backend/internal/blob"
	"github.com/pkordes/trailbook/backend/internal/config"
	"github.com/pkordes/trailbook/backend/internal/handler"
	"github.com/pkordes/trailbook/backend/internal/lifecycle"
	"github.com/pkordes/trailbook/backend/internal/middleware"
	"github.com/pkordes/trailbook/backend/internal/repo"
	"github.com/pkordes/trailbook/backend/internal/service"
	"github.com/pkordes/trailbook/backend/internal/session"
	"github.com/pkordes/trailbook/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		if err := migrate(context.Background(), pool); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// --- Domain wiring ----------------------------------------------------
	loc := cfg.Location()
	trips := repo.NewTripRepo(pool)
	days := repo.NewDayEntryRepo(pool)
	users := repo.NewUserRepo(pool)
	photos := blob.NewStore(repo.NewBlobRepo(pool), cfg.PublicBaseURL)

	sessions := session.NewRegistry(session.Deps{
		Trips:  trips,
		Days:   days,
		Users:  users,
		Now:    func() time.Time { return time.Now().In(loc) },
		Logger: logger,
	})
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	srv := handler.NewServer(handler.Deps{
		Trips:          service.NewTripService(trips, days, photos, blob.TripFolder, logger),
		Ender:          lifecycle.NewController(trips, logger),
		Entries:        service.NewDayEntryService(days, photos, blob.PhotoPath, logger),
		Export:         service.NewExportService(trips, days),
		Auth:           service.NewAuthService(users, tokens, logger),
		Blobs:          photos,
		Sessions:       sessions,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID, RealIP, Logger, Recoverer,
	// CORS, body limit. Recoverer catches panics and returns HTTP 500.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes))
	r.Mount("/", srv.Routes(middleware.NewAuthHandler(tokens)))

	// --- HTTP Server ------------------------------------------------------
	// Photo uploads on mobile networks are slow, hence the longer read timeout.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "trip_timezone", loc.String())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending migrations through a database/sql view of pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := migrations.NewProvider(db)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration", res.Duration)
	}
	return nil
}
