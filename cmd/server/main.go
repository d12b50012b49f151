// Command server runs the happy-hour locations API.
//
// It loads configuration from the environment (optionally via a local .env
// file), opens the configured storage backend (SQLite file or Google Sheets
// worksheet), wires the Gin router with its middleware stack, and serves
// HTTP with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/okchh/go-happyhour-backend/docs"
	"github.com/okchh/go-happyhour-backend/internal/config"
	"github.com/okchh/go-happyhour-backend/internal/geocode"
	httpapi "github.com/okchh/go-happyhour-backend/internal/http"
	"github.com/okchh/go-happyhour-backend/internal/observability"
	"github.com/okchh/go-happyhour-backend/internal/repo"
	"github.com/okchh/go-happyhour-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// @title           Happy Hour Locations API
// @version         1.0
// @description     REST backend for a venue map dashboard: happy-hour locations with day/time filtering, Leaflet-style map views, and an admin management surface.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey AdminSecret
// @in header
// @name X-Admin-Secret
func main() {
	// Local development convenience; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("storage setup failed")
	}

	geo := geocode.NewNominatim(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout)

	r := gin.New()
	httpapi.RegisterRoutes(r, st, geo, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("backend", cfg.Store.Backend).
			Str("version", version).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// openStore builds the repository backend selected by configuration. The
// SQLite path also runs migrations and seeds an empty database with a few
// starter venues so a fresh install renders a non-empty map.
func openStore(ctx context.Context, sc config.StoreConfig) (repo.Store, error) {
	switch sc.Backend {
	case config.StoreSheets:
		return repo.NewSheetsStore(ctx, sc.SpreadsheetID, sc.Worksheet, sc.CredentialsFile)
	default: // config.StoreSQLite; validated at load time
		db, err := repo.OpenSQLite(sc.DBPath)
		if err != nil {
			return nil, err
		}
		if err := repo.AutoMigrate(db); err != nil {
			return nil, err
		}
		if err := repo.Seed(db); err != nil {
			return nil, err
		}
		return repo.NewSQLiteStore(db), nil
	}
}
