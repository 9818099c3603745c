package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/foodgram/backend/internal/middleware"
	"github.com/anonto42/foodgram/backend/internal/router"
	"github.com/anonto42/foodgram/backend/internal/storage"
	"github.com/anonto42/foodgram/backend/pkg/config"
	"github.com/anonto42/foodgram/backend/pkg/firebase"
	"github.com/anonto42/foodgram/backend/pkg/logger"
	"github.com/anonto42/foodgram/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	// Load configuration
	cfg, envFile := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if !envFile {
		logger.Info().Msg("No .env file found, assuming environment variables are set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize databases")
	}
	defer db.CloseDB()

	if err := router.Migrate(db.Postgres); err != nil {
		logger.Fatal().Err(err).Msg("Failed to auto migrate models")
	}

	blobs, err := newBlobStore(ctx, cfg, db.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.BlobBackend).Msg("Failed to initialize blob storage")
	}

	// Firebase is optional
	var firebaseAuth middleware.IDTokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case err == nil:
		firebaseAuth = firebaseApp.AuthClient
	case errors.Is(err, firebase.ErrNotConfigured):
		logger.Info().Msg("Firebase not configured, JWT only")
	default:
		logger.Fatal().Err(err).Msg("Failed to initialize Firebase")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e)

	err = router.SetupRoutes(e, router.Deps{
		DB:                 db.Postgres,
		Blobs:              blobs,
		JWTSecret:          cfg.JWTSecret,
		FirebaseAuth:       firebaseAuth,
		PublicBaseURL:      cfg.PublicBaseURL,
		ShortLinkCacheSize: cfg.ShortLinkCacheSize,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure routes")
	}

	metricsServer := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: metricsMux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Metrics server stopped")
		}
	}()

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Metrics server shutdown failed")
	}
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// newBlobStore selects the blob backend named by BLOB_BACKEND
func newBlobStore(ctx context.Context, cfg *config.Config, mongoClient *mongo.Client) (storage.BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendMemory:
		logger.Warn().Msg("Using in-memory blob storage; uploads are lost on restart")
		return storage.NewMemoryStore(), nil
	case config.BlobBackendGridFS:
		return storage.NewGridFSStore(mongoClient.Database(cfg.MongoDatabase))
	case config.BlobBackendS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
}
