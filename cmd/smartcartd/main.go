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

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"smart-cart-backend/config"
	"smart-cart-backend/internal/api"
	"smart-cart-backend/internal/collection"
	"smart-cart-backend/internal/db"
	"smart-cart-backend/internal/ingest"
	"smart-cart-backend/internal/notification"
	"smart-cart-backend/internal/remote"
	"smart-cart-backend/internal/scanner"
	"smart-cart-backend/internal/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", configPath).Msg("failed to load configuration")
	}
	logger.Info().Str("path", configPath).Msg("configuration loaded")

	if cfg.Services.BaseURL == "" {
		logger.Fatal().Msg("services.base_url must point at the scanner service")
	}
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatal().Msg("VAPID keys must be configured")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The remote client always fronts the scan hardware and the product
	// catalog. Folders and items live in the local database unless the
	// deployment delegates persistence to the companion service; both
	// sides satisfy the same store contracts.
	client := remote.NewClient(cfg.Services.BaseURL, cfg.Services.Timeout, logger)
	appStore := store.NewGormStore(gormDB)
	var folders store.FolderStore = appStore
	var items store.ItemStore = appStore
	if cfg.Services.UseRemoteStore {
		folders = client
		items = client
		logger.Info().Msg("folder and item persistence delegated to the scanner service")
	}

	coll := collection.New()
	conn := scanner.NewController(client, logger)

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions, logger)
	pool.Start(ctx)

	workflow := scanner.NewWorkflow(conn, client, client, folders, items, coll, pool, logger)

	if cfg.Ingest.Enabled {
		listener := ingest.NewListener(cfg.Ingest.StreamURL, workflow, cfg.Ingest.Retry, logger)
		go listener.Run(ctx)
		logger.Info().Str("url", cfg.Ingest.StreamURL).Msg("ingestion listener started")
	}

	handler := api.NewHandler(folders, items, coll, conn, workflow, gormDB, &webpushOptions, logger)
	router := api.NewRouter(handler, cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("server gracefully stopped")
}
