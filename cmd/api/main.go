package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/ops-task-report/internal/aggregator"
	"github.com/kurihiro0119/ops-task-report/internal/api"
	"github.com/kurihiro0119/ops-task-report/internal/config"
	"github.com/kurihiro0119/ops-task-report/internal/logger"
	"github.com/kurihiro0119/ops-task-report/internal/storage"
	"github.com/kurihiro0119/ops-task-report/internal/storage/postgres"
	"github.com/kurihiro0119/ops-task-report/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logger.Named("api")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize storage
	var store storage.Storage
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.PostgresURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize PostgreSQL storage")
		}
	case "sqlite":
		store, err = sqlite.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize SQLite storage")
		}
	default:
		log.Fatal().Str("storage_type", cfg.StorageType).Msg("the API server needs STORAGE_TYPE sqlite or postgres")
	}
	defer store.Close()

	gin.SetMode(gin.ReleaseMode)

	agg := aggregator.NewAggregator(store, nil)
	handler := api.NewHandler(agg, nil)
	router := api.SetupRoutes(handler)

	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Info().Str("addr", addr).Str("storage", cfg.StorageType).Msg("starting API server")

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
