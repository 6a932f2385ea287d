package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ytbrief/config"
	"ytbrief/handlers/api"
	"ytbrief/logger"
	"ytbrief/repository/sqlite"
	"ytbrief/resolver/youtube"
	"ytbrief/services/batch"
	"ytbrief/services/summarize"
	"ytbrief/storage"
	"ytbrief/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Init(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := sqlite.InitDB(cfg.Database.Path, sqlite.DBConfig{
		MaxConnections:     cfg.Database.MaxConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repo, err := sqlite.NewRepository(db)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}

	resolver, err := youtube.NewResolver(context.Background(), cfg.YouTube.APIKey)
	if err != nil {
		log.Fatalf("Failed to initialize resolver: %v", err)
	}

	engine := summarize.NewOpenAI(cfg.Summarize.APIKey, cfg.Summarize.Model)
	summarizer := summarize.NewService(engine, summarize.Config{
		RetryAttempts:  cfg.Summarize.RetryAttempts,
		BackoffBase:    cfg.Summarize.BackoffBase,
		RequestTimeout: cfg.Summarize.RequestTimeout,
		RequestsPerSec: cfg.Summarize.RequestsPerSec,
		Burst:          cfg.Summarize.Burst,
		MinWords:       cfg.Summarize.MinWords,
	})

	var exporter batch.Exporter
	if cfg.Export.Enabled {
		spaces, err := storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: cfg.Export.AccessKey,
			SecretKey: cfg.Export.SecretKey,
			Region:    cfg.Export.Region,
			Endpoint:  cfg.Export.Endpoint,
			Bucket:    cfg.Export.Bucket,
		})
		if err != nil {
			log.Fatalf("Failed to initialize export storage: %v", err)
		}
		exporter = spaces
	}

	batchService := batch.NewService(
		validation.NewValidator(),
		resolver,
		repo,
		repo,
		summarizer,
		exporter,
		batch.Config{
			MaxConcurrent: cfg.Batch.MaxConcurrent,
			ItemTimeout:   cfg.Batch.ItemTimeout,
			DailyLimit:    cfg.Quota.DailyLimit,
		},
	)

	server := api.NewServer(cfg,
		api.WithServices(batchService, repo),
		api.WithLogger(appLogger),
	)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := db.Close(); err != nil {
			log.Printf("Database shutdown error: %v", err)
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
