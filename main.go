package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookmoth/bookmoth/internal/config"
	"github.com/bookmoth/bookmoth/internal/database"
	"github.com/bookmoth/bookmoth/internal/database/editions"
	"github.com/bookmoth/bookmoth/internal/database/imports"
	"github.com/bookmoth/bookmoth/internal/database/notifications"
	"github.com/bookmoth/bookmoth/internal/database/reviews"
	"github.com/bookmoth/bookmoth/internal/database/shelves"
	"github.com/bookmoth/bookmoth/internal/database/users"
	"github.com/bookmoth/bookmoth/internal/federation"
	"github.com/bookmoth/bookmoth/internal/importer"
	"github.com/bookmoth/bookmoth/internal/resolver"
	"github.com/bookmoth/bookmoth/internal/scheduler"
	"github.com/bookmoth/bookmoth/internal/tasks"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cfg := config.NewConfig()
	log.Printf("Starting bookmoth import worker %s (%s)", Version, Commit)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	importRepo := imports.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	editionRepo := editions.NewRepository(db.DB)
	shelfRepo := shelves.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)
	notificationRepo := notifications.NewRepository(db.DB)

	broadcaster := federation.LogBroadcaster{}
	reconciler := importer.NewReconciler(importRepo, editionRepo, shelfRepo, reviewRepo, broadcaster)
	runner := importer.NewRunner(importRepo, userRepo, resolver.NewLocalResolver(editionRepo), reconciler, notificationRepo)

	taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	})
	if err != nil {
		log.Fatalf("Failed to initialize task queue: %v", err)
	}
	defer taskClient.Close()

	taskClient.Register(tasks.NewImportBatchQueue(runner))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Tasks.Enabled {
		go taskClient.Start(ctx)
	}

	cleanup := scheduler.NewBatchCleanupScheduler(importRepo, scheduler.CleanupConfig{
		Enabled:   cfg.Cleanup.Enabled,
		Schedule:  cfg.Cleanup.Schedule,
		Retention: cfg.Cleanup.Retention,
	})
	if err := cleanup.Start(); err != nil {
		log.Fatalf("Failed to start batch cleanup scheduler: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	cleanup.Stop()

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	stopCtx, stopCancel := context.WithTimeout(context.Background(), timeout)
	defer stopCancel()
	taskClient.Stop(stopCtx)
}
