package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnpath/internal/ai"
	"learnpath/internal/api"
	"learnpath/internal/cache"
	"learnpath/internal/curator"
	"learnpath/internal/quota"
	"learnpath/internal/storage/postgres"
	"learnpath/internal/youtube"
	"learnpath/shared/config"
	"learnpath/shared/monitoring"
	"learnpath/shared/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := postgres.Open(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database ready")

	tracker, err := quota.NewTracker(store)
	if err != nil {
		log.Fatalf("Failed to create quota tracker: %v", err)
	}

	resultCache := cache.New(time.Duration(cfg.Cache.TTLMinutes)*time.Minute, cfg.Cache.MaxEntries)

	fetcher, err := youtube.NewClient(ctx, cfg, tracker, resultCache)
	if err != nil {
		log.Fatalf("Failed to create YouTube client: %v", err)
	}
	log.Printf("YouTube client initialized (%d API keys)", len(cfg.YouTube.APIKeys))

	analyzer, err := ai.NewAnalyzer(ctx, &cfg.AI)
	if err != nil {
		log.Fatalf("Failed to create AI analyzer: %v", err)
	}
	if cfg.AI.GeminiAPIKey == "" {
		log.Println("No Gemini API key configured, using deterministic scoring fallbacks")
	}

	pipeline := curator.NewPipeline(fetcher, analyzer, store, &cfg.Pipeline)
	monitor := monitoring.NewMonitor()
	router := api.NewRouter(pipeline, store, monitor)

	maintenance := scheduler.New(resultCache, store, cfg.Maintenance.QuotaRetentionDays)
	if err := maintenance.Start(ctx, cfg.Maintenance.Schedule); err != nil {
		log.Fatalf("Failed to start maintenance scheduler: %v", err)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // AI calls make search requests slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
