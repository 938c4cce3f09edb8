package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codyseavey/pokemarket/internal/api"
	"github.com/codyseavey/pokemarket/internal/config"
	"github.com/codyseavey/pokemarket/internal/database"
	"github.com/codyseavey/pokemarket/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tables, err := config.LoadTables(cfg.RarityTablePath)
	if err != nil {
		log.Fatalf("Failed to load rarity tables: %v", err)
	}

	// Initialize database
	if err := database.Initialize(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	// Initialize services
	pokeAPI := services.NewPokeAPIService(cfg.PokeAPIBaseURL, cfg.PokeAPIRateLimit, cfg.PokeAPICacheSize)
	clock := services.RealClock{}
	notifier := services.NewNotifier(cfg.NotificationTTL, clock)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := services.NewGameStore(ctx, services.GameStoreConfig{
		Repo:          database.NewSaveRepository(db, cfg.SaveKey),
		Provider:      pokeAPI,
		Notifier:      notifier,
		Tables:        &tables,
		Clock:         clock,
		InitialTokens: cfg.InitialTokens,
	})
	if err != nil {
		log.Fatalf("Failed to initialize game store: %v", err)
	}

	marketWorker := services.NewMarketWorker(store, cfg.MarketInterval, cfg.AuctionInterval)

	// Initialize snapshot service for daily portfolio tracking
	snapshotService := services.NewSnapshotService(db, store, cfg.SnapshotInterval)

	// Start market worker in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in market worker: %v - restarting in 30 seconds", r)
					}
				}()
				marketWorker.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Market worker restarting after panic recovery...")
			}
		}
	}()

	// Start snapshot service in background
	go snapshotService.Start(ctx)

	// Setup router
	router := api.SetupRouter(api.RouterConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		FrontendDistPath: cfg.FrontendDistPath,
	}, store, marketWorker, snapshotService)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the background workers
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
