package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/brokersim/backend/internal/api"
	"github.com/brokersim/backend/internal/config"
	"github.com/brokersim/backend/internal/database"
	"github.com/brokersim/backend/internal/quote"
	"github.com/brokersim/backend/internal/repository"
	"github.com/brokersim/backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	fundRepo := repository.NewFundRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	quoteClient := quote.NewFinanceClient()
	locks := service.NewUserLocks()

	// Create services
	systemService := service.NewSystemService(db)
	authService, err := service.NewAuthService(userRepo, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	fundService := service.NewFundService(fundRepo, userRepo, locks)
	orderService := service.NewOrderService(
		orderRepo,
		holdingRepo,
		positionRepo,
		fundRepo,
		fundService,
		quoteClient,
		locks,
		cfg,
	)
	holdingService := service.NewHoldingService(holdingRepo, quoteClient, cfg.Quote.Timeout)
	positionService := service.NewPositionService(positionRepo)

	// Scheduled holdings price refresh
	scheduler := cron.New()
	if cfg.Refresh.Enabled {
		_, err := scheduler.AddFunc(cfg.Refresh.Schedule, func() {
			updated, err := holdingService.RefreshPrices(context.Background())
			if err != nil {
				log.Printf("Scheduled price refresh failed: %v", err)
				return
			}
			log.Printf("Scheduled price refresh updated %d holdings", updated)
		})
		if err != nil {
			log.Fatalf("Failed to schedule price refresh: %v", err)
		}
		scheduler.Start()
		log.Printf("Price refresh scheduled: %s", cfg.Refresh.Schedule)
	}

	// Create router
	router := api.NewRouter(api.Services{
		Auth:     authService,
		Fund:     fundService,
		Order:    orderService,
		Holding:  holdingService,
		Position: positionService,
		System:   systemService,
		Quote:    quoteClient,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
