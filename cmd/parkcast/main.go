package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/parkcast/parkcast/internal/api/http"
	"github.com/parkcast/parkcast/internal/config"
	"github.com/parkcast/parkcast/internal/forecast"
	"github.com/parkcast/parkcast/internal/forecast/openmeteo"
	"github.com/parkcast/parkcast/internal/scheduler"
	"github.com/parkcast/parkcast/internal/store"
)

func main() {
	// Load configuration (also loads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory table cache with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxDates, cfg.StoreMaxAge)

	// Open-Meteo forecast provider with circuit breaker and the
	// configured retry budget.
	provider := openmeteo.NewClient(httpClient, cfg.ForecastBaseURL, cfg.MaxRetries)

	// Core service orchestrating aggregation and the cache.
	service := forecast.NewService(memStore, provider, cfg.Parks, forecast.Options{
		SkipFailed:  cfg.SkipFailed,
		Concurrency: cfg.Concurrency,
	})

	// Scheduler that keeps the next few days' tables warm.
	sched := scheduler.New(service, cfg.FetchInterval, cfg.RefreshDays)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "parkcast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "parkcast",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
