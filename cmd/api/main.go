package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cooklog/backend/config"
	"github.com/cooklog/backend/internal/database"
	"github.com/cooklog/backend/internal/middleware"
	"github.com/cooklog/backend/internal/server"
	"github.com/cooklog/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs the rate limiter. Running without it is fine for
	// local development.
	var limiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	} else {
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window: time.Minute,
			Limit:  cfg.RateLimitPerMinute,
		})
	}

	// S3 backs image and PDF uploads. Without it those endpoints
	// return errors but the rest of the API works.
	var blobs service.BlobStore
	if s3Config, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 unavailable, uploads disabled: %v", err)
	} else {
		blobs = service.NewS3Storage(s3Config)
	}

	srv := server.New(cfg, db, blobs, limiter)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
