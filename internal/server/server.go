package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cooklog/backend/config"
	"github.com/cooklog/backend/internal/api"
	"github.com/cooklog/backend/internal/middleware"
	"github.com/cooklog/backend/internal/service"
)

// Server owns the gin engine and the underlying http.Server.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
}

// New builds the router, wires the API, and returns a server ready to
// Start. The blob store and rate limiter are optional; pass nil to run
// without uploads or limiting (useful in tests and local development).
func New(cfg *config.Config, db *gorm.DB, blobs service.BlobStore, limiter *middleware.RateLimiter) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.SetupAPI(router, db, cfg.JWTSecret, blobs, limiter)

	return &Server{
		cfg:    cfg,
		router: router,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
