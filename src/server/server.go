// Package server exposes the chat pipeline over HTTP: an SSE streaming turn
// endpoint plus conversation management, behind JWT bearer auth.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vybelabs/vybe/src/executor"
)

const shutdownTimeout = 10 * time.Second

// Config holds the server's dependencies.
type Config struct {
	Addr           string
	JWTSecret      string
	AllowedOrigins []string
	Service        *executor.Service
	Database       *sql.DB
	Logger         *slog.Logger
}

// Server is the HTTP front of the chat pipeline.
type Server struct {
	addr   string
	engine *gin.Engine
	logger *slog.Logger
}

type handlers struct {
	service  *executor.Service
	database *sql.DB
	logger   *slog.Logger
}

// New builds the router and wires the handlers.
func New(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, fmt.Errorf("turn service is required")
	}
	if cfg.Database == nil {
		return nil, fmt.Errorf("database is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	h := &handlers{service: cfg.Service, database: cfg.Database, logger: cfg.Logger}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	engine.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.Use(requireAuth(cfg.JWTSecret))
	{
		api.POST("/chat", h.handleChat)
		api.DELETE("/chat", h.handleDeleteChat)
		api.GET("/conversations", h.handleListConversations)
		api.GET("/conversations/:id/messages", h.handleGetMessages)
		api.PATCH("/conversations/:id", h.handleRenameConversation)
	}

	return &Server{addr: cfg.Addr, engine: engine, logger: cfg.Logger}, nil
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{Addr: s.addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
