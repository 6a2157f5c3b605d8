package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/vybelabs/vybe/src/app"
	"github.com/vybelabs/vybe/src/server"
)

// ServeCmd runs the HTTP server until interrupted.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides config)"`
}

func (s *ServeCmd) Run(ctx *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if cfg.Server.JWTSecret == "" {
		return fmt.Errorf("server.jwt_secret is required (set VYBE_JWT_SECRET)")
	}

	logger := createLogger(cfg, cli.LogLevel)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(runCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	srv, err := server.New(server.Config{
		Addr:           cfg.Server.Addr,
		JWTSecret:      cfg.Server.JWTSecret,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Service:        application.Service,
		Database:       application.Store.DB(),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	return srv.Run(runCtx)
}
