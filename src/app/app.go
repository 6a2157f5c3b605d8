// Package app wires the service graph: storage, provider client, tool
// registry, turn service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/aisdk"
	"github.com/vybelabs/vybe/src/config"
	"github.com/vybelabs/vybe/src/executor"
	"github.com/vybelabs/vybe/src/llmclient"
	"github.com/vybelabs/vybe/src/storage"
	"github.com/vybelabs/vybe/src/vybeagent"
	"github.com/vybelabs/vybe/src/vybeagent/toolsutil"
)

// App holds the assembled services.
type App struct {
	Provider *llmclient.Client
	Store    *storage.DB
	Registry *agent.Registry
	Service  *executor.Service
	Logger   *slog.Logger
	Config   *config.Config
}

// New assembles the application from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	toolsutil.SetLogger(logger)

	dbPath := cfg.Database.Path
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	provider := llmclient.NewClient(aisdk.ClientConfig{
		APIKey:     cfg.API.APIKey,
		BaseURL:    cfg.API.BaseURL,
		RetryCount: cfg.API.RetryCount,
		Logger:     logger,
	})

	// Swapper stays nil here: swap execution needs client-side transaction
	// signing, so the serve registry omits swapTokens.
	registry, err := vybeagent.DefaultRegistry(vybeagent.Config{
		HeliusRPCURL: cfg.Tools.HeliusRPCURL,
		CodexAPIKey:  cfg.Tools.CodexAPIKey,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	service := executor.NewService(executor.ServiceConfig{
		Database:     store.DB(),
		Provider:     provider,
		Model:        cfg.Agent.Model,
		Registry:     registry,
		SystemPrompt: vybeagent.DefaultSystemPrompt,
		MaxSteps:     cfg.Agent.MaxSteps,
		TurnTimeout:  cfg.Agent.TurnTimeout,
		Logger:       logger,
	})

	return &App{
		Provider: provider,
		Store:    store,
		Registry: registry,
		Service:  service,
		Logger:   logger,
		Config:   cfg,
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
