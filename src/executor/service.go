// Package executor runs conversation turns: it streams model completions,
// dispatches tool calls against the registry, repairs malformed calls, and
// persists the sanitized outcome.
package executor

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/vybelabs/vybe/src/agent"
	"github.com/vybelabs/vybe/src/aisdk"
)

const (
	// DefaultMaxSteps bounds model round-trips within a single turn.
	DefaultMaxSteps = 15

	// DefaultTurnTimeout bounds the wall clock of a single turn.
	DefaultTurnTimeout = 30 * time.Second
)

// Service executes conversation turns with all necessary dependencies.
type Service struct {
	database     *sql.DB
	provider     aisdk.Provider
	model        string
	registry     *agent.Registry
	systemPrompt string
	maxSteps     int
	turnTimeout  time.Duration
	logger       *slog.Logger
}

// ServiceConfig holds configuration for creating a new Service.
type ServiceConfig struct {
	Database     *sql.DB
	Provider     aisdk.Provider
	Model        string
	Registry     *agent.Registry
	SystemPrompt string
	MaxSteps     int
	TurnTimeout  time.Duration
	Logger       *slog.Logger
}

// NewService creates a new turn service.
func NewService(config ServiceConfig) *Service {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = DefaultMaxSteps
	}
	if config.TurnTimeout <= 0 {
		config.TurnTimeout = DefaultTurnTimeout
	}
	if config.Registry == nil {
		config.Registry = agent.NewRegistry()
	}

	return &Service{
		database:     config.Database,
		provider:     config.Provider,
		model:        config.Model,
		registry:     config.Registry,
		systemPrompt: config.SystemPrompt,
		maxSteps:     config.MaxSteps,
		turnTimeout:  config.TurnTimeout,
		logger:       config.Logger,
	}
}

// Registry returns the tool registry the service dispatches against.
func (s *Service) Registry() *agent.Registry {
	return s.registry
}
