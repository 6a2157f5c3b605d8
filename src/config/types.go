// Package config loads and validates the service configuration from JSON
// files and environment variables.
package config

import "time"

// Config is the complete configuration for vybe.
type Config struct {
	// Version of the configuration format
	Version string `json:"version"`

	// Server holds the HTTP listener settings
	Server ServerConfig `json:"server"`

	// API configures the chat-completion provider
	API APIConfig `json:"api"`

	// Agent holds turn-execution settings
	Agent AgentConfig `json:"agent"`

	// Database holds storage settings
	Database DatabaseConfig `json:"database"`

	// Tools configures external data sources for the agent tools
	Tools ToolsConfig `json:"tools"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig defines the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address, host:port
	Addr string `json:"addr"`

	// JWTSecret signs and verifies bearer tokens
	JWTSecret string `json:"jwt_secret"`

	// AllowedOrigins for CORS
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// APIConfig defines the model provider connection.
type APIConfig struct {
	// BaseURL of the chat completions API
	BaseURL string `json:"base_url" validate:"omitempty,url"`

	// APIKey for the provider. Usually supplied via environment.
	APIKey string `json:"api_key,omitempty"`

	// Timeout for non-streaming requests
	Timeout time.Duration `json:"timeout,omitempty"`

	// RetryCount is the number of attempts for retryable failures
	RetryCount int `json:"retry_count,omitempty" validate:"min=0,max=10"`
}

// AgentConfig defines turn execution settings.
type AgentConfig struct {
	// Model is the chat model identifier
	Model string `json:"model"`

	// MaxSteps caps model steps per turn
	MaxSteps int `json:"max_steps,omitempty" validate:"min=0,max=50"`

	// TurnTimeout bounds a whole turn including tool execution
	TurnTimeout time.Duration `json:"turn_timeout,omitempty"`
}

// DatabaseConfig defines storage settings.
type DatabaseConfig struct {
	// Path to the sqlite database file
	Path string `json:"path"`
}

// ToolsConfig holds credentials and endpoints for the agent tools.
type ToolsConfig struct {
	// HeliusRPCURL is a Solana RPC endpoint with DAS support
	HeliusRPCURL string `json:"helius_rpc_url,omitempty" validate:"omitempty,url"`

	// CodexAPIKey authorizes the trending-token GraphQL API
	CodexAPIKey string `json:"codex_api_key,omitempty"`
}

// LoggingConfig defines logging output.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" validate:"omitempty,log_level"`

	// Format is the output format (text, json)
	Format string `json:"format,omitempty" validate:"omitempty,log_format"`
}

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	SourceSystem  ConfigSource = "system"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceLocal   ConfigSource = "local"
)

// ConfigPrecedence lists the file paths checked in merge order, lowest
// precedence first.
type ConfigPrecedence struct {
	SystemConfig      string
	UserConfig        string
	ProjectConfig     string
	LocalConfig       string
	EnvironmentPrefix string
}

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e ValidationError) Error() string {
	return "config field " + e.Field + ": " + e.Message
}
