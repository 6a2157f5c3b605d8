package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// DefaultConfig returns the built-in configuration. File and environment
// overrides are merged on top of it.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		API: APIConfig{
			BaseURL:    "https://api.openai.com/v1",
			Timeout:    60 * time.Second,
			RetryCount: 3,
		},
		Agent: AgentConfig{
			Model:       "gpt-4o",
			MaxSteps:    15,
			TurnTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(xdg.DataHome, "vybe", "vybe.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
