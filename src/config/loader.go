package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// Loader handles loading and merging configurations from multiple sources.
type Loader struct {
	precedence ConfigPrecedence
	validator  *Validator
}

// NewLoader creates a new configuration loader.
func NewLoader(precedence ConfigPrecedence) *Loader {
	return &Loader{
		precedence: precedence,
		validator:  NewValidator(),
	}
}

// Load loads configuration from all sources and merges them, lowest
// precedence first, with environment variables applied last.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	sources := []struct {
		path   string
		source ConfigSource
	}{
		{l.precedence.SystemConfig, SourceSystem},
		{l.precedence.UserConfig, SourceUser},
		{l.precedence.ProjectConfig, SourceProject},
		{l.precedence.LocalConfig, SourceLocal},
	}

	for _, src := range sources {
		if src.path == "" {
			continue
		}
		if cfg, err := l.loadFile(src.path); err == nil {
			config = mergeConfigs(config, cfg)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s config from %s: %w", src.source, src.path, err)
		}
	}

	if l.precedence.EnvironmentPrefix != "" {
		l.applyEnvironmentOverrides(config)
	}

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &config, nil
}

// SaveFile writes a validated configuration to a file.
func (l *Loader) SaveFile(config *Config, path string) error {
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// mergeConfigs merges two configurations with the second taking precedence.
// Zero values in the override leave the base value in place.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.JWTSecret != "" {
		result.Server.JWTSecret = override.Server.JWTSecret
	}
	if len(override.Server.AllowedOrigins) > 0 {
		result.Server.AllowedOrigins = override.Server.AllowedOrigins
	}

	if override.API.BaseURL != "" {
		result.API.BaseURL = override.API.BaseURL
	}
	if override.API.APIKey != "" {
		result.API.APIKey = override.API.APIKey
	}
	if override.API.Timeout != 0 {
		result.API.Timeout = override.API.Timeout
	}
	if override.API.RetryCount != 0 {
		result.API.RetryCount = override.API.RetryCount
	}

	if override.Agent.Model != "" {
		result.Agent.Model = override.Agent.Model
	}
	if override.Agent.MaxSteps != 0 {
		result.Agent.MaxSteps = override.Agent.MaxSteps
	}
	if override.Agent.TurnTimeout != 0 {
		result.Agent.TurnTimeout = override.Agent.TurnTimeout
	}

	if override.Database.Path != "" {
		result.Database.Path = override.Database.Path
	}

	if override.Tools.HeliusRPCURL != "" {
		result.Tools.HeliusRPCURL = override.Tools.HeliusRPCURL
	}
	if override.Tools.CodexAPIKey != "" {
		result.Tools.CodexAPIKey = override.Tools.CodexAPIKey
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvironmentOverrides applies environment variable overrides.
func (l *Loader) applyEnvironmentOverrides(config *Config) {
	prefix := l.precedence.EnvironmentPrefix

	if apiKey := os.Getenv(prefix + "_API_KEY"); apiKey != "" {
		config.API.APIKey = apiKey
	}
	// The provider's native variable works too.
	if config.API.APIKey == "" {
		if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			config.API.APIKey = apiKey
		}
	}

	if model := os.Getenv(prefix + "_MODEL"); model != "" {
		config.Agent.Model = model
	}
	if baseURL := os.Getenv(prefix + "_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if addr := os.Getenv(prefix + "_ADDR"); addr != "" {
		config.Server.Addr = addr
	}
	if secret := os.Getenv(prefix + "_JWT_SECRET"); secret != "" {
		config.Server.JWTSecret = secret
	}
	if path := os.Getenv(prefix + "_DB_PATH"); path != "" {
		config.Database.Path = path
	}
	if rpc := os.Getenv("HELIUS_RPC_URL"); rpc != "" {
		config.Tools.HeliusRPCURL = rpc
	}
	if key := os.Getenv("CODEX_API_KEY"); key != "" {
		config.Tools.CodexAPIKey = key
	}
	if timeout := os.Getenv(prefix + "_TURN_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Agent.TurnTimeout = d
		}
	}
}

// GetConfigPaths returns the configuration file paths to check.
func GetConfigPaths() ConfigPrecedence {
	userConfigPath := filepath.Join(xdg.ConfigHome, "vybe", "config.json")

	systemConfigPath := "/etc/vybe/config.json"
	if runtime.GOOS == "windows" {
		systemConfigPath = filepath.Join(os.Getenv("PROGRAMDATA"), "vybe", "config.json")
	}

	return ConfigPrecedence{
		SystemConfig:      systemConfigPath,
		UserConfig:        userConfigPath,
		ProjectConfig:     filepath.Join(".vybe", "config.json"),
		LocalConfig:       filepath.Join(".vybe", "config.local.json"),
		EnvironmentPrefix: "VYBE",
	}
}

// FindConfigFile searches for a configuration file in standard locations.
func FindConfigFile() (string, error) {
	paths := GetConfigPaths()

	checkPaths := []string{
		paths.LocalConfig,
		paths.ProjectConfig,
		paths.UserConfig,
		paths.SystemConfig,
	}
	for _, path := range checkPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no configuration file found")
}
