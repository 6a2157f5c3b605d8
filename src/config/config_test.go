package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, NewValidator().Validate(cfg))

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://api.openai.com/v1", cfg.API.BaseURL)
	assert.Equal(t, 15, cfg.Agent.MaxSteps)
	assert.Equal(t, 30*time.Second, cfg.Agent.TurnTimeout)
}

func writeConfigFile(t *testing.T, dir, name string, cfg map[string]any) string {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadMergesFiles(t *testing.T) {
	dir := t.TempDir()
	userPath := writeConfigFile(t, dir, "user.json", map[string]any{
		"server": map[string]any{"addr": ":9000", "jwt_secret": "user-secret"},
		"agent":  map[string]any{"model": "gpt-4o-mini"},
	})
	localPath := writeConfigFile(t, dir, "local.json", map[string]any{
		"server": map[string]any{"addr": ":9001"},
	})

	loader := NewLoader(ConfigPrecedence{
		UserConfig:  userPath,
		LocalConfig: localPath,
	})
	cfg, err := loader.Load()
	require.NoError(t, err)

	// Local overrides user, but unset fields fall through.
	assert.Equal(t, ":9001", cfg.Server.Addr)
	assert.Equal(t, "user-secret", cfg.Server.JWTSecret)
	assert.Equal(t, "gpt-4o-mini", cfg.Agent.Model)
	// Defaults survive where nothing overrides them.
	assert.Equal(t, "https://api.openai.com/v1", cfg.API.BaseURL)
}

func TestLoadMissingFilesAreIgnored(t *testing.T) {
	loader := NewLoader(ConfigPrecedence{
		UserConfig: filepath.Join(t.TempDir(), "missing.json"),
	})
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Addr, cfg.Server.Addr)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	loader := NewLoader(ConfigPrecedence{UserConfig: path})
	_, err := loader.Load()
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("VYBE_MODEL", "gpt-4.1")
	t.Setenv("VYBE_ADDR", ":7777")
	t.Setenv("VYBE_API_KEY", "env-key")
	t.Setenv("HELIUS_RPC_URL", "https://rpc.example.com")

	loader := NewLoader(ConfigPrecedence{EnvironmentPrefix: "VYBE"})
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", cfg.Agent.Model)
	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, "env-key", cfg.API.APIKey)
	assert.Equal(t, "https://rpc.example.com", cfg.Tools.HeliusRPCURL)
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	err := NewValidator().Validate(cfg)
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Level", verr.Field)
}

func TestSaveFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":6060"

	loader := NewLoader(ConfigPrecedence{})
	require.NoError(t, loader.SaveFile(cfg, path))

	loaded := NewLoader(ConfigPrecedence{UserConfig: path})
	got, err := loaded.Load()
	require.NoError(t, err)
	assert.Equal(t, ":6060", got.Server.Addr)
}
