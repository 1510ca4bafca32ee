package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-testgen/internal/config"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "MODE", "HTTP_ADDR", "HTTP_REQUEST_TIMEOUT", "DB_DRIVER", "DB_DSN",
		"JWT_SECRET", "JWT_EXPIRES_IN", "AI_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"AI_MODELS", "CORS_ORIGINS", "STATIC_DIR", "DEFAULT_ADMIN_EMAIL", "DEFAULT_ADMIN_PASSWORD",
	} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, config.ModeOffline, cfg.Mode)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, 120*time.Second, cfg.Timeout)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiresIn)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Empty(t, cfg.AIModels)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5000"}, cfg.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_PROVIDER", " OpenAI ")
	t.Setenv("OPENAI_API_KEY", " sk-123 ")
	t.Setenv("GEMINI_API_KEY", "g-456")
	t.Setenv("AI_MODELS", "gpt-4o, gpt-4o-mini ,,")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("HTTP_ADDR", ":8080")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, "sk-123", cfg.APIKey())
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, cfg.AIModels)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiresIn)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestOnlineModeNeedsSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODE", "online")
	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrMissingSecret)

	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
}
