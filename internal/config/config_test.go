package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HTTP_ADDR", "GIN_MODE", "DB_DRIVER", "DB_DSN", "JWT_SECRET", "JWT_ISSUER",
		"TOKEN_TTL", "ALLOW_ADMIN_REGISTRATION", "EVALUATE_STRICT_AUTH", "REDIS_CONNSTRING",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME", "LOG_LEVEL", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadWithDefaults()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.False(t, cfg.Server.StrictEvaluateAuth)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "./app.db", cfg.Database.DSN)
	assert.Equal(t, devJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, "prompt-benchmark", cfg.Auth.Issuer)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.AllowAdminRegistration)
	assert.Empty(t, cfg.Redis.Address)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_RequiresSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://bench@localhost/bench?sslmode=disable")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("ALLOW_ADMIN_REGISTRATION", "false")
	t.Setenv("EVALUATE_STRICT_AUTH", "true")
	t.Setenv("REDIS_CONNSTRING", "localhost:6379")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.AllowAdminRegistration)
	assert.True(t, cfg.Server.StrictEvaluateAuth)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"unknown driver", "DB_DRIVER", "mysql", "Driver must be one of"},
		{"bad duration", "TOKEN_TTL", "soon", "invalid duration for TOKEN_TTL"},
		{"negative ttl", "TOKEN_TTL", "-1m", "TokenTTL failed on gt"},
		{"bad bool", "OTEL_ENABLED", "maybe", "invalid boolean for OTEL_ENABLED"},
		{"bad log level", "LOG_LEVEL", "loud", "Level must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadWithDefaults()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestString_MasksSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "super-secret-value")

	cfg, err := Load()
	require.NoError(t, err)

	s := cfg.String()
	assert.NotContains(t, s, "super-secret-value")
	assert.Contains(t, s, "masked")
}
