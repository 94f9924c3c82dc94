package testutil

import (
	"time"

	"ctchen222/Prompt-Benchmark/internal/config"
)

// Config returns a configuration suitable for in-process HTTP tests.
func Config() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Address:         ":0",
			GinMode:         "test",
			ShutdownTimeout: time.Second,
		},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
		Auth: config.AuthConfig{
			JWTSecret:              "test-secret",
			Issuer:                 "prompt-benchmark",
			TokenTTL:               time.Hour,
			AllowAdminRegistration: true,
		},
		Log: config.LogConfig{Level: "error"},
	}
}
