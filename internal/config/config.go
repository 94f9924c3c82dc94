package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ctchen222/Prompt-Benchmark/internal/validator"
)

const devJWTSecret = "dev-secret-change-me"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address         string        `validate:"required"`
	GinMode         string        `validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
	// StrictEvaluateAuth rejects invalid bearer tokens on /api/evaluate
	// instead of treating the caller as anonymous.
	StrictEvaluateAuth bool
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Driver string `validate:"oneof=sqlite postgres"`
	DSN    string `validate:"required"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret              string
	Issuer                 string
	TokenTTL               time.Duration `validate:"gt=0"`
	AllowAdminRegistration bool
}

// RedisConfig contains the event bus connection. An empty address disables it.
type RedisConfig struct {
	Address string
}

// TelemetryConfig contains OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled        bool
	Endpoint       string `validate:"required_if=Enabled true"`
	ServiceName    string `validate:"required"`
	ServiceVersion string
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// Load loads configuration from environment variables with sensible defaults.
// JWT_SECRET must be set.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a development JWT secret when none is set.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load(devJWTSecret)
}

func load(defaultSecret string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address:            getEnv("HTTP_ADDR", ":8080"),
			GinMode:            getEnv("GIN_MODE", "release"),
			ShutdownTimeout:    5 * time.Second,
			StrictEvaluateAuth: false,
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", "./app.db"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("JWT_SECRET", defaultSecret),
			Issuer:                 getEnv("JWT_ISSUER", "prompt-benchmark"),
			TokenTTL:               30 * time.Minute,
			AllowAdminRegistration: true,
		},
		Redis: RedisConfig{
			Address: getEnv("REDIS_CONNSTRING", ""),
		},
		Telemetry: TelemetryConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317"),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "prompt-benchmark"),
			ServiceVersion: getEnv("SERVICE_VERSION", "v0.1.0"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	var err error
	if cfg.Server.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.Server.StrictEvaluateAuth, err = getEnvBool("EVALUATE_STRICT_AUTH", cfg.Server.StrictEvaluateAuth); err != nil {
		return nil, err
	}
	if cfg.Auth.TokenTTL, err = getEnvDuration("TOKEN_TTL", cfg.Auth.TokenTTL); err != nil {
		return nil, err
	}
	if cfg.Auth.AllowAdminRegistration, err = getEnvBool("ALLOW_ADMIN_REGISTRATION", cfg.Auth.AllowAdminRegistration); err != nil {
		return nil, err
	}
	if cfg.Telemetry.Enabled, err = getEnvBool("OTEL_ENABLED", false); err != nil {
		return nil, err
	}

	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %s", validator.Describe(err))
	}
	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{HTTP: %s, DB: %s, Auth: *** (masked) ***, TokenTTL: %s, Redis: %t, OTel: %t}",
		c.Server.Address, c.Database.Driver, c.Auth.TokenTTL, c.Redis.Address != "", c.Telemetry.Enabled)
}
