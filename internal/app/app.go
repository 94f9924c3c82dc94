// Package app wires the store, registry, token manager and services together.
package app

import (
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	"ctchen222/Prompt-Benchmark/internal/api/repository"
	"ctchen222/Prompt-Benchmark/internal/api/service"
	"ctchen222/Prompt-Benchmark/internal/auth"
	"ctchen222/Prompt-Benchmark/internal/config"
	"ctchen222/Prompt-Benchmark/internal/events"
	"ctchen222/Prompt-Benchmark/internal/registry"
	"ctchen222/Prompt-Benchmark/internal/scoring"
	"ctchen222/Prompt-Benchmark/internal/server"
)

type App struct {
	Registry *registry.Registry
	Tokens   *auth.TokenManager
	Server   *server.Server
}

type options struct {
	registry *registry.Registry
}

// Option customizes New.
type Option func(*options)

// WithRegistry replaces the default echo/reverse registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// New builds the application on an initialized database. rdb may be nil, in
// which case evaluation events are dropped.
func New(cfg *config.Config, db *sqlx.DB, rdb *redis.Client, opts ...Option) (*App, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	reg := o.registry
	if reg == nil {
		reg = registry.Default()
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	var publisher events.Publisher = events.NopPublisher{}
	if rdb != nil {
		publisher = events.NewRedisPublisher(rdb)
	}

	userService := service.NewUserService(repository.NewUserRepository(db), tokens, cfg.Auth.AllowAdminRegistration)
	evaluationService, err := service.NewEvaluationService(reg, scoring.Length, repository.NewEvaluationRepository(db), publisher)
	if err != nil {
		return nil, err
	}
	modelConfigService := service.NewModelConfigService(repository.NewModelConfigRepository(db), reg.Types())

	srv := server.NewServer(server.Deps{
		Users:              userService,
		Evaluations:        evaluationService,
		ModelConfigs:       modelConfigService,
		Store:              db,
		StrictEvaluateAuth: cfg.Server.StrictEvaluateAuth,
	})

	return &App{
		Registry: reg,
		Tokens:   tokens,
		Server:   srv,
	}, nil
}
