package service

import (
	"context"
	"log/slog"

	"ctchen222/Prompt-Benchmark/internal/api/models"
	"ctchen222/Prompt-Benchmark/internal/api/repository"
	"ctchen222/Prompt-Benchmark/internal/apperror"
	"ctchen222/Prompt-Benchmark/internal/validator"
)

type ModelConfigService interface {
	List(ctx context.Context) ([]models.ModelConfig, error)
	Get(ctx context.Context, id int64) (*models.ModelConfig, error)
	Create(ctx context.Context, req *models.CreateModelConfigRequest) (*models.ModelConfig, error)
	Delete(ctx context.Context, id int64) error
}

type modelConfigService struct {
	repo  repository.ModelConfigRepository
	types []string
}

// NewModelConfigService creates a service that only accepts configs whose
// type is one of types.
func NewModelConfigService(repo repository.ModelConfigRepository, types []string) ModelConfigService {
	return &modelConfigService{repo: repo, types: types}
}

func (s *modelConfigService) List(ctx context.Context) ([]models.ModelConfig, error) {
	return s.repo.List(ctx)
}

func (s *modelConfigService) Get(ctx context.Context, id int64) (*models.ModelConfig, error) {
	mc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mc == nil {
		return nil, apperror.NotFound("model config")
	}
	return mc, nil
}

func (s *modelConfigService) Create(ctx context.Context, req *models.CreateModelConfigRequest) (*models.ModelConfig, error) {
	ctx, span := tracer.Start(ctx, "ModelConfigService.Create")
	defer span.End()

	if err := validator.OneOf(req.Type, s.types); err != nil {
		return nil, apperror.InvalidInput("unknown model type " + req.Type)
	}

	mc := &models.ModelConfig{Name: req.Name, Type: req.Type}
	if err := s.repo.Create(ctx, mc); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Model config created", "model_config.id", mc.ID, "model_config.type", mc.Type)
	return mc, nil
}

func (s *modelConfigService) Delete(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "ModelConfigService.Delete")
	defer span.End()

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("model config")
	}
	slog.InfoContext(ctx, "Model config deleted", "model_config.id", id)
	return nil
}
