package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"ctchen222/Prompt-Benchmark/internal/api/models"
)

type ModelConfigRepository interface {
	List(ctx context.Context) ([]models.ModelConfig, error)
	GetByID(ctx context.Context, id int64) (*models.ModelConfig, error)
	Create(ctx context.Context, mc *models.ModelConfig) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type sqlModelConfigRepository struct {
	db *sqlx.DB
}

func NewModelConfigRepository(db *sqlx.DB) ModelConfigRepository {
	return &sqlModelConfigRepository{db: db}
}

// List returns all model configs ordered by id.
func (r *sqlModelConfigRepository) List(ctx context.Context) ([]models.ModelConfig, error) {
	ctx, span := tracer.Start(ctx, "ModelConfigRepository.List")
	defer span.End()

	configs := []models.ModelConfig{}
	if err := r.db.SelectContext(ctx, &configs, `SELECT id, name, type FROM model_configs ORDER BY id`); err != nil {
		recordError(span, err, "select model configs failed")
		return nil, fmt.Errorf("failed to list model configs: %w", err)
	}
	span.SetAttributes(attribute.Int("model_configs.count", len(configs)))
	return configs, nil
}

// GetByID returns the config with id, or (nil, nil) when there is none.
func (r *sqlModelConfigRepository) GetByID(ctx context.Context, id int64) (*models.ModelConfig, error) {
	ctx, span := tracer.Start(ctx, "ModelConfigRepository.GetByID")
	defer span.End()
	span.SetAttributes(attribute.Int64("model_config.id", id))

	var mc models.ModelConfig
	err := r.db.GetContext(ctx, &mc, r.db.Rebind(`SELECT id, name, type FROM model_configs WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		recordError(span, err, "select model config failed")
		return nil, fmt.Errorf("failed to get model config %d: %w", id, err)
	}
	return &mc, nil
}

func (r *sqlModelConfigRepository) Create(ctx context.Context, mc *models.ModelConfig) error {
	ctx, span := tracer.Start(ctx, "ModelConfigRepository.Create")
	defer span.End()

	query := r.db.Rebind(`INSERT INTO model_configs (name, type) VALUES (?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query, mc.Name, mc.Type).Scan(&mc.ID); err != nil {
		recordError(span, err, "insert model config failed")
		return fmt.Errorf("failed to create model config: %w", err)
	}
	span.SetAttributes(attribute.Int64("model_config.id", mc.ID))
	return nil
}

// Delete removes the config with id and reports whether a row was deleted.
func (r *sqlModelConfigRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, span := tracer.Start(ctx, "ModelConfigRepository.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("model_config.id", id))

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM model_configs WHERE id = ?`), id)
	if err != nil {
		recordError(span, err, "delete model config failed")
		return false, fmt.Errorf("failed to delete model config %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}
