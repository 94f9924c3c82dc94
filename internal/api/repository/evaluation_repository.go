package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"ctchen222/Prompt-Benchmark/internal/api/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks ctchen222/Prompt-Benchmark/internal/api/repository UserRepository,ModelConfigRepository,EvaluationRepository

type EvaluationRepository interface {
	// CreateBatch inserts all evaluations in one transaction and sets their IDs.
	CreateBatch(ctx context.Context, evals []*models.Evaluation) error
	ListByUser(ctx context.Context, userID int64) ([]models.Evaluation, error)
}

type sqlEvaluationRepository struct {
	db *sqlx.DB
}

func NewEvaluationRepository(db *sqlx.DB) EvaluationRepository {
	return &sqlEvaluationRepository{db: db}
}

func (r *sqlEvaluationRepository) CreateBatch(ctx context.Context, evals []*models.Evaluation) error {
	ctx, span := tracer.Start(ctx, "EvaluationRepository.CreateBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("evaluations.count", len(evals)))

	if len(evals) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		recordError(span, err, "begin failed")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`INSERT INTO evaluations (user_id, prompt, model, response, score) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	ids := make([]int64, len(evals))
	for i, e := range evals {
		if err := tx.QueryRowxContext(ctx, query, e.UserID, e.Prompt, e.Model, e.Response, e.Score).Scan(&ids[i]); err != nil {
			recordError(span, err, "insert evaluation failed")
			return fmt.Errorf("failed to insert evaluation for %s: %w", e.Model, err)
		}
	}

	if err := tx.Commit(); err != nil {
		recordError(span, err, "commit failed")
		return fmt.Errorf("failed to commit evaluations: %w", err)
	}

	for i, e := range evals {
		e.ID = ids[i]
	}
	return nil
}

// ListByUser returns the evaluations recorded for userID, oldest first.
func (r *sqlEvaluationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Evaluation, error) {
	ctx, span := tracer.Start(ctx, "EvaluationRepository.ListByUser")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", userID))

	evals := []models.Evaluation{}
	query := r.db.Rebind(`SELECT id, user_id, prompt, model, response, score FROM evaluations WHERE user_id = ? ORDER BY id`)
	if err := r.db.SelectContext(ctx, &evals, query, userID); err != nil {
		recordError(span, err, "select evaluations failed")
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}
