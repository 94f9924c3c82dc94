package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"ctchen222/Prompt-Benchmark/internal/api/models"
	"ctchen222/Prompt-Benchmark/internal/api/repository"
	"ctchen222/Prompt-Benchmark/internal/apperror"
	"ctchen222/Prompt-Benchmark/internal/events"
	"ctchen222/Prompt-Benchmark/internal/registry"
	"ctchen222/Prompt-Benchmark/internal/scoring"
)

type EvaluationService interface {
	// Evaluate runs every registered model on prompt. Results are stored
	// only when user is non-nil.
	Evaluate(ctx context.Context, prompt string, user *models.User) (*models.EvaluationOutcome, error)
	History(ctx context.Context, user *models.User) ([]models.Evaluation, error)
}

type evaluationService struct {
	models    *registry.Registry
	score     scoring.Func
	evalRepo  repository.EvaluationRepository
	publisher events.Publisher

	evaluations metric.Int64Counter
	scores      metric.Int64Histogram
}

func NewEvaluationService(reg *registry.Registry, score scoring.Func, evalRepo repository.EvaluationRepository, publisher events.Publisher) (EvaluationService, error) {
	if score == nil {
		score = scoring.Length
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	evaluations, err := meter.Int64Counter("benchmark.evaluations",
		metric.WithDescription("Model responses produced by evaluate calls"))
	if err != nil {
		return nil, err
	}
	scores, err := meter.Int64Histogram("benchmark.score",
		metric.WithDescription("Score of each model response"))
	if err != nil {
		return nil, err
	}

	return &evaluationService{
		models:      reg,
		score:       score,
		evalRepo:    evalRepo,
		publisher:   publisher,
		evaluations: evaluations,
		scores:      scores,
	}, nil
}

func (s *evaluationService) Evaluate(ctx context.Context, prompt string, user *models.User) (*models.EvaluationOutcome, error) {
	ctx, span := tracer.Start(ctx, "EvaluationService.Evaluate")
	defer span.End()

	results := make([]models.ModelResult, 0, s.models.Len())
	for _, m := range s.models.Models() {
		resp, err := m.Generate(prompt)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "model generation failed")
			return nil, apperror.ModelFailure(m.Name(), err)
		}
		results = append(results, models.ModelResult{
			Model:    m.Name(),
			Response: resp,
			Score:    s.score(resp),
		})
	}

	outcome := &models.EvaluationOutcome{Results: results}
	var userID *int64
	if user != nil {
		userID = &user.ID
		evals := make([]*models.Evaluation, len(results))
		for i, r := range results {
			evals[i] = &models.Evaluation{
				UserID:   userID,
				Prompt:   prompt,
				Model:    r.Model,
				Response: r.Response,
				Score:    r.Score,
			}
		}
		if err := s.evalRepo.CreateBatch(ctx, evals); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "persist evaluations failed")
			return nil, err
		}
		outcome.Persisted = true
		span.SetAttributes(attribute.Int64("user.id", user.ID))
	}

	s.record(ctx, outcome)
	s.publish(ctx, prompt, userID, outcome)
	return outcome, nil
}

func (s *evaluationService) History(ctx context.Context, user *models.User) ([]models.Evaluation, error) {
	if user == nil {
		return nil, apperror.Unauthorized("not authenticated")
	}
	return s.evalRepo.ListByUser(ctx, user.ID)
}

func (s *evaluationService) record(ctx context.Context, outcome *models.EvaluationOutcome) {
	for _, r := range outcome.Results {
		attrs := metric.WithAttributes(
			attribute.String("model.name", r.Model),
			attribute.Bool("persisted", outcome.Persisted),
		)
		s.evaluations.Add(ctx, 1, attrs)
		s.scores.Record(ctx, int64(r.Score), metric.WithAttributes(attribute.String("model.name", r.Model)))
	}
}

// publish is best effort; failures are logged and never reach the caller.
func (s *evaluationService) publish(ctx context.Context, prompt string, userID *int64, outcome *models.EvaluationOutcome) {
	scored := make([]events.ScoredModel, len(outcome.Results))
	for i, r := range outcome.Results {
		scored[i] = events.ScoredModel{Model: r.Model, Score: r.Score}
	}

	ev, err := events.NewEvent(events.EvaluationCompleted, events.EvaluationCompletedPayload{
		UserID:    userID,
		Prompt:    prompt,
		Persisted: outcome.Persisted,
		Results:   scored,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to publish evaluation event", "error", err)
	}
}
