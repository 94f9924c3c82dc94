package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ctchen222/Prompt-Benchmark/internal/api/models"
	"ctchen222/Prompt-Benchmark/internal/api/repository/mocks"
	"ctchen222/Prompt-Benchmark/internal/apperror"
	"ctchen222/Prompt-Benchmark/internal/events"
	"ctchen222/Prompt-Benchmark/internal/registry"
	"ctchen222/Prompt-Benchmark/internal/scoring"
)

type brokenModel struct{}

func (brokenModel) Name() string                    { return "broken-model" }
func (brokenModel) Generate(string) (string, error) { return "", errors.New("out of tokens") }

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func newEvaluationService(t *testing.T, reg *registry.Registry, repo *mocks.MockEvaluationRepository, pub events.Publisher) EvaluationService {
	t.Helper()
	svc, err := NewEvaluationService(reg, scoring.Length, repo, pub)
	require.NoError(t, err)
	return svc
}

func TestEvaluationService_Anonymous(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepository(ctrl)
	pub := &recordingPublisher{}

	outcome, err := newEvaluationService(t, registry.Default(), repo, pub).Evaluate(context.Background(), "hello", nil)
	require.NoError(t, err)

	assert.False(t, outcome.Persisted)
	assert.Equal(t, []models.ModelResult{
		{Model: "echo-model", Response: "Echo: hello", Score: 11},
		{Model: "reverse-model", Response: "Reverse: olleh", Score: 14},
	}, outcome.Results)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EvaluationCompleted, pub.events[0].Type)
	assert.NotContains(t, string(pub.events[0].Payload), "user_id")
}

func TestEvaluationService_PersistsForUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepository(ctrl)
	user := &models.User{ID: 5, Username: "dave"}

	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Len(2)).DoAndReturn(
		func(_ context.Context, evals []*models.Evaluation) error {
			for _, e := range evals {
				require.NotNil(t, e.UserID)
				assert.Equal(t, int64(5), *e.UserID)
				assert.Equal(t, "hi", e.Prompt)
			}
			assert.Equal(t, "echo-model", evals[0].Model)
			assert.Equal(t, "reverse-model", evals[1].Model)
			return nil
		})

	outcome, err := newEvaluationService(t, registry.Default(), repo, nil).Evaluate(context.Background(), "hi", user)
	require.NoError(t, err)
	assert.True(t, outcome.Persisted)
	assert.Len(t, outcome.Results, 2)
}

func TestEvaluationService_EmptyPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	outcome, err := newEvaluationService(t, registry.Default(), mocks.NewMockEvaluationRepository(ctrl), nil).Evaluate(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Echo: ", outcome.Results[0].Response)
	assert.Equal(t, 6, outcome.Results[0].Score)
}

func TestEvaluationService_ModelFailureIsFailFast(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(registry.EchoType, registry.Echo{}))
	require.NoError(t, reg.Register("broken", brokenModel{}))
	require.NoError(t, reg.Register(registry.ReverseType, registry.Reverse{}))

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepository(ctrl)
	pub := &recordingPublisher{}

	outcome, err := newEvaluationService(t, reg, repo, pub).Evaluate(context.Background(), "hi", &models.User{ID: 1})
	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, apperror.CodeModelFailure, apperror.CodeOf(err))
	assert.Contains(t, err.Error(), "broken-model")
	assert.Empty(t, pub.events)
}

func TestEvaluationService_PersistFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepository(ctrl)
	repo.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	pub := &recordingPublisher{}

	_, err := newEvaluationService(t, registry.Default(), repo, pub).Evaluate(context.Background(), "hi", &models.User{ID: 1})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInternal, apperror.CodeOf(err))
	assert.Empty(t, pub.events)
}

func TestEvaluationService_PublishFailureIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	pub := &recordingPublisher{err: errors.New("redis gone")}

	outcome, err := newEvaluationService(t, registry.Default(), mocks.NewMockEvaluationRepository(ctrl), pub).Evaluate(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Len(t, outcome.Results, 2)
	assert.Len(t, pub.events, 1)
}

func TestEvaluationService_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEvaluationRepository(ctrl)
	uid := int64(4)
	repo.EXPECT().ListByUser(gomock.Any(), uid).Return([]models.Evaluation{{ID: 1, UserID: &uid, Prompt: "hi"}}, nil)
	svc := newEvaluationService(t, registry.Default(), repo, nil)

	got, err := svc.History(context.Background(), &models.User{ID: uid})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.History(context.Background(), nil)
	assert.Equal(t, apperror.CodeUnauthorized, apperror.CodeOf(err))
}
