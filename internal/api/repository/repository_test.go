package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctchen222/Prompt-Benchmark/internal/api/models"
	"ctchen222/Prompt-Benchmark/internal/testutil"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)")))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.OpenInMemoryDB(t))

	user := &models.User{Username: "alice", PasswordHash: "hash", IsAdmin: true}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	got, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.True(t, got.IsAdmin)

	err = repo.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	missing, err := repo.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestModelConfigRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewModelConfigRepository(testutil.OpenInMemoryDB(t))

	seeded, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, seeded, 2)
	assert.Equal(t, "Echo", seeded[0].Name)
	assert.Equal(t, "reverse", seeded[1].Type)

	mc := &models.ModelConfig{Name: "Echo again", Type: "echo"}
	require.NoError(t, repo.Create(ctx, mc))
	assert.Greater(t, mc.ID, seeded[1].ID)

	got, err := repo.GetByID(ctx, mc.ID)
	require.NoError(t, err)
	assert.Equal(t, mc, got)

	deleted, err := repo.Delete(ctx, mc.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, mc.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err = repo.GetByID(ctx, mc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeded, after)
}

func TestEvaluationRepository_CreateBatch(t *testing.T) {
	ctx := context.Background()
	conn := testutil.OpenInMemoryDB(t)
	users := NewUserRepository(conn)
	repo := NewEvaluationRepository(conn)

	user := &models.User{Username: "carol", PasswordHash: "h"}
	require.NoError(t, users.CreateUser(ctx, user))

	evals := []*models.Evaluation{
		{UserID: &user.ID, Prompt: "hi", Model: "echo-model", Response: "Echo: hi", Score: 8},
		{UserID: &user.ID, Prompt: "hi", Model: "reverse-model", Response: "Reverse: ih", Score: 11},
	}
	require.NoError(t, repo.CreateBatch(ctx, evals))
	assert.NotZero(t, evals[0].ID)
	assert.Greater(t, evals[1].ID, evals[0].ID)

	stored, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "echo-model", stored[0].Model)
	assert.Equal(t, "hi", stored[1].Prompt)
	require.NotNil(t, stored[1].UserID)
	assert.Equal(t, user.ID, *stored[1].UserID)
}

func TestEvaluationRepository_CreateBatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	conn := testutil.OpenInMemoryDB(t)
	repo := NewEvaluationRepository(conn)

	ghost := int64(999)
	evals := []*models.Evaluation{
		{Prompt: "p", Model: "echo-model", Response: "Echo: p", Score: 7},
		{UserID: &ghost, Prompt: "p", Model: "reverse-model", Response: "Reverse: p", Score: 10},
	}
	require.Error(t, repo.CreateBatch(ctx, evals))

	assert.Equal(t, 0, testutil.CountRows(t, conn, "evaluations"))
	assert.Zero(t, evals[0].ID)
}

func TestEvaluationRepository_EmptyBatch(t *testing.T) {
	repo := NewEvaluationRepository(testutil.OpenInMemoryDB(t))
	assert.NoError(t, repo.CreateBatch(context.Background(), nil))
}
