package seeder

import (
	"context"
	"errors"
	"testing"

	"todos/internal/app/todo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRepository struct {
	todo.Repository
	existing int64
	created  []*todo.Todo
	failAt   int
}

func (r *countingRepository) Count(context.Context) (int64, error) {
	return r.existing, nil
}

func (r *countingRepository) Create(_ context.Context, t *todo.Todo) error {
	if r.failAt > 0 && len(r.created)+1 == r.failAt {
		return errors.New("insert failed")
	}
	t.ID = uint64(len(r.created) + 1)
	r.created = append(r.created, t)
	return nil
}

func TestSeeder_SeedsEmptyTable(t *testing.T) {
	repo := &countingRepository{}

	n, err := NewSeeder(repo, zap.NewNop()).Seed(context.Background(), 25, "1")

	require.NoError(t, err)
	assert.Equal(t, 25, n)
	require.Len(t, repo.created, 25)
	assert.Equal(t, "Todo #1", repo.created[0].Title)
	assert.Equal(t, "1", repo.created[24].CreatedBy)
}

func TestSeeder_SkipsWhenRowsExist(t *testing.T) {
	repo := &countingRepository{existing: 3}

	n, err := NewSeeder(repo, zap.NewNop()).Seed(context.Background(), 25, "1")

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, repo.created)
}

func TestSeeder_ReportsPartialFailure(t *testing.T) {
	repo := &countingRepository{failAt: 4}

	n, err := NewSeeder(repo, zap.NewNop()).Seed(context.Background(), 10, "1")

	require.Error(t, err)
	assert.Equal(t, 3, n)
}
