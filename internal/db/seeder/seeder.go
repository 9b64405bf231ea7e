package seeder

import (
	"context"
	"fmt"

	"todos/internal/app/todo"

	"go.uber.org/zap"
)

type Seeder struct {
	repo   todo.Repository
	logger *zap.Logger
}

func NewSeeder(repo todo.Repository, logger *zap.Logger) *Seeder {
	return &Seeder{
		repo:   repo,
		logger: logger,
	}
}

// Seed inserts count fixture todos owned by createdBy. It does nothing when
// the table already has rows.
func (s *Seeder) Seed(ctx context.Context, count int, createdBy string) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	s.logger.Info("Running database seeders...")

	existing, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	if existing > 0 {
		s.logger.Info("Todos already exist, skipping seed", zap.Int64("count", existing))
		return 0, nil
	}

	for i := 1; i <= count; i++ {
		t := &todo.Todo{
			Title:     fmt.Sprintf("Todo #%d", i),
			CreatedBy: createdBy,
		}
		if err := s.repo.Create(ctx, t); err != nil {
			return i - 1, fmt.Errorf("failed to seed todo %d: %w", i, err)
		}
	}

	s.logger.Info("Seeded todos", zap.Int("count", count))
	return count, nil
}
