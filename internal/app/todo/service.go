package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"todos/internal/providers/redis"
	"todos/internal/utils"

	"go.uber.org/zap"
)

const PageSize = 20

const (
	EventCreated = "todo_created"
	EventUpdated = "todo_updated"
	EventDeleted = "todo_deleted"
)

type Service interface {
	List(ctx context.Context, page int) ([]*Todo, error)
	Get(ctx context.Context, id uint64) (*Todo, error)
	Create(ctx context.Context, req CreateTodoRequest) (*Todo, error)
	Update(ctx context.Context, id uint64, req UpdateTodoRequest) error
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo        Repository
	redisP      *redis.RedisProvider
	eventBus    *utils.EventBus
	logger      *zap.SugaredLogger
	cachePrefix string
}

// NewService wires the todo use cases. redisP may be nil, in which case every
// read goes to the repository.
func NewService(
	repo Repository,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:        repo,
		redisP:      redisP,
		eventBus:    eventBus,
		logger:      logger.Sugar(),
		cachePrefix: "todos",
	}
}

func (s *service) List(ctx context.Context, page int) ([]*Todo, error) {
	if page < 1 {
		page = 1
	}
	// the offset of any later page does not fit in an int
	if page > math.MaxInt/PageSize {
		return []*Todo{}, nil
	}

	cacheKey := fmt.Sprintf("%s:page:%d", s.cachePrefix, page)
	var todos []*Todo
	if s.readCache(ctx, cacheKey, &todos) {
		return todos, nil
	}

	todos, err := s.repo.List(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	if todos == nil {
		todos = []*Todo{}
	}

	s.writeCache(ctx, cacheKey, todos)
	return todos, nil
}

func (s *service) Get(ctx context.Context, id uint64) (*Todo, error) {
	var cached Todo
	if s.readCache(ctx, s.recordKey(id), &cached) {
		return &cached, nil
	}

	// read the version before the row so a write landing in between
	// keeps the stale row out of the cache
	version, versioned := s.recordVersion(ctx, id)

	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if versioned {
		s.cacheRecord(ctx, id, version, todo)
	}
	return todo, nil
}

func (s *service) Create(ctx context.Context, req CreateTodoRequest) (*Todo, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}

	todo := &Todo{
		Title:     *req.Title,
		CreatedBy: req.CreatedBy,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.invalidatePages(ctx)
	s.publish(EventCreated, todo)
	s.logger.Debugw("Todo created", "todo_id", todo.ID, "created_by", todo.CreatedBy)
	return todo, nil
}

func (s *service) Update(ctx context.Context, id uint64, req UpdateTodoRequest) error {
	if req.Title == nil {
		// nothing to change, but an unknown id is still an error
		_, err := s.repo.GetByID(ctx, id)
		return err
	}
	if err := validateTitle(req.Title); err != nil {
		return err
	}

	todo, err := s.repo.UpdateTitle(ctx, id, *req.Title)
	if err != nil {
		return err
	}

	s.invalidateRecord(ctx, id)
	s.invalidatePages(ctx)
	s.publish(EventUpdated, todo)
	return nil
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateRecord(ctx, id)
	s.invalidatePages(ctx)
	s.publish(EventDeleted, map[string]interface{}{
		"id":        id,
		"timestamp": time.Now().UTC().Unix(),
	})
	return nil
}

func (s *service) recordKey(id uint64) string {
	return fmt.Sprintf("%s:id:%d", s.cachePrefix, id)
}

func (s *service) versionKey(id uint64) string {
	return fmt.Sprintf("%s:version:%d", s.cachePrefix, id)
}

func (s *service) recordVersion(ctx context.Context, id uint64) (int64, bool) {
	if s.redisP == nil {
		return 0, false
	}
	version, err := s.redisP.Version(ctx, s.versionKey(id))
	if err != nil {
		return 0, false
	}
	return version, true
}

func (s *service) cacheRecord(ctx context.Context, id uint64, version int64, todo *Todo) {
	data, err := json.Marshal(todo)
	if err != nil {
		return
	}
	written, err := s.redisP.SetIfVersion(ctx, s.recordKey(id), data, s.versionKey(id), version)
	if err != nil {
		s.logger.Warnw("Failed to cache todo", "todo_id", id, "error", err)
		return
	}
	if !written {
		s.logger.Debugw("Todo changed while loading, not cached", "todo_id", id)
	}
}

func (s *service) readCache(ctx context.Context, key string, dst interface{}) bool {
	if s.redisP == nil {
		return false
	}
	cachedData, err := s.redisP.Get(ctx, key).Result()
	if err != nil || cachedData == "" {
		return false
	}
	return json.Unmarshal([]byte(cachedData), dst) == nil
}

func (s *service) writeCache(ctx context.Context, key string, v interface{}) {
	if s.redisP == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redisP.SetWithDefaultTTL(ctx, key, data, 0).Err(); err != nil {
		s.logger.Warnw("Failed to cache todos", "key", key, "error", err)
	}
}

func (s *service) invalidateRecord(ctx context.Context, id uint64) {
	if s.redisP == nil {
		return
	}
	if err := s.redisP.BumpVersion(ctx, s.versionKey(id), s.recordKey(id)); err != nil {
		s.logger.Warnw("Failed to invalidate todo cache key", "todo_id", id, "error", err)
	}
}

func (s *service) invalidatePages(ctx context.Context) {
	if s.redisP == nil {
		return
	}
	pattern := s.cachePrefix + ":page:*"
	deleted, err := s.redisP.DeleteByPattern(ctx, pattern)
	if err != nil {
		s.logger.Warnw("Redis scan failed during cache invalidation", "error", err, "pattern", pattern)
		return
	}
	if deleted > 0 {
		s.logger.Debugw("Todo list cache invalidated", "deleted_keys", deleted)
	}
}

func (s *service) publish(event string, data interface{}) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(event, data)
}
