package todo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memoryRepository is a Repository backed by a map, for handler and service tests.
type memoryRepository struct {
	mu     sync.Mutex
	nextID uint64
	todos  map[uint64]*Todo
	calls  map[string]int
	err    error

	// afterGet runs once, after GetByID has read its row
	afterGet func()
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		nextID: 1,
		todos:  make(map[uint64]*Todo),
		calls:  make(map[string]int),
	}
}

func (r *memoryRepository) seed(n int, createdBy string) []*Todo {
	seeded := make([]*Todo, 0, n)
	for i := 0; i < n; i++ {
		todo := &Todo{Title: fmt.Sprintf("Todo %d", i+1), CreatedBy: createdBy}
		_ = r.Create(context.Background(), todo)
		seeded = append(seeded, todo)
	}
	return seeded
}

func (r *memoryRepository) List(_ context.Context, offset, limit int) ([]*Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["List"]++
	if r.err != nil {
		return nil, r.err
	}

	ids := make([]uint64, 0, len(r.todos))
	for id := range r.todos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	todos := []*Todo{}
	for i := offset; i < len(ids) && i < offset+limit; i++ {
		copied := *r.todos[ids[i]]
		todos = append(todos, &copied)
	}
	return todos, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uint64) (*Todo, error) {
	r.mu.Lock()
	r.calls["GetByID"]++
	if r.err != nil {
		r.mu.Unlock()
		return nil, r.err
	}

	todo, ok := r.todos[id]
	var copied Todo
	if ok {
		copied = *todo
	}
	hook := r.afterGet
	r.afterGet = nil
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, notFound(id)
	}
	return &copied, nil
}

func (r *memoryRepository) Create(_ context.Context, todo *Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	if r.err != nil {
		return r.err
	}

	now := time.Now().UTC()
	todo.ID = r.nextID
	todo.CreatedAt = now
	todo.UpdatedAt = now
	r.nextID++

	copied := *todo
	r.todos[todo.ID] = &copied
	return nil
}

func (r *memoryRepository) UpdateTitle(_ context.Context, id uint64, title string) (*Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["UpdateTitle"]++
	if r.err != nil {
		return nil, r.err
	}

	todo, ok := r.todos[id]
	if !ok {
		return nil, notFound(id)
	}
	todo.Title = title
	todo.UpdatedAt = time.Now().UTC()
	copied := *todo
	return &copied, nil
}

func (r *memoryRepository) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Delete"]++
	if r.err != nil {
		return r.err
	}

	if _, ok := r.todos[id]; !ok {
		return notFound(id)
	}
	delete(r.todos, id)
	return nil
}

func (r *memoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.todos)), r.err
}

func (r *memoryRepository) callCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}
