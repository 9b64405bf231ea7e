package todo

import (
	"context"
	"math"
	"testing"
	"time"

	"todos/internal/providers/redis"
	"todos/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type serviceFixture struct {
	svc  Service
	repo *memoryRepository
	mr   *miniredis.Miniredis
	bus  *utils.EventBus
}

func setupService(t *testing.T, seeded int) *serviceFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	provider := redis.NewRedisProvider(mr.Addr(), zap.NewNop(), time.Minute)
	t.Cleanup(func() { _ = provider.Close() })

	repo := newMemoryRepository()
	repo.seed(seeded, "1")
	bus := utils.NewEventBus()

	return &serviceFixture{
		svc:  NewService(repo, provider, bus, zap.NewNop()),
		repo: repo,
		mr:   mr,
		bus:  bus,
	}
}

func nextEvent(t *testing.T, bus *utils.EventBus) utils.Event {
	t.Helper()
	select {
	case e := <-bus.SubscribeCh():
		return e
	default:
		t.Fatal("expected an event")
		return utils.Event{}
	}
}

func ptr(s string) *string {
	return &s
}

func TestService_ListIsCached(t *testing.T) {
	f := setupService(t, 25)
	ctx := context.Background()

	first, err := f.svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.True(t, f.mr.Exists("todos:page:2"))

	again, err := f.svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, again, 5)
	assert.Equal(t, 1, f.repo.callCount("List"))
}

func TestService_ListNormalizesPage(t *testing.T) {
	f := setupService(t, 3)

	todos, err := f.svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, todos, 3)
	assert.True(t, f.mr.Exists("todos:page:1"))
}

func TestService_ListPastAddressableOffset(t *testing.T) {
	f := setupService(t, 3)

	todos, err := f.svc.List(context.Background(), math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, todos)
	assert.NotNil(t, todos)
	assert.Equal(t, 0, f.repo.callCount("List"))
}

func TestService_CreateInvalidatesPages(t *testing.T) {
	f := setupService(t, 20)
	ctx := context.Background()

	_, err := f.svc.List(ctx, 2)
	require.NoError(t, err)
	require.True(t, f.mr.Exists("todos:page:2"))

	created, err := f.svc.Create(ctx, CreateTodoRequest{Title: ptr("Learn Rails"), CreatedBy: "1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(21), created.ID)
	assert.False(t, f.mr.Exists("todos:page:2"))

	page, err := f.svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Learn Rails", page[0].Title)

	e := nextEvent(t, f.bus)
	assert.Equal(t, EventCreated, e.Event)
}

func TestService_CreateValidatesTitle(t *testing.T) {
	f := setupService(t, 0)

	_, err := f.svc.Create(context.Background(), CreateTodoRequest{CreatedBy: "1"})

	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Validation failed: Title can't be blank", err.Error())
	assert.Equal(t, 0, f.repo.callCount("Create"))
}

func TestService_GetIsCachedUntilUpdate(t *testing.T) {
	f := setupService(t, 1)
	ctx := context.Background()

	got, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Todo 1", got.Title)
	assert.True(t, f.mr.Exists("todos:id:1"))

	_, err = f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.callCount("GetByID"))

	require.NoError(t, f.svc.Update(ctx, 1, UpdateTodoRequest{Title: ptr("Shopping")}))
	assert.False(t, f.mr.Exists("todos:id:1"))

	got, err = f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Shopping", got.Title)

	e := nextEvent(t, f.bus)
	assert.Equal(t, EventUpdated, e.Event)
}

func TestService_GetSkipsCachingRecordChangedWhileLoading(t *testing.T) {
	t.Run("update", func(t *testing.T) {
		f := setupService(t, 1)
		ctx := context.Background()
		f.repo.afterGet = func() {
			require.NoError(t, f.svc.Update(ctx, 1, UpdateTodoRequest{Title: ptr("Shopping")}))
		}

		got, err := f.svc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Todo 1", got.Title)
		assert.False(t, f.mr.Exists("todos:id:1"))

		got, err = f.svc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Shopping", got.Title)
		assert.True(t, f.mr.Exists("todos:id:1"))
	})

	t.Run("delete", func(t *testing.T) {
		f := setupService(t, 1)
		ctx := context.Background()
		f.repo.afterGet = func() {
			require.NoError(t, f.svc.Delete(ctx, 1))
		}

		_, err := f.svc.Get(ctx, 1)
		require.NoError(t, err)
		assert.False(t, f.mr.Exists("todos:id:1"))

		_, err = f.svc.Get(ctx, 1)
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestService_GetMissingIsNotCached(t *testing.T) {
	f := setupService(t, 0)

	_, err := f.svc.Get(context.Background(), 100)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Couldn't find Todo with 'id'=100", err.Error())
	assert.False(t, f.mr.Exists("todos:id:100"))
}

func TestService_Delete(t *testing.T) {
	f := setupService(t, 2)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, 2)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, 2))
	assert.False(t, f.mr.Exists("todos:id:2"))

	_, err = f.svc.Get(ctx, 2)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	e := nextEvent(t, f.bus)
	assert.Equal(t, EventDeleted, e.Event)

	err = f.svc.Delete(ctx, 2)
	assert.ErrorAs(t, err, &notFound)
}

func TestService_CacheOutageFallsBackToRepository(t *testing.T) {
	f := setupService(t, 3)
	f.mr.Close()

	todos, err := f.svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, todos, 3)

	_, err = f.svc.Create(context.Background(), CreateTodoRequest{Title: ptr("offline"), CreatedBy: "1"})
	assert.NoError(t, err)
}
