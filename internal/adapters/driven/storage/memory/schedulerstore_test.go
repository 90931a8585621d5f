package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestNewSchedulerStore(t *testing.T) {
	store := NewSchedulerStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.tasks)
	assert.NotNil(t, store.results)
}

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDRouteRefresh,
		Name:     "Route Cache Refresh",
		Interval: 5 * time.Minute,
		Enabled:  true,
	}
	require.NoError(t, store.SaveTask(ctx, task))

	// Later mutations of the caller's copy do not leak into the store
	task.Name = "changed"

	saved, err := store.GetTask(ctx, domain.TaskIDRouteRefresh)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Route Cache Refresh", saved.Name)
	assert.Equal(t, 5*time.Minute, saved.Interval)
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	store := NewSchedulerStore()

	task, err := store.GetTask(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_SaveTask_Nil(t *testing.T) {
	store := NewSchedulerStore()

	assert.ErrorIs(t, store.SaveTask(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.RecordResult(context.Background(), nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_ListTasks_Sorted(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	for _, id := range []string{"search-incremental", "route-refresh", "search-full-rebuild"} {
		require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: id}))
	}

	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "route-refresh", tasks[0].ID)
	assert.Equal(t, "search-full-rebuild", tasks[1].ID)
	assert.Equal(t, "search-incremental", tasks[2].ID)
}

func TestSchedulerStore_HistoryAndPrune(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()
	now := time.Now()

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{
			TaskID:         "t",
			StartedAt:      now.Add(time.Duration(i) * time.Second),
			ItemsProcessed: i,
		}))
	}

	history, err := store.GetTaskHistory(ctx, "t", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 5, history[0].ItemsProcessed)
	assert.Equal(t, 4, history[1].ItemsProcessed)

	require.NoError(t, store.PruneHistory(ctx, 3))

	history, err = store.GetTaskHistory(ctx, "t", 100)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 3, history[2].ItemsProcessed)
}

func TestSchedulerStore_DeleteTask(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{ID: "t"}))
	require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{TaskID: "t"}))
	require.NoError(t, store.DeleteTask(ctx, "t"))

	task, err := store.GetTask(ctx, "t")
	require.NoError(t, err)
	assert.Nil(t, task)

	history, err := store.GetTaskHistory(ctx, "t", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}
