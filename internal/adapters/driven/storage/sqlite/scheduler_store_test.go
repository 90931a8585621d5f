package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func saveTask(t *testing.T, store *Store, id string) {
	t.Helper()
	err := store.SchedulerStore().SaveTask(context.Background(), &domain.ScheduledTask{
		ID:       id,
		Name:     id,
		Interval: time.Hour,
		Enabled:  true,
	})
	require.NoError(t, err)
}

// ==================== SchedulerStore Tests ====================

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	now := time.Now().UTC()
	task := &domain.ScheduledTask{
		ID:          domain.TaskIDSearchIncremental,
		Name:        "Search Incremental Update",
		Interval:    90 * time.Second,
		LastRun:     now.Add(-30 * time.Second),
		NextRun:     now.Add(time.Minute),
		LastSuccess: now.Add(-30 * time.Second),
		Enabled:     true,
	}

	err := schedulerStore.SaveTask(ctx, task)
	require.NoError(t, err)

	retrieved, err := schedulerStore.GetTask(ctx, domain.TaskIDSearchIncremental)
	require.NoError(t, err)
	require.NotNil(t, retrieved)

	assert.Equal(t, task.ID, retrieved.ID)
	assert.Equal(t, task.Name, retrieved.Name)
	assert.Equal(t, task.Interval, retrieved.Interval)
	assert.Equal(t, task.Enabled, retrieved.Enabled)
	assert.True(t, task.LastRun.Equal(retrieved.LastRun))
	assert.True(t, task.NextRun.Equal(retrieved.NextRun))
	assert.True(t, task.LastSuccess.Equal(retrieved.LastSuccess))
}

func TestSchedulerStore_SubSecondInterval(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	task := &domain.ScheduledTask{ID: "fast", Name: "Fast", Interval: 250 * time.Millisecond, Enabled: true}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	retrieved, err := schedulerStore.GetTask(ctx, "fast")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, retrieved.Interval)
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	task, err := store.SchedulerStore().GetTask(context.Background(), "non-existent")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_SaveTask_Update(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	task := &domain.ScheduledTask{
		ID:       domain.TaskIDRouteRefresh,
		Name:     "Route Cache Refresh",
		Interval: 5 * time.Minute,
		Enabled:  true,
	}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	task.Interval = 10 * time.Minute
	task.LastError = "fetching published content: connection refused"
	task.Enabled = false
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	retrieved, err := schedulerStore.GetTask(ctx, domain.TaskIDRouteRefresh)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, retrieved.Interval)
	assert.Equal(t, "fetching published content: connection refused", retrieved.LastError)
	assert.False(t, retrieved.Enabled)
}

func TestSchedulerStore_SaveTask_NilTask(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SchedulerStore().SaveTask(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchedulerStore_ListTasks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for _, id := range []string{"route-refresh", "search-full-rebuild", "search-incremental"} {
		saveTask(t, store, id)
	}

	retrieved, err := store.SchedulerStore().ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, retrieved, 3)
	assert.Equal(t, "route-refresh", retrieved[0].ID)
	assert.Equal(t, "search-incremental", retrieved[2].ID)
}

func TestSchedulerStore_ListTasks_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	tasks, err := store.SchedulerStore().ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSchedulerStore_DeleteTask_CascadesHistory(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()
	saveTask(t, store, "to-delete")

	now := time.Now()
	require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
		TaskID: "to-delete", StartedAt: now, EndedAt: now, Success: true,
	}))

	require.NoError(t, schedulerStore.DeleteTask(ctx, "to-delete"))

	retrieved, err := schedulerStore.GetTask(ctx, "to-delete")
	require.NoError(t, err)
	assert.Nil(t, retrieved)

	history, err := schedulerStore.GetTaskHistory(ctx, "to-delete", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSchedulerStore_RecordResult(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()
	saveTask(t, store, domain.TaskIDSearchFullRebuild)

	now := time.Now().UTC()
	ok := &domain.TaskResult{
		TaskID:         domain.TaskIDSearchFullRebuild,
		StartedAt:      now.Add(-5 * time.Minute),
		EndedAt:        now.Add(-5*time.Minute + 120*time.Millisecond),
		Success:        true,
		ItemsProcessed: 10,
	}
	require.NoError(t, schedulerStore.RecordResult(ctx, ok))

	failed := &domain.TaskResult{
		TaskID:    domain.TaskIDSearchFullRebuild,
		StartedAt: now,
		EndedAt:   now.Add(time.Second),
		Success:   false,
		Error:     "connection timeout",
	}
	require.NoError(t, schedulerStore.RecordResult(ctx, failed))

	history, err := schedulerStore.GetTaskHistory(ctx, domain.TaskIDSearchFullRebuild, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Most recent first
	assert.False(t, history[0].Success)
	assert.Equal(t, "connection timeout", history[0].Error)
	assert.True(t, history[1].Success)
	assert.Equal(t, 10, history[1].ItemsProcessed)
	assert.Equal(t, 120*time.Millisecond, history[1].Duration())
}

func TestSchedulerStore_RecordResult_NilResult(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SchedulerStore().RecordResult(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchedulerStore_RecordResult_UnknownTask(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	now := time.Now()
	err := store.SchedulerStore().RecordResult(context.Background(), &domain.TaskResult{
		TaskID: "missing", StartedAt: now, EndedAt: now,
	})
	assert.Error(t, err)
}

func TestSchedulerStore_GetTaskHistory_Limit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()
	saveTask(t, store, "history-task")

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		result := &domain.TaskResult{
			TaskID:         "history-task",
			StartedAt:      now.Add(time.Duration(i) * time.Minute),
			EndedAt:        now.Add(time.Duration(i)*time.Minute + 30*time.Second),
			Success:        true,
			ItemsProcessed: i + 1,
		}
		require.NoError(t, schedulerStore.RecordResult(ctx, result))
	}

	history, err := schedulerStore.GetTaskHistory(ctx, "history-task", 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 5, history[0].ItemsProcessed)
}

func TestSchedulerStore_GetTaskHistory_SubSecondOrdering(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()
	saveTask(t, store, "fast")

	// Whole second first so a variable-width encoding would misorder it
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{0, 500 * time.Millisecond, 900 * time.Millisecond} {
		require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
			TaskID:         "fast",
			StartedAt:      base.Add(offset),
			EndedAt:        base.Add(offset),
			Success:        true,
			ItemsProcessed: i,
		}))
	}

	history, err := schedulerStore.GetTaskHistory(ctx, "fast", 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 2, history[0].ItemsProcessed)
	assert.Equal(t, 1, history[1].ItemsProcessed)
	assert.Equal(t, 0, history[2].ItemsProcessed)
}

func TestSchedulerStore_GetTaskHistory_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	saveTask(t, store, "no-history-task")

	history, err := store.SchedulerStore().GetTaskHistory(context.Background(), "no-history-task", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSchedulerStore_PruneHistory(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()
	saveTask(t, store, "prune-task")
	saveTask(t, store, "other-task")

	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		for _, id := range []string{"prune-task", "other-task"} {
			result := &domain.TaskResult{
				TaskID:         id,
				StartedAt:      now.Add(time.Duration(i) * time.Minute),
				EndedAt:        now.Add(time.Duration(i)*time.Minute + 30*time.Second),
				Success:        true,
				ItemsProcessed: i + 1,
			}
			require.NoError(t, schedulerStore.RecordResult(ctx, result))
		}
	}

	require.NoError(t, schedulerStore.PruneHistory(ctx, 3))

	for _, id := range []string{"prune-task", "other-task"} {
		history, err := schedulerStore.GetTaskHistory(ctx, id, 100)
		require.NoError(t, err)
		require.Len(t, history, 3, id)

		// Most recent kept
		assert.Equal(t, 10, history[0].ItemsProcessed)
		assert.Equal(t, 9, history[1].ItemsProcessed)
		assert.Equal(t, 8, history[2].ItemsProcessed)
	}
}

func TestSchedulerStore_TaskWithZeroTimes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	saveTask(t, store, "zero-times-task")

	retrieved, err := store.SchedulerStore().GetTask(ctx, "zero-times-task")
	require.NoError(t, err)
	assert.True(t, retrieved.LastRun.IsZero())
	assert.True(t, retrieved.NextRun.IsZero())
	assert.True(t, retrieved.LastSuccess.IsZero())
}

// ==================== Helper Function Tests ====================

func TestFormatNullableTime(t *testing.T) {
	assert.Nil(t, formatNullableTime(time.Time{}))

	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, "2026-05-01T10:00:00.000000000Z", formatNullableTime(ts))
}

func TestParseNullableTime(t *testing.T) {
	assert.True(t, parseNullableTime(sql.NullString{}).IsZero())
	assert.True(t, parseNullableTime(sql.NullString{String: "garbage", Valid: true}).IsZero())

	parsed := parseNullableTime(sql.NullString{String: "2026-05-01T10:00:00.250000000Z", Valid: true})
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 250_000_000, time.UTC), parsed)

	// Rows written with second precision still parse
	parsed = parseNullableTime(sql.NullString{String: "2026-05-01T10:00:00Z", Valid: true})
	assert.Equal(t, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC), parsed)
}

func TestBoolToInt(t *testing.T) {
	assert.Equal(t, 1, boolToInt(true))
	assert.Equal(t, 0, boolToInt(false))
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	assert.Equal(t, "hello", nullString("hello"))
}
