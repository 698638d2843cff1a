package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"taskStore/internal/models/task"
	repo "taskStore/internal/repository"
	"taskStore/internal/repository/task/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTaskStorage_HealthCheck тестирует проверку здоровья
func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestTaskStorage_SaveAndGet тестирует сохранение и чтение
func TestTaskStorage_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := task.New("Test Task", task.PriorityMedium)
	require.NoError(t, storage.Save(ctx, created))

	loaded, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	// хранилище отдаёт копию
	loaded.ToggleCompletion()
	again, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, again.IsCompleted())
}

// TestTaskStorage_Save_Overwrites тестирует перезапись при повторном сохранении
func TestTaskStorage_Save_Overwrites(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := task.New("Original", task.PriorityLow)
	require.NoError(t, storage.Save(ctx, created))
	require.NoError(t, storage.Save(ctx, created))

	created.ToggleCompletion()
	created.Description = "Updated"
	require.NoError(t, storage.Save(ctx, created))

	tasks, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Updated", tasks[0].Description)
	assert.True(t, tasks[0].IsCompleted())
}

// TestTaskStorage_Save_Invalid тестирует отказ в сохранении
func TestTaskStorage_Save_Invalid(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	assert.Error(t, storage.Save(ctx, nil))
	assert.Error(t, storage.Save(ctx, task.New("bad", task.Priority("urgent"))))

	tasks, err := storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestTaskStorage_GetByID_NotFound тестирует отсутствующую задачу
func TestTaskStorage_GetByID_NotFound(t *testing.T) {
	storage := inmemory.NewTaskStorage()

	_, err := storage.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// TestTaskStorage_Delete тестирует удаление
func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	kept := task.New("Kept", task.PriorityLow)
	deleted := task.New("Deleted", task.PriorityHigh)
	require.NoError(t, storage.Save(ctx, kept))
	require.NoError(t, storage.Save(ctx, deleted))

	require.NoError(t, storage.Delete(ctx, deleted))
	require.NoError(t, storage.DeleteByID(ctx, uuid.New()))

	_, err := storage.GetByID(ctx, deleted.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	tasks, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, kept.ID, tasks[0].ID)

	// удалённую задачу можно сохранить снова
	require.NoError(t, storage.Save(ctx, deleted))
	_, err = storage.GetByID(ctx, deleted.ID)
	assert.NoError(t, err)
}

// TestTaskStorage_GetAll_Order тестирует порядок вставки
func TestTaskStorage_GetAll_Order(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var ids []uuid.UUID
	for i := 1; i <= 5; i++ {
		created := task.New(fmt.Sprintf("Task %d", i), task.PriorityLow)
		require.NoError(t, storage.Save(ctx, created))
		ids = append(ids, created.ID)
	}

	tasks, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	for i, tk := range tasks {
		assert.Equal(t, ids[i], tk.ID)
	}
}

// TestTaskStorage_Concurrent тестирует параллельные сохранения одной задачи
func TestTaskStorage_Concurrent(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	created := task.New("Concurrent", task.PriorityLow)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			copyTask := *created
			copyTask.Description = fmt.Sprintf("writer %d", i)
			assert.NoError(t, storage.Save(ctx, &copyTask))
			_, err := storage.GetAll(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	tasks, err := storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
