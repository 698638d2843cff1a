package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taskStore/internal/logger"
	"taskStore/internal/models/task"
	repo "taskStore/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage хранит копии задач, поэтому изменения значения в памяти
// не видны хранилищу до следующего Save - так же, как с базой.
type TaskStorage struct {
	storage map[uuid.UUID]task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Хранилище в памяти доступно")
	return nil
}

func (s *TaskStorage) GetAll(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		stored := clone(s.storage[id])
		res = append(res, &stored)
	}
	return res, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repo.ErrNotFound, id)
	}
	found := clone(stored)
	return &found, nil
}

// Save: новая задача добавляется, существующая перезаписывается целиком.
func (s *TaskStorage) Save(ctx context.Context, t *task.Task) error {
	if t == nil {
		return errors.New("сохранение задачи: nil")
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("сохранение задачи: неизвестный приоритет %q", t.Priority)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[t.ID]; !ok {
		s.ids = append(s.ids, t.ID)
	}
	s.storage[t.ID] = clone(*t)
	return nil
}

func (s *TaskStorage) Delete(ctx context.Context, t *task.Task) error {
	if t == nil {
		return errors.New("удаление задачи: nil")
	}
	return s.DeleteByID(ctx, t.ID)
}

func (s *TaskStorage) DeleteByID(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return nil
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

func clone(t task.Task) task.Task {
	if t.ExpiredAt != nil {
		expiredAt := *t.ExpiredAt
		t.ExpiredAt = &expiredAt
	}
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		t.CompletedAt = &completedAt
	}
	return t
}
