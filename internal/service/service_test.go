package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"taskStore/internal/models/task"
	repo "taskStore/internal/repository"
	"taskStore/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) GetAll(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// TestTaskService_CreateTask тестирует создание задачи
func TestTaskService_CreateTask(t *testing.T) {
	expiredAt := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name          string
		description   string
		priority      task.Priority
		expiredAt     *time.Time
		setupMock     func(*MockTaskRepository)
		expectedCode  string
		expectedError bool
	}{
		{
			name:        "success - with expiration",
			description: "Publish this draft",
			priority:    task.PriorityHigh,
			expiredAt:   &expiredAt,
			setupMock: func(m *MockTaskRepository) {
				m.On("Save", mock.Anything, mock.MatchedBy(func(t *task.Task) bool {
					return t.Description == "Publish this draft" &&
						t.Priority == task.PriorityHigh &&
						t.ExpiredAt != nil &&
						t.CompletedAt == nil
				})).Return(nil)
			},
		},
		{
			name:        "success - without expiration",
			description: "Test Task",
			priority:    task.PriorityLow,
			setupMock: func(m *MockTaskRepository) {
				m.On("Save", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)
			},
		},
		{
			name:          "error - empty description",
			description:   "   ",
			priority:      task.PriorityLow,
			setupMock:     func(m *MockTaskRepository) {},
			expectedCode:  service.CodeValidationError,
			expectedError: true,
		},
		{
			name:          "error - unknown priority",
			description:   "Test Task",
			priority:      task.Priority("urgent"),
			setupMock:     func(m *MockTaskRepository) {},
			expectedCode:  service.CodeValidationError,
			expectedError: true,
		},
		{
			name:        "error - repository error",
			description: "Test Task",
			priority:    task.PriorityMedium,
			setupMock: func(m *MockTaskRepository) {
				m.On("Save", mock.Anything, mock.Anything).Return(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo)
			created, err := svc.CreateTask(context.Background(), tt.description, tt.priority, tt.expiredAt)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, created)
				if tt.expectedCode != "" {
					var businessErr *service.BusinessError
					require.ErrorAs(t, err, &businessErr)
					assert.Equal(t, tt.expectedCode, businessErr.Code)
				}
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, created.ID)
				assert.Equal(t, tt.description, created.Description)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_GetTask тестирует получение задачи по ID
func TestTaskService_GetTask(t *testing.T) {
	taskID := uuid.New()

	tests := []struct {
		name         string
		setupMock    func(*MockTaskRepository)
		expectedCode string
		expectedErr  bool
	}{
		{
			name: "success",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, taskID).
					Return(&task.Task{ID: taskID, Description: "Test Task", Priority: task.PriorityLow}, nil)
			},
		},
		{
			name: "error - not found",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, taskID).
					Return(nil, fmt.Errorf("%w: %s", repo.ErrNotFound, taskID))
			},
			expectedCode: service.CodeNotFound,
			expectedErr:  true,
		},
		{
			name: "error - repository error",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetByID", mock.Anything, taskID).Return(nil, errors.New("database error"))
			},
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			svc := service.NewTaskService(mockRepo)
			found, err := svc.GetTask(context.Background(), taskID)

			if tt.expectedErr {
				assert.Error(t, err)
				assert.Nil(t, found)

				var businessErr *service.BusinessError
				if tt.expectedCode != "" {
					require.ErrorAs(t, err, &businessErr)
					assert.Equal(t, tt.expectedCode, businessErr.Code)
					assert.ErrorIs(t, err, repo.ErrNotFound)
				} else {
					assert.False(t, errors.As(err, &businessErr))
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, taskID, found.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// TestTaskService_ToggleTask тестирует переключение выполненности
func TestTaskService_ToggleTask(t *testing.T) {
	ctx := context.Background()

	t.Run("success - toggles and saves", func(t *testing.T) {
		stored := task.New("Publish this draft", task.PriorityHigh)

		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(t *task.Task) bool {
			return t.ID == stored.ID && t.IsCompleted()
		})).Return(nil)

		svc := service.NewTaskService(mockRepo)
		toggled, err := svc.ToggleTask(ctx, stored.ID)

		require.NoError(t, err)
		assert.True(t, toggled.IsCompleted())
		mockRepo.AssertExpectations(t)
	})

	t.Run("error - not found skips save", func(t *testing.T) {
		id := uuid.New()

		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, id).Return(nil, repo.ErrNotFound)

		svc := service.NewTaskService(mockRepo)
		_, err := svc.ToggleTask(ctx, id)

		var businessErr *service.BusinessError
		require.ErrorAs(t, err, &businessErr)
		assert.Equal(t, service.CodeNotFound, businessErr.Code)
		mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("error - save fails", func(t *testing.T) {
		stored := task.New("task", task.PriorityLow)

		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		mockRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("database error"))

		svc := service.NewTaskService(mockRepo)
		toggled, err := svc.ToggleTask(ctx, stored.ID)

		assert.Error(t, err)
		assert.Nil(t, toggled)
	})
}

// TestTaskService_ListTasks тестирует получение списка
func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		tasks := []*task.Task{
			task.New("first", task.PriorityLow),
			task.New("second", task.PriorityHigh),
		}
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetAll", mock.Anything).Return(tasks, nil)

		got, err := service.NewTaskService(mockRepo).ListTasks(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("error - mapping error is passed through", func(t *testing.T) {
		mappingErr := &repo.MappingError{Field: "priority", Err: errors.New("bad value")}
		mockRepo := new(MockTaskRepository)
		mockRepo.On("GetAll", mock.Anything).Return(nil, mappingErr)

		_, err := service.NewTaskService(mockRepo).ListTasks(ctx)
		var target *repo.MappingError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "priority", target.Field)
	})
}

// TestTaskService_DeleteTask тестирует удаление
func TestTaskService_DeleteTask(t *testing.T) {
	id := uuid.New()

	mockRepo := new(MockTaskRepository)
	mockRepo.On("DeleteByID", mock.Anything, id).Return(nil).Once()
	mockRepo.On("DeleteByID", mock.Anything, id).Return(errors.New("database error")).Once()

	svc := service.NewTaskService(mockRepo)
	assert.NoError(t, svc.DeleteTask(context.Background(), id))
	assert.Error(t, svc.DeleteTask(context.Background(), id))
	mockRepo.AssertExpectations(t)
}

// TestTaskService_HealthCheck тестирует проверку здоровья
func TestTaskService_HealthCheck(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("HealthCheck", mock.Anything).Return(nil).Once()
	mockRepo.On("HealthCheck", mock.Anything).Return(errors.New("down")).Once()

	svc := service.NewTaskService(mockRepo)
	assert.NoError(t, svc.HealthCheck(context.Background()))
	assert.Error(t, svc.HealthCheck(context.Background()))
}
