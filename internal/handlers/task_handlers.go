package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"taskStore/internal/handlers/dto"
	"taskStore/internal/logger"
	"taskStore/internal/models/task"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceName = "task-store"

type TaskHandler struct {
	TaskService Service
	now         func() time.Time
}

func NewTaskHandler(taskService Service) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
		now:         time.Now,
	}
}

// Routes вешает обработчики задач на роутер.
func (s *TaskHandler) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.GetTasks)  // GET /tasks
		r.Post("/", s.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTaskByID)           // GET /tasks/{id}
			r.Delete("/", s.DeleteTaskByID)     // DELETE /tasks/{id}
			r.Post("/toggle", s.ToggleTaskByID) // POST /tasks/{id}/toggle
		})
	})
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("service", serviceName),
			toPayload("status", "unavailable"),
			toPayload("error", err.Error()),
		)
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("service", serviceName),
		toPayload("status", "ok"),
	)
}

func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks, err := s.TaskService.ListTasks(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "list_tasks"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	writeJSON(w, http.StatusOK, dto.FromTaskList(tasks, s.now()))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	if strings.TrimSpace(request.Description) == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "description"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "описание не может быть пустым")
		return
	}

	priority := task.PriorityMedium
	if request.Priority != "" {
		parsed, err := task.ParsePriority(request.Priority)
		if err != nil {
			logger.Warn("HTTP: Ошибка валидации",
				zap.String("field", "priority"),
				zap.String("error", "wrong_value"),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		priority = parsed
	}

	created, err := s.TaskService.CreateTask(r.Context(), request.Description, priority, request.ExpiredAt)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)))

	writeJSON(w, http.StatusCreated, dto.FromTask(created, s.now()))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := s.TaskService.GetTask(r.Context(), id)
	if err != nil {
		s.serviceError(w, err, "get_task")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(found, s.now()))
}

func (s *TaskHandler) ToggleTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	toggled, err := s.TaskService.ToggleTask(r.Context(), id)
	if err != nil {
		s.serviceError(w, err, "toggle_task")
		return
	}

	writeJSON(w, http.StatusOK, dto.FromTask(toggled, s.now()))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		s.serviceError(w, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена", zap.String("task_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) serviceError(w http.ResponseWriter, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: Ошибка Service", err, zap.String("operation", operation))
	responseWithError(w, http.StatusInternalServerError, err.Error())
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Неверный идентификатор",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверный id задачи")
		return uuid.Nil, false
	}
	return id, true
}
