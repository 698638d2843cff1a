package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"taskStore/internal/config"
	"taskStore/internal/database"
	"taskStore/internal/handlers"
	"taskStore/internal/logger"
	"taskStore/internal/middleware"
	"taskStore/internal/repository/task/inmemory"
	"taskStore/internal/repository/task/postgres"
	"taskStore/internal/service"
	"taskStore/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	db         *database.Manager
	repository service.TaskRepository
	service    *service.TaskService
	worker     *worker.StatsWorker
	shutdowns  []func() // выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initRepository(ctx); err != nil {
		return err
	}

	a.service = service.NewTaskService(a.repository)
	a.initRouter()

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		a.repository = inmemory.NewTaskStorage()
		return nil

	case config.RepositoryPostgres:
		err := database.Initialize(ctx, a.config.Database.Pool())
		if err != nil && !errors.Is(err, database.ErrAlreadyInitialized) {
			return fmt.Errorf("подключение к базе: %w", err)
		}
		if err != nil {
			logger.Warn("Пул соединений уже создан, используем существующий")
		}

		a.db = database.Instance()
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений...")
			a.db.Close()
		})

		storage := postgres.New(a.db)
		if err := storage.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("подготовка схемы: %w", err)
		}

		a.repository = storage
		a.worker = worker.NewStatsWorker(a.db, a.config.Worker.StatsInterval)
		return nil

	default:
		return fmt.Errorf("неизвестный тип репозитория %q", a.config.Repository.Type)
	}
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))

	handlers.NewTaskHandler(a.service).Routes(r)
	a.router = r
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("запуск сервера: %w", err)
	}
	logger.Info("Сервер запущен", zap.String("addr", listener.Addr().String()))

	if a.worker != nil {
		go a.worker.Start(ctx)
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("работа сервера: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

func (a *App) Shutdown(ctx context.Context) error {
	var err error
	if a.server != nil {
		logger.Info("Остановка сервера...")
		err = a.server.Shutdown(ctx)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil

	if err != nil {
		return fmt.Errorf("остановка сервера: %w", err)
	}
	return nil
}
