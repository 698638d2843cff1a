package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"taskStore/internal/config"
	"taskStore/internal/database"
	"taskStore/internal/logger"
	"taskStore/internal/models/task"
	"taskStore/internal/repository/task/inmemory"
	"taskStore/internal/repository/task/postgres"
	"taskStore/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	repoType   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "taskctl",
	Short:        "Работа с хранилищем задач из командной строки",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return err
		}
		if verbose {
			return logger.Init(true)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "путь к файлу конфигурации")
	rootCmd.PersistentFlags().StringVar(&repoType, "repository", "", "тип хранилища: postgres или inmemory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный лог")
}

// openService поднимает хранилище по конфигурации. close освобождает пул.
func openService(ctx context.Context) (*service.TaskService, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if repoType != "" {
		cfg.Repository.Type = repoType
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	if cfg.Repository.Type == config.RepositoryInMemory {
		return service.NewTaskService(inmemory.NewTaskStorage()), func() {}, nil
	}

	if err := database.Initialize(ctx, cfg.Database.Pool()); err != nil && !errors.Is(err, database.ErrAlreadyInitialized) {
		return nil, nil, err
	}
	db := database.Instance()

	storage := postgres.New(db)
	if err := storage.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return service.NewTaskService(storage), db.Close, nil
}

type taskView struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description"`
	Priority    string     `yaml:"priority"`
	CreatedAt   time.Time  `yaml:"created_at"`
	ExpiredAt   *time.Time `yaml:"expired_at,omitempty"`
	CompletedAt *time.Time `yaml:"completed_at,omitempty"`
	Completed   bool       `yaml:"completed"`
	Expired     bool       `yaml:"expired"`
}

func toView(t *task.Task, now time.Time) taskView {
	return taskView{
		ID:          t.ID.String(),
		Description: t.Description,
		Priority:    t.Priority.String(),
		CreatedAt:   t.CreatedAt,
		ExpiredAt:   t.ExpiredAt,
		CompletedAt: t.CompletedAt,
		Completed:   t.IsCompleted(),
		Expired:     t.IsExpired(now),
	}
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("вывод yaml: %w", err)
	}
	return enc.Close()
}

func printTask(w io.Writer, t *task.Task) error {
	return printYAML(w, toView(t, time.Now()))
}

func printTasks(w io.Writer, tasks []*task.Task) error {
	now := time.Now()
	views := make([]taskView, len(tasks))
	for i, t := range tasks {
		views[i] = toView(t, now)
	}
	return printYAML(w, views)
}
