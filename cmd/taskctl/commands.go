package main

import (
	"fmt"
	"time"

	"taskStore/internal/models/task"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	addPriority  string
	addExpiresIn time.Duration
)

var addCmd = &cobra.Command{
	Use:   "add <описание>",
	Short: "Создать задачу",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, err := task.ParsePriority(addPriority)
		if err != nil {
			return err
		}

		var expiredAt *time.Time
		if addExpiresIn > 0 {
			at := time.Now().Add(addExpiresIn)
			expiredAt = &at
		}

		svc, closeFn, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		created, err := svc.CreateTask(cmd.Context(), args[0], priority, expiredAt)
		if err != nil {
			return err
		}
		return printTask(cmd.OutOrStdout(), created)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать все задачи",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		tasks, err := svc.ListTasks(cmd.Context())
		if err != nil {
			return err
		}
		return printTasks(cmd.OutOrStdout(), tasks)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Показать задачу",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("неверный id задачи: %w", err)
		}

		svc, closeFn, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		found, err := svc.GetTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printTask(cmd.OutOrStdout(), found)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Отметить задачу выполненной или снять отметку",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("неверный id задачи: %w", err)
		}

		svc, closeFn, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		toggled, err := svc.ToggleTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printTask(cmd.OutOrStdout(), toggled)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить задачу",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("неверный id задачи: %w", err)
		}

		svc, closeFn, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := svc.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "задача %s удалена\n", id)
		return nil
	},
}

// demoCmd: сохранить черновик, отметить выполненным, удалить, печатая список после каждого шага.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Сценарий публикации черновика",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		svc, closeFn, err := openService(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		step := func(title string) error {
			tasks, err := svc.ListTasks(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "# %s\n", title)
			return printTasks(out, tasks)
		}

		draft, err := svc.CreateTask(ctx, "Publish this draft", task.PriorityHigh, nil)
		if err != nil {
			return err
		}
		if err := step("после сохранения"); err != nil {
			return err
		}

		if _, err := svc.ToggleTask(ctx, draft.ID); err != nil {
			return err
		}
		if err := step("после отметки о выполнении"); err != nil {
			return err
		}

		if err := svc.DeleteTask(ctx, draft.ID); err != nil {
			return err
		}
		return step("после удаления")
	},
}

func init() {
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(task.PriorityMedium), "приоритет: low, medium или high")
	addCmd.Flags().DurationVar(&addExpiresIn, "expires-in", 0, "срок выполнения от текущего момента, например 24h")

	rootCmd.AddCommand(addCmd, listCmd, getCmd, toggleCmd, deleteCmd, demoCmd)
}
