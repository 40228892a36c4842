package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nfscan/internal/store"
)

func newTaskCommand(ctx *commandContext) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect and manage scan tasks",
	}

	taskCmd.AddCommand(newTaskListCommand(ctx))
	taskCmd.AddCommand(newTaskShowCommand(ctx))
	taskCmd.AddCommand(newTaskNoteCommand(ctx))
	taskCmd.AddCommand(newTaskDeleteCommand(ctx))

	return taskCmd
}

func newTaskListCommand(cc *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scan tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				statuses, err := parseTaskStatuses(listStatuses)
				if err != nil {
					return err
				}

				tasks, err := st.ListTasks(ctx, statuses...)
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
					return nil
				}

				rows := make([][]string, 0, len(tasks))
				for _, task := range tasks {
					points, err := st.CountPoints(ctx, task.ID)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						shortID(task.ID),
						truncate(task.Name, 30),
						statusLabel(string(task.Status)),
						formatTime(task.CreatedAt),
						fmt.Sprintf("%d", points),
					})
				}
				out := renderTable(
					[]string{"ID", "Name", "Status", "Created", "Points"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (created, running, done, failed)")
	return cmd
}

func newTaskShowCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				task, err := st.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				points, err := st.CountPoints(ctx, task.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:      %s\n", task.ID)
				fmt.Fprintf(out, "Name:    %s\n", task.Name)
				fmt.Fprintf(out, "Status:  %s\n", statusLabel(string(task.Status)))
				fmt.Fprintf(out, "Created: %s\n", formatTime(task.CreatedAt))
				fmt.Fprintf(out, "Points:  %d\n", points)
				if strings.TrimSpace(task.Note) != "" {
					fmt.Fprintf(out, "Note:    %s\n", task.Note)
				}
				fmt.Fprintf(out, "Config:  %s\n", task.Config)
				return nil
			})
		},
	}
}

func newTaskNoteCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "note <task-id> <text>",
		Short: "Set the free-text note on a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				note := strings.Join(args[1:], " ")
				if err := st.AnnotateTask(ctx, args[0], note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Annotated %s\n", args[0])
				return nil
			})
		},
	}
}

func newTaskDeleteCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task and its points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				if err := st.DeleteTask(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func parseTaskStatuses(values []string) ([]store.TaskStatus, error) {
	var statuses []store.TaskStatus
	for _, value := range values {
		status, ok := store.ParseTaskStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown task status %q (known: %s)", value, knownTaskStatuses())
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func knownTaskStatuses() string {
	all := store.AllTaskStatuses()
	names := make([]string, len(all))
	for i, status := range all {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}
