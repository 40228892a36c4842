package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nfscan/internal/scan"
	"nfscan/internal/store"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the scan queue",
	}

	queueCmd.AddCommand(newQueueAddCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueResetCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueClearFailedCommand(ctx))

	return queueCmd
}

func newQueueAddCommand(cc *commandContext) *cobra.Command {
	var paramsFlag string
	var tracesFlag string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Enqueue a scan request",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				cfg, err := cc.ensureConfig()
				if err != nil {
					return err
				}
				// Validate up front so a bad request never reaches the daemon.
				if _, err := scan.ParseParams(paramsFlag, cfg); err != nil {
					return err
				}
				if _, err := scan.ParseTraces(tracesFlag); err != nil {
					return err
				}

				item, err := st.Enqueue(ctx, paramsFlag, tracesFlag)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s\n", item.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&paramsFlag, "params", "", "Scan parameters as JSON (defaults from config when omitted)")
	cmd.Flags().StringVar(&tracesFlag, "traces", "", "Trace list as JSON (default S21)")
	return cmd
}

func newQueueListCommand(cc *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				statuses, err := parseQueueStatuses(listStatuses)
				if err != nil {
					return err
				}

				items, err := st.ListQueue(ctx, statuses...)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						shortID(item.ID),
						statusLabel(string(item.Status)),
						formatTime(item.CreatedAt),
						emptyDash(shortID(item.TaskID)),
						emptyDash(truncate(item.Message, 40)),
					})
				}
				out := renderTable(
					[]string{"ID", "Status", "Created", "Task", "Message"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (pending, claimed, done, failed)")
	return cmd
}

func newQueueStatusCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				stats, err := st.QueueStats(ctx)
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				var rows [][]string
				for _, status := range store.AllQueueStatuses() {
					if count, ok := stats[status]; ok {
						rows = append(rows, []string{statusLabel(string(status)), fmt.Sprintf("%d", count)})
					}
				}
				out := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func newQueueRetryCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [item-id ...]",
		Short: "Move failed items back to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				count, err := st.RetryFailed(ctx, args...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Retried %d item(s)\n", count)
				return nil
			})
		},
	}
}

func newQueueResetCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Return claimed items to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				count, err := st.ResetStuckClaimed(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d item(s)\n", count)
				return nil
			})
		},
	}
}

func newQueueRemoveCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a queue item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				removed, err := st.RemoveQueueItem(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("queue item %q not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newQueueClearCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				count, err := st.ClearQueue(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d item(s)\n", count)
				return nil
			})
		},
	}
}

func newQueueClearFailedCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-failed",
		Short: "Remove failed queue items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				count, err := st.ClearFailedQueueItems(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d failed item(s)\n", count)
				return nil
			})
		},
	}
}

func parseQueueStatuses(values []string) ([]store.QueueStatus, error) {
	var statuses []store.QueueStatus
	for _, value := range values {
		status, ok := store.ParseQueueStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown queue status %q (known: %s)", value, knownQueueStatuses())
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func knownQueueStatuses() string {
	all := store.AllQueueStatuses()
	names := make([]string, len(all))
	for i, status := range all {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}
