package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nfscan/internal/store"
)

func newHealthCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check scan database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				health, err := st.CheckHealth(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database:  %s\n", health.DBPath)
				fmt.Fprintf(out, "Exists:    %s\n", yesNo(health.DatabaseExists))
				fmt.Fprintf(out, "Readable:  %s\n", yesNo(health.DatabaseReadable))
				fmt.Fprintf(out, "Integrity: %s\n", yesNo(health.IntegrityCheck))
				if len(health.MissingTables) > 0 {
					fmt.Fprintf(out, "Missing:   %s\n", strings.Join(health.MissingTables, ", "))
				}
				fmt.Fprintf(out, "Tasks:     %d\n", health.TaskCount)
				fmt.Fprintf(out, "Points:    %d\n", health.PointCount)
				fmt.Fprintf(out, "Queue:     %d\n", health.QueueItemCount)

				summary, err := st.Health(ctx)
				if err != nil {
					return err
				}
				if summary.Total > 0 {
					fmt.Fprintf(out, "Queue breakdown: %d pending, %d claimed, %d done, %d failed\n",
						summary.Pending, summary.Claimed, summary.Done, summary.Failed)
				}
				return nil
			})
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
