package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nfscan/internal/export"
	"nfscan/internal/store"
)

func newExportCommand(cc *commandContext) *cobra.Command {
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export <task-id>",
		Short: "Export a task's points as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cc.withStore(func(ctx context.Context, st *store.Store) error {
				taskID := args[0]
				task, err := st.GetTask(ctx, taskID)
				if err != nil {
					return err
				}

				// "-" streams to stdout for piping.
				if outFlag == "-" {
					_, err := export.PointsCSV(ctx, st, task.ID, cmd.OutOrStdout())
					return err
				}

				cfg, err := cc.ensureConfig()
				if err != nil {
					return err
				}
				path := outFlag
				if path == "" {
					path = filepath.Join(cfg.Paths.ExportDir, task.ID+".csv")
				}
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}

				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				rows, err := export.PointsCSV(ctx, st, task.ID, file)
				if cerr := file.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d point(s) to %s\n", rows, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output path (default <export_dir>/<task-id>.csv, - for stdout)")
	return cmd
}
