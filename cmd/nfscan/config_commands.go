package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nfscan/internal/config"
)

func newConfigCommand(cc *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(cc))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write an annotated sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			if !forceFlag {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.SampleConfig()), 0o644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing configuration file")
	return cmd
}

func newConfigShowCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data directory:   %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "Log directory:    %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Export directory: %s\n", cfg.Paths.ExportDir)
			fmt.Fprintf(out, "Database:         %s\n", cfg.DatabasePath())
			fmt.Fprintf(out, "Motion driver:    %s\n", cfg.Drivers.Motion)
			fmt.Fprintf(out, "Spectrum driver:  %s\n", cfg.Drivers.Spectrum)
			fmt.Fprintf(out, "Step:             %g mm\n", cfg.Scan.StepMM)
			fmt.Fprintf(out, "Z height:         %g mm\n", cfg.Scan.ZHeightMM)
			fmt.Fprintf(out, "Feed:             %g mm/min\n", cfg.Scan.Feed)
			fmt.Fprintf(out, "Frequency:        %g Hz\n", cfg.Scan.FreqHz)
			fmt.Fprintf(out, "Area:             x [%g, %g], y [%g, %g]\n",
				cfg.Scan.Area.XMin, cfg.Scan.Area.XMax, cfg.Scan.Area.YMin, cfg.Scan.Area.YMax)
			fmt.Fprintf(out, "Poll interval:    %ds\n", cfg.Workflow.QueuePollInterval)
			fmt.Fprintf(out, "Point batch size: %d\n", cfg.Workflow.PointBatchSize)
			fmt.Fprintf(out, "Log format:       %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log level:        %s\n", cfg.Logging.Level)
			return nil
		},
	}
}
