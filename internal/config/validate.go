package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateDrivers(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Paths.ExportDir == "" {
		return errors.New("paths.export_dir must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.StepMM <= 0 {
		return errors.New("scan.step_mm must be positive")
	}
	if c.Scan.Feed <= 0 {
		return errors.New("scan.feed must be positive")
	}
	if c.Scan.FreqHz <= 0 {
		return errors.New("scan.freq_hz must be positive")
	}
	if c.Scan.Area.XMax < c.Scan.Area.XMin {
		return errors.New("scan.area.x_max must not be below x_min")
	}
	if c.Scan.Area.YMax < c.Scan.Area.YMin {
		return errors.New("scan.area.y_max must not be below y_min")
	}
	return nil
}

func (c *Config) validateDrivers() error {
	if c.Drivers.Motion == "" {
		return errors.New("drivers.motion must be set")
	}
	if c.Drivers.Spectrum == "" {
		return errors.New("drivers.spectrum must be set")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.QueuePollInterval <= 0 {
		return errors.New("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.PointBatchSize <= 0 {
		return errors.New("workflow.point_batch_size must be positive")
	}
	if c.Workflow.MinFreeSpaceGiB < 0 {
		return errors.New("workflow.min_free_space_gib must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
