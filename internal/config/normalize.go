package config

import "strings"

func (c *Config) normalize() error {
	paths := []*string{
		&c.Paths.DataDir,
		&c.Paths.LogDir,
		&c.Paths.ExportDir,
	}
	for _, field := range paths {
		expanded, err := expandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Drivers.Motion = strings.ToLower(strings.TrimSpace(c.Drivers.Motion))
	c.Drivers.Spectrum = strings.ToLower(strings.TrimSpace(c.Drivers.Spectrum))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.PointBatchSize <= 0 {
		c.Workflow.PointBatchSize = defaultPointBatchSize
	}
	return nil
}
