package config

const (
	defaultDataDir           = "~/.local/share/nfscan/data"
	defaultLogDir            = "~/.local/share/nfscan/logs"
	defaultExportDir         = "~/.local/share/nfscan/exports"
	defaultStepMM            = 1.0
	defaultZHeightMM         = 1.0
	defaultFeed              = 1200.0
	defaultFreqHz            = 2.4e9
	defaultAreaXMin          = -5.0
	defaultAreaXMax          = 5.0
	defaultAreaYMin          = -5.0
	defaultAreaYMax          = 5.0
	defaultMotionDriver      = "mock"
	defaultSpectrumDriver    = "mock"
	defaultQueuePollInterval = 2
	defaultPointBatchSize    = 256
	defaultMinFreeSpaceGiB   = 1
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Scan: Scan{
			StepMM:    defaultStepMM,
			ZHeightMM: defaultZHeightMM,
			Feed:      defaultFeed,
			FreqHz:    defaultFreqHz,
			Area: Area{
				XMin: defaultAreaXMin,
				XMax: defaultAreaXMax,
				YMin: defaultAreaYMin,
				YMax: defaultAreaYMax,
			},
		},
		Drivers: Drivers{
			Motion:   defaultMotionDriver,
			Spectrum: defaultSpectrumDriver,
		},
		Workflow: Workflow{
			QueuePollInterval: defaultQueuePollInterval,
			PointBatchSize:    defaultPointBatchSize,
			MinFreeSpaceGiB:   defaultMinFreeSpaceGiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
