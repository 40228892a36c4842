package drivers

import (
	"fmt"

	"nfscan/internal/config"
)

// Pair bundles the two instrument drivers a scan needs.
type Pair struct {
	Motion   Motion
	Spectrum Spectrum
}

// ForConfig builds the driver pair named by the configuration. The mock
// spectrum driver always reads positions from the mock motion driver, so a
// mixed mock/real pair is rejected.
func ForConfig(cfg *config.Config) (*Pair, error) {
	if cfg.Drivers.Motion != "mock" {
		return nil, fmt.Errorf("unknown motion driver %q", cfg.Drivers.Motion)
	}
	if cfg.Drivers.Spectrum != "mock" {
		return nil, fmt.Errorf("unknown spectrum driver %q", cfg.Drivers.Spectrum)
	}
	motion := NewMockMotion()
	return &Pair{Motion: motion, Spectrum: NewMockSpectrum(motion)}, nil
}
