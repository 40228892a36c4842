package drivers

import (
	"errors"
	"math"
	"sync"
)

// Spectrum samples field strength at the current probe position.
type Spectrum interface {
	Connect() error
	SetFrequency(hz float64) error
	// MeasureTracePoint reads one sample for the named trace at the
	// position the motion driver last settled at.
	MeasureTracePoint(trace string) (float64, error)
	Disconnect() error
}

// MockSpectrum simulates an analyzer. The reading is the radial distance of
// the current mock motion position plus a fixed per-trace offset, which
// gives deterministic values tests can predict.
type MockSpectrum struct {
	mu        sync.Mutex
	motion    *MockMotion
	connected bool
	freqHz    float64
	offsets   map[string]float64
	nextOff   float64
}

// NewMockSpectrum returns a simulated spectrum driver reading positions from
// the given mock motion driver.
func NewMockSpectrum(motion *MockMotion) *MockSpectrum {
	return &MockSpectrum{motion: motion, offsets: make(map[string]float64)}
}

func (s *MockSpectrum) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = true
	return nil
}

func (s *MockSpectrum) SetFrequency(hz float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return errors.New("spectrum driver not connected")
	}
	if hz <= 0 {
		return errors.New("frequency must be positive")
	}
	s.freqHz = hz
	return nil
}

func (s *MockSpectrum) MeasureTracePoint(trace string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return 0, errors.New("spectrum driver not connected")
	}
	if s.freqHz == 0 {
		return 0, errors.New("frequency not set")
	}

	offset, ok := s.offsets[trace]
	if !ok {
		offset = s.nextOff
		s.offsets[trace] = offset
		s.nextOff += 10
	}

	s.motion.mu.Lock()
	x, y := s.motion.X, s.motion.Y
	s.motion.mu.Unlock()

	return math.Hypot(x, y) + offset, nil
}

func (s *MockSpectrum) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}
