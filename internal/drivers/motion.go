package drivers

import (
	"errors"
	"sync"
)

// Motion moves the probe head. Implementations must be safe to disconnect
// more than once.
type Motion interface {
	Connect() error
	Home() error
	// MoveTo positions the probe at (x, y, z) millimeters at the given
	// feed rate in mm/min, blocking until the move settles.
	MoveTo(x, y, z, feed float64) error
	Disconnect() error
}

// MockMotion simulates a gantry. It records the last commanded position and
// every visited coordinate so tests can assert on the sweep.
type MockMotion struct {
	mu        sync.Mutex
	connected bool
	homed     bool
	X, Y, Z   float64
	Visited   [][3]float64
}

// NewMockMotion returns a simulated motion driver.
func NewMockMotion() *MockMotion {
	return &MockMotion{}
}

func (m *MockMotion) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = true
	return nil
}

func (m *MockMotion) Home() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return errors.New("motion driver not connected")
	}
	m.homed = true
	m.X, m.Y, m.Z = 0, 0, 0
	return nil
}

func (m *MockMotion) MoveTo(x, y, z, feed float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return errors.New("motion driver not connected")
	}
	if !m.homed {
		return errors.New("motion driver not homed")
	}
	if feed <= 0 {
		return errors.New("feed must be positive")
	}
	m.X, m.Y, m.Z = x, y, z
	m.Visited = append(m.Visited, [3]float64{x, y, z})
	return nil
}

func (m *MockMotion) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// VisitedCount returns how many moves were commanded.
func (m *MockMotion) VisitedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Visited)
}
