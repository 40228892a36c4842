package scan

import (
	"context"
	"math"
	"sync"
	"testing"

	"nfscan/internal/drivers"
	"nfscan/internal/store"
)

type memorySink struct {
	mu      sync.Mutex
	batches [][]store.Point
	points  []store.Point
}

func (m *memorySink) AppendPoints(_ context.Context, _ string, points []store.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := append([]store.Point(nil), points...)
	m.batches = append(m.batches, batch)
	m.points = append(m.points, batch...)
	return nil
}

func testPair() *drivers.Pair {
	motion := drivers.NewMockMotion()
	return &drivers.Pair{Motion: motion, Spectrum: drivers.NewMockSpectrum(motion)}
}

func TestRunnerSweepsRowMajor(t *testing.T) {
	sink := &memorySink{}
	runner := NewRunner(testPair(), sink, nil, 4)

	params := Params{XMin: 0, XMax: 2, YMin: 0, YMax: 1, StepMM: 1, ZHeightMM: 5, Feed: 600, FreqHz: 2.4e9}
	result, err := runner.Run(context.Background(), "task-1", params, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Points != 6 {
		t.Fatalf("expected 6 points, got %d", result.Points)
	}
	if len(sink.points) != 6 {
		t.Fatalf("expected 6 persisted points, got %d", len(sink.points))
	}

	// Row-major traversal sweeps all X for the first Y before advancing.
	want := [][2]float64{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	for i, p := range sink.points {
		if p.X != want[i][0] || p.Y != want[i][1] {
			t.Fatalf("point %d at (%v, %v), want (%v, %v)", i, p.X, p.Y, want[i][0], want[i][1])
		}
		if p.Z != 5 {
			t.Fatalf("point %d z = %v, want 5", i, p.Z)
		}
		if p.Value == nil {
			t.Fatalf("point %d has no value", i)
		}
		if got := math.Hypot(p.X, p.Y); math.Abs(*p.Value-got) > 1e-9 {
			t.Fatalf("point %d value %v, want %v", i, *p.Value, got)
		}
	}

	grid, ok := result.TraceGrids["S21"]
	if !ok {
		t.Fatal("expected default trace grid")
	}
	if len(grid) != 2 || len(grid[0]) != 3 {
		t.Fatalf("unexpected grid shape %dx%d", len(grid), len(grid[0]))
	}
	if math.Abs(grid[1][2]-math.Hypot(2, 1)) > 1e-9 {
		t.Fatalf("grid[1][2] = %v, want %v", grid[1][2], math.Hypot(2, 1))
	}
}

func TestRunnerMultipleTraces(t *testing.T) {
	sink := &memorySink{}
	runner := NewRunner(testPair(), sink, nil, 16)

	params := Params{XMin: 0, XMax: 1, YMin: 0, YMax: 0, StepMM: 1, ZHeightMM: 1, Feed: 600, FreqHz: 1e9}
	traces := []Trace{{Name: "S21"}, {Name: "S11"}}
	result, err := runner.Run(context.Background(), "task-2", params, traces)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.TraceGrids) != 2 {
		t.Fatalf("expected 2 trace grids, got %d", len(result.TraceGrids))
	}
	// The stored value comes from the first trace.
	if v := sink.points[1].Value; v == nil || math.Abs(*v-1) > 1e-9 {
		t.Fatalf("expected primary trace value 1, got %v", v)
	}
	// The mock offsets the second trace by a constant.
	if got := result.TraceGrids["S11"][0][1]; math.Abs(got-11) > 1e-9 {
		t.Fatalf("S11 grid value %v, want 11", got)
	}
}

func TestRunnerBatchesFlushes(t *testing.T) {
	sink := &memorySink{}
	runner := NewRunner(testPair(), sink, nil, 4)

	params := Params{XMin: 0, XMax: 9, YMin: 0, YMax: 0, StepMM: 1, ZHeightMM: 1, Feed: 600, FreqHz: 1e9}
	if _, err := runner.Run(context.Background(), "task-3", params, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 10 points at batch size 4 flush as 4, 4, 2.
	if len(sink.batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(sink.batches))
	}
	if len(sink.batches[2]) != 2 {
		t.Fatalf("expected final batch of 2, got %d", len(sink.batches[2]))
	}
}

func TestRunnerHonorsCancellation(t *testing.T) {
	sink := &memorySink{}
	runner := NewRunner(testPair(), sink, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	params := Params{XMin: 0, XMax: 5, YMin: 0, YMax: 5, StepMM: 1, ZHeightMM: 1, Feed: 600, FreqHz: 1e9}
	if _, err := runner.Run(ctx, "task-4", params, nil); err == nil {
		t.Fatal("expected cancellation error")
	}
	if len(sink.points) != 0 {
		t.Fatalf("expected no points after immediate cancellation, got %d", len(sink.points))
	}
}
