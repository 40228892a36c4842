package scan

import (
	"context"
	"fmt"
	"log/slog"

	"nfscan/internal/drivers"
	"nfscan/internal/logging"
	"nfscan/internal/store"
)

// PointSink persists point batches produced by a sweep.
type PointSink interface {
	AppendPoints(ctx context.Context, taskID string, points []store.Point) error
}

// Result summarizes one completed sweep. TraceGrids maps trace name to a
// row-major value grid, rows indexed by Y and columns by X.
type Result struct {
	Grid       Grid
	Points     int
	TraceGrids map[string][][]float64
}

// Runner executes sweeps against a driver pair.
type Runner struct {
	drivers   *drivers.Pair
	sink      PointSink
	logger    *slog.Logger
	batchSize int
}

// NewRunner builds a runner. batchSize bounds how many points accumulate
// before a flush to the sink.
func NewRunner(pair *drivers.Pair, sink PointSink, logger *slog.Logger, batchSize int) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Runner{drivers: pair, sink: sink, logger: logger, batchSize: batchSize}
}

// Run sweeps the grid described by params, measuring every trace at every
// cell. The first trace's reading becomes the stored point value; the full
// per-trace grids come back in the Result for export. Cancellation is
// honored between cells, leaving the points already flushed in place.
func (r *Runner) Run(ctx context.Context, taskID string, params Params, traces []Trace) (*Result, error) {
	if len(traces) == 0 {
		traces = DefaultTraces()
	}

	motion := r.drivers.Motion
	spectrum := r.drivers.Spectrum

	if err := motion.Connect(); err != nil {
		return nil, fmt.Errorf("connect motion driver: %w", err)
	}
	defer func() { _ = motion.Disconnect() }()

	if err := spectrum.Connect(); err != nil {
		return nil, fmt.Errorf("connect spectrum driver: %w", err)
	}
	defer func() { _ = spectrum.Disconnect() }()

	if err := spectrum.SetFrequency(params.FreqHz); err != nil {
		return nil, fmt.Errorf("set frequency: %w", err)
	}
	if err := motion.Home(); err != nil {
		return nil, fmt.Errorf("home motion driver: %w", err)
	}

	grid := BuildGrid(params)
	result := &Result{
		Grid:       grid,
		TraceGrids: make(map[string][][]float64, len(traces)),
	}
	for _, tr := range traces {
		rows := make([][]float64, len(grid.Ys))
		for i := range rows {
			rows[i] = make([]float64, len(grid.Xs))
		}
		result.TraceGrids[tr.Name] = rows
	}

	r.logger.Info("starting sweep",
		logging.FieldTaskID, taskID,
		"cells", grid.CellCount(),
		"traces", len(traces),
		"freq_hz", params.FreqHz)

	batch := make([]store.Point, 0, r.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.sink.AppendPoints(ctx, taskID, batch); err != nil {
			return fmt.Errorf("persist points: %w", err)
		}
		result.Points += len(batch)
		batch = batch[:0]
		return nil
	}

	for yi, y := range grid.Ys {
		for xi, x := range grid.Xs {
			if err := ctx.Err(); err != nil {
				_ = flush()
				return result, err
			}

			if err := motion.MoveTo(x, y, params.ZHeightMM, params.Feed); err != nil {
				_ = flush()
				return result, fmt.Errorf("move to (%v, %v): %w", x, y, err)
			}

			var primary *float64
			for ti, tr := range traces {
				reading, err := spectrum.MeasureTracePoint(tr.Name)
				if err != nil {
					_ = flush()
					return result, fmt.Errorf("measure trace %q at (%v, %v): %w", tr.Name, x, y, err)
				}
				result.TraceGrids[tr.Name][yi][xi] = reading
				if ti == 0 {
					v := reading
					primary = &v
				}
			}

			batch = append(batch, store.Point{X: x, Y: y, Z: params.ZHeightMM, Value: primary})
			if len(batch) >= r.batchSize {
				if err := flush(); err != nil {
					return result, err
				}
			}
		}
	}

	if err := flush(); err != nil {
		return result, err
	}

	r.logger.Info("sweep complete", logging.FieldTaskID, taskID, "points", result.Points)
	return result, nil
}
