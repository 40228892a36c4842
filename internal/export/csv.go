package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"nfscan/internal/scan"
	"nfscan/internal/store"
)

// PointSource reads persisted points for a task.
type PointSource interface {
	PointsForTask(ctx context.Context, taskID string) ([]*store.Point, error)
}

// PointsCSV writes a task's points as CSV with header x,y,z,value and
// returns the number of data rows written. A point with no recorded value
// gets an empty value field.
func PointsCSV(ctx context.Context, src PointSource, taskID string, w io.Writer) (int, error) {
	points, err := src.PointsForTask(ctx, taskID)
	if err != nil {
		return 0, fmt.Errorf("load points: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "z", "value"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	for _, p := range points {
		value := ""
		if p.Value != nil {
			value = formatFloat(*p.Value)
		}
		record := []string{formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z), value}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write point: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(points), nil
}

// TraceCSV writes one trace's value grid as CSV with header x,y,value,
// row-major in the same order the sweep visited the cells.
func TraceCSV(w io.Writer, grid scan.Grid, values [][]float64) error {
	if len(values) != len(grid.Ys) {
		return fmt.Errorf("grid has %d rows, values has %d", len(grid.Ys), len(values))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for yi, y := range grid.Ys {
		if len(values[yi]) != len(grid.Xs) {
			return fmt.Errorf("row %d has %d columns, grid has %d", yi, len(values[yi]), len(grid.Xs))
		}
		for xi, x := range grid.Xs {
			record := []string{formatFloat(x), formatFloat(y), formatFloat(values[yi][xi])}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
