package store

import (
	"context"
	"fmt"
)

// AppendPoints bulk-inserts point samples for a task. The batch is atomic:
// either every point commits or none do. An unknown task id fails the whole
// batch with ErrReference.
func (s *Store) AppendPoints(ctx context.Context, taskID string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin append tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO scan_point (task_id, x, y, z, value) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, point := range points {
			if _, err := stmt.ExecContext(ctx, taskID, point.X, point.Y, point.Z, nullableFloat(point.Value)); err != nil {
				return fmt.Errorf("insert point: %w", classifyConstraint(err))
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit points: %w", err)
		}
		return nil
	})
}

// PointsForTask returns a task's points in insertion order.
func (s *Store) PointsForTask(ctx context.Context, taskID string) ([]*Point, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pointColumns+` FROM scan_point WHERE task_id = ? ORDER BY id`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	var points []*Point
	for rows.Next() {
		point, err := scanPoint(rows)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}

// CountPoints returns the number of points recorded for a task.
func (s *Store) CountPoints(ctx context.Context, taskID string) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM scan_point WHERE task_id = ?`, taskID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	return count, nil
}
