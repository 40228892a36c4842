package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// QueueStats returns a count of queue items grouped by status.
func (s *Store) QueueStats(ctx context.Context) (map[QueueStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM scan_queue_item GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[QueueStatus]int)
	for rows.Next() {
		var status QueueStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates queue state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.QueueStats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case QueuePending:
			health.Pending += count
		case QueueClaimed:
			health.Claimed += count
		case QueueDone:
			health.Done += count
		case QueueFailed:
			health.Failed += count
		}
	}
	return health, nil
}

// CheckHealth returns diagnostic information about the scan database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("scan database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat scan database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("scan database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("scan database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping scan database: %w", err)
	}
	health.DatabaseReadable = true

	expected := []string{"scan_task", "scan_point", "scan_queue_item"}
	missing := make(map[string]struct{}, len(expected))
	for _, table := range expected {
		missing[table] = struct{}{}
	}
	rows, err := s.db.QueryContext(connCtx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('scan_task', 'scan_point', 'scan_queue_item')")
	if err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("scan table info: %w", err)
		}
		health.TablesPresent = append(health.TablesPresent, name)
		delete(missing, name)
	}
	if err := rows.Err(); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("iterate table info: %w", err)
	}
	for table := range missing {
		health.MissingTables = append(health.MissingTables, table)
	}

	if len(health.MissingTables) == 0 {
		counts := []struct {
			query string
			dest  *int
		}{
			{"SELECT COUNT(*) FROM scan_task", &health.TaskCount},
			{"SELECT COUNT(*) FROM scan_point", &health.PointCount},
			{"SELECT COUNT(*) FROM scan_queue_item", &health.QueueItemCount},
		}
		for _, c := range counts {
			row := s.db.QueryRowContext(connCtx, c.query)
			if err := row.Scan(c.dest); err != nil && !errors.Is(err, sql.ErrNoRows) {
				health.Error = err.Error()
				return health, fmt.Errorf("count rows: %w", err)
			}
		}
	}

	row := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
