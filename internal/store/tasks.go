package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nfscan/internal/idgen"
)

// CreateTask inserts a new scan task with a generated identifier. The config
// payload is stored verbatim and never parsed by the store.
func (s *Store) CreateTask(ctx context.Context, name, configJSON string) (*Task, error) {
	return s.CreateTaskWithID(ctx, idgen.NewTaskID(), name, configJSON)
}

// CreateTaskWithID inserts a new scan task under a caller-chosen identifier.
func (s *Store) CreateTaskWithID(ctx context.Context, id, name, configJSON string) (*Task, error) {
	if id == "" {
		return nil, errors.New("task id is empty")
	}
	if configJSON == "" {
		configJSON = "{}"
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO scan_task (id, name, created_at, status, config_json, note)
         VALUES (?, ?, ?, ?, ?, '')`,
		id,
		name,
		timestamp,
		TaskCreated,
		configJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", classifyConstraint(err))
	}

	return s.GetTask(ctx, id)
}

// GetTask fetches a task by identifier.
func (s *Store) GetTask(ctx context.Context, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM scan_task WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// SetTaskStatus advances a task through its lifecycle. The change is a
// compare-and-set against the allowed-transition table; anything else fails
// with ErrInvalidTransition, unknown ids with ErrNotFound.
func (s *Store) SetTaskStatus(ctx context.Context, id string, next TaskStatus) error {
	if _, ok := ParseTaskStatus(string(next)); !ok {
		return fmt.Errorf("set task status: %w: unknown status %q", ErrInvalidTransition, next)
	}

	var froms []TaskStatus
	for from, targets := range taskTransitions {
		for _, target := range targets {
			if target == next {
				froms = append(froms, from)
			}
		}
	}
	if len(froms) == 0 {
		return fmt.Errorf("set task status: %w: %q is not a transition target", ErrInvalidTransition, next)
	}

	placeholders := makePlaceholders(len(froms))
	args := make([]any, 0, len(froms)+2)
	args = append(args, next, id)
	for _, from := range froms {
		args = append(args, from)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE scan_task SET status = ? WHERE id = ? AND status IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("set task status: %w: %s -> %s", ErrInvalidTransition, task.Status, next)
}

// ListTasks returns tasks filtered by status set (or all tasks when no
// status is provided), ordered by creation time.
func (s *Store) ListTasks(ctx context.Context, statuses ...TaskStatus) ([]*Task, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + taskColumns + ` FROM scan_task`
	orderClause := ` ORDER BY created_at, id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// AnnotateTask overwrites the free-text note on a task.
func (s *Store) AnnotateTask(ctx context.Context, id, note string) error {
	res, err := s.execWithRetry(ctx, `UPDATE scan_task SET note = ? WHERE id = ?`, note, id)
	if err != nil {
		return fmt.Errorf("annotate task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("annotate task %q: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteTask removes a task and all of its points in one transaction. The
// schema declares no cascade, so the point delete is explicit. Tasks still
// referenced by a queue item cannot be removed.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin delete tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var refs int
		row := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM scan_queue_item WHERE task_id = ?`, id)
		if err := row.Scan(&refs); err != nil {
			return fmt.Errorf("count queue references: %w", err)
		}
		if refs > 0 {
			return fmt.Errorf("delete task %q: %w: referenced by %d queue item(s)", id, ErrInvalidState, refs)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM scan_point WHERE task_id = ?`, id); err != nil {
			return fmt.Errorf("delete points: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM scan_task WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("delete task %q: %w", id, ErrNotFound)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit delete: %w", err)
		}
		return nil
	})
}
