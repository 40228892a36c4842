package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nfscan/internal/idgen"
)

// Enqueue inserts a new pending scan request. Params and the trace list are
// stored verbatim; the item id is a ULID so lexicographic order follows
// creation time.
func (s *Store) Enqueue(ctx context.Context, paramsJSON, traceListJSON string) (*QueueItem, error) {
	if paramsJSON == "" {
		paramsJSON = "{}"
	}
	if traceListJSON == "" {
		traceListJSON = "[]"
	}
	id := idgen.NewItemID()
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO scan_queue_item (id, created_at, status, params_json, trace_list_json, task_id, message)
         VALUES (?, ?, ?, ?, ?, NULL, '')`,
		id,
		timestamp,
		QueuePending,
		paramsJSON,
		traceListJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("enqueue item: %w", classifyConstraint(err))
	}

	return s.GetQueueItem(ctx, id)
}

// GetQueueItem fetches a queue item by identifier.
func (s *Store) GetQueueItem(ctx context.Context, id string) (*QueueItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM scan_queue_item WHERE id = ?`, id)
	item, err := scanQueueItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get queue item %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get queue item: %w", err)
	}
	return item, nil
}

// ClaimNext flips the oldest pending item to claimed and returns it, or nil
// when the queue has no pending work. The select and the status flip happen
// in one statement so concurrent claimants never receive the same item.
func (s *Store) ClaimNext(ctx context.Context) (*QueueItem, error) {
	ctx = ensureContext(ctx)
	var item *QueueItem
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(
			ctx,
			`UPDATE scan_queue_item
             SET status = ?
             WHERE id = (
                 SELECT id FROM scan_queue_item
                 WHERE status = ?
                 ORDER BY created_at, id
                 LIMIT 1
             ) AND status = ?
             RETURNING `+itemColumns,
			QueueClaimed,
			QueuePending,
			QueuePending,
		)
		claimed, err := scanQueueItem(row)
		if errors.Is(err, sql.ErrNoRows) {
			item = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("claim next: %w", err)
		}
		item = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AttachTask binds the task created to fulfill a claimed item. The binding
// happens exactly once: items outside the claimed state or already bound
// fail with ErrInvalidState, unknown tasks with ErrReference.
func (s *Store) AttachTask(ctx context.Context, itemID, taskID string) error {
	if taskID == "" {
		return errors.New("task id is empty")
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE scan_queue_item SET task_id = ? WHERE id = ? AND status = ? AND task_id IS NULL`,
		taskID,
		itemID,
		QueueClaimed,
	)
	if err != nil {
		return fmt.Errorf("attach task: %w", classifyConstraint(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	item, err := s.GetQueueItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.TaskID != "" {
		return fmt.Errorf("attach task: %w: item %q already bound to task %q", ErrInvalidState, itemID, item.TaskID)
	}
	return fmt.Errorf("attach task: %w: item %q is %s, not %s", ErrInvalidState, itemID, item.Status, QueueClaimed)
}

// Complete finishes a claimed item, recording the outcome message. Items in
// any other state fail with ErrInvalidState.
func (s *Store) Complete(ctx context.Context, itemID string, success bool, message string) error {
	status := QueueDone
	if !success {
		status = QueueFailed
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE scan_queue_item SET status = ?, message = ? WHERE id = ? AND status = ?`,
		status,
		message,
		itemID,
		QueueClaimed,
	)
	if err != nil {
		return fmt.Errorf("complete item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	item, err := s.GetQueueItem(ctx, itemID)
	if err != nil {
		return err
	}
	return fmt.Errorf("complete item: %w: item %q is %s, not %s", ErrInvalidState, itemID, item.Status, QueueClaimed)
}

// ListByStatus returns queue items matching a status ordered by creation time.
func (s *Store) ListByStatus(ctx context.Context, status QueueStatus) ([]*QueueItem, error) {
	return s.ListQueue(ctx, status)
}

// ListQueue returns queue items filtered by status set (or all items when no
// status is provided), ordered by creation time.
func (s *Store) ListQueue(ctx context.Context, statuses ...QueueStatus) ([]*QueueItem, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + itemColumns + ` FROM scan_queue_item`
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
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	var items []*QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RetryFailed moves failed items back to pending for reprocessing. With no
// ids every failed item is retried. The task binding survives the retry;
// task_id is set exactly once and never cleared.
func (s *Store) RetryFailed(ctx context.Context, ids ...string) (int64, error) {
	if len(ids) == 0 {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE scan_queue_item SET status = ?, message = '' WHERE status = ?`,
			QueuePending,
			QueueFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed items: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, QueuePending, QueueFailed)
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE scan_queue_item SET status = ?, message = '' WHERE status = ? AND id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("retry selected items: %w", err)
	}
	return res.RowsAffected()
}

// ResetStuckClaimed returns claimed items to pending so work stranded by an
// interrupted worker can be reclaimed. The task binding survives the reset.
func (s *Store) ResetStuckClaimed(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE scan_queue_item SET status = ?, message = '' WHERE status = ?`,
		QueuePending,
		QueueClaimed,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck items: %w", err)
	}
	return res.RowsAffected()
}

// RemoveQueueItem deletes an item by identifier.
func (s *Store) RemoveQueueItem(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM scan_queue_item WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete queue item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ClearQueue removes all items from the queue.
func (s *Store) ClearQueue(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM scan_queue_item`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailedQueueItems removes only failed items from the queue.
func (s *Store) ClearFailedQueueItems(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM scan_queue_item WHERE status = ?`, QueueFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}
