package store

import (
	"database/sql"
	"errors"
	"time"
)

const taskColumns = "id, name, created_at, status, config_json, note"

func scanTask(scanner interface{ Scan(dest ...any) error }) (*Task, error) {
	var (
		id         string
		name       string
		createdRaw string
		statusStr  string
		configJSON string
		note       sql.NullString
	)

	if err := scanner.Scan(&id, &name, &createdRaw, &statusStr, &configJSON, &note); err != nil {
		return nil, err
	}

	task := &Task{
		ID:     id,
		Name:   name,
		Status: TaskStatus(statusStr),
		Config: configJSON,
		Note:   note.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		task.CreatedAt = created
	}
	return task, nil
}

const pointColumns = "id, task_id, x, y, z, value"

func scanPoint(scanner interface{ Scan(dest ...any) error }) (*Point, error) {
	var (
		id     int64
		taskID string
		x      float64
		y      float64
		z      float64
		value  sql.NullFloat64
	)

	if err := scanner.Scan(&id, &taskID, &x, &y, &z, &value); err != nil {
		return nil, err
	}

	point := &Point{ID: id, TaskID: taskID, X: x, Y: y, Z: z}
	if value.Valid {
		v := value.Float64
		point.Value = &v
	}
	return point, nil
}

const itemColumns = "id, created_at, status, params_json, trace_list_json, task_id, message"

func scanQueueItem(scanner interface{ Scan(dest ...any) error }) (*QueueItem, error) {
	var (
		id         string
		createdRaw string
		statusStr  string
		paramsJSON string
		tracesJSON string
		taskID     sql.NullString
		message    sql.NullString
	)

	if err := scanner.Scan(&id, &createdRaw, &statusStr, &paramsJSON, &tracesJSON, &taskID, &message); err != nil {
		return nil, err
	}

	item := &QueueItem{
		ID:        id,
		Status:    QueueStatus(statusStr),
		Params:    paramsJSON,
		TraceList: tracesJSON,
		TaskID:    taskID.String,
		Message:   message.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		item.CreatedAt = created
	}
	return item, nil
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
