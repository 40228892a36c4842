package store

import (
	"strings"
	"time"
)

// TaskStatus represents the lifecycle of a scan task.
type TaskStatus string

const (
	TaskCreated TaskStatus = "created"
	TaskRunning TaskStatus = "running"
	TaskDone    TaskStatus = "done"
	TaskFailed  TaskStatus = "failed"
)

var allTaskStatuses = []TaskStatus{
	TaskCreated,
	TaskRunning,
	TaskDone,
	TaskFailed,
}

// taskTransitions is the allowed-transition table for scan tasks. Forward
// only: nothing leaves done or failed.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskCreated: {TaskRunning},
	TaskRunning: {TaskDone, TaskFailed},
}

// AllTaskStatuses returns the ordered list of known task statuses.
func AllTaskStatuses() []TaskStatus {
	cp := make([]TaskStatus, len(allTaskStatuses))
	copy(cp, allTaskStatuses)
	return cp
}

// ParseTaskStatus converts a string into a known TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	normalized := TaskStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allTaskStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// Terminal reports whether no further transitions leave this status.
func (s TaskStatus) Terminal() bool {
	return len(taskTransitions[s]) == 0
}

// Task represents a scan run persisted in scan_task.
type Task struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Status    TaskStatus
	Config    string
	Note      string
}

// Point represents one spatial sample belonging to a task. Value is nil
// when no sample was recorded for the position.
type Point struct {
	ID     int64
	TaskID string
	X      float64
	Y      float64
	Z      float64
	Value  *float64
}

// QueueStatus represents the lifecycle of a scan queue item. The vocabulary
// is deliberately distinct from task statuses: pending -> claimed ->
// done|failed, with failed -> pending reserved for explicit retry.
type QueueStatus string

const (
	QueuePending QueueStatus = "pending"
	QueueClaimed QueueStatus = "claimed"
	QueueDone    QueueStatus = "done"
	QueueFailed  QueueStatus = "failed"
)

var allQueueStatuses = []QueueStatus{
	QueuePending,
	QueueClaimed,
	QueueDone,
	QueueFailed,
}

// AllQueueStatuses returns the ordered list of known queue statuses.
func AllQueueStatuses() []QueueStatus {
	cp := make([]QueueStatus, len(allQueueStatuses))
	copy(cp, allQueueStatuses)
	return cp
}

// ParseQueueStatus converts a string into a known QueueStatus.
func ParseQueueStatus(value string) (QueueStatus, bool) {
	normalized := QueueStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allQueueStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// QueueItem represents a scan request persisted in scan_queue_item.
// Params and TraceList are stored verbatim; TaskID is empty until a worker
// claims the item and binds the task created for it.
type QueueItem struct {
	ID        string
	CreatedAt time.Time
	Status    QueueStatus
	Params    string
	TraceList string
	TaskID    string
	Message   string
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total   int
	Pending int
	Claimed int
	Done    int
	Failed  int
}

// DatabaseHealth captures diagnostic information about the scan database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	TaskCount        int
	PointCount       int
	QueueItemCount   int
	Error            string
}
