package logging

// Standardized structured logging keys. Using the same names everywhere
// keeps log lines joinable across components.
const (
	// FieldComponent is the key for component names (workflow, store, cli).
	FieldComponent = "component"
	// FieldTaskID is the key for scan task identifiers.
	FieldTaskID = "task_id"
	// FieldItemID is the key for queue item identifiers.
	FieldItemID = "item_id"
	// FieldTrace is the key for trace names.
	FieldTrace = "trace"
)
