// Package store persists scan tasks, measured points, and the scan request
// queue in SQLite.
//
// One Store owns the database handle and exposes three narrow surfaces: the
// task store (lifecycle and annotation of scan_task rows), the point store
// (append-only bulk insertion of scan_point rows), and the queue store
// (FIFO claim semantics over scan_queue_item rows). Status changes go
// through compare-and-set updates validated against explicit transition
// tables, and ClaimNext flips exactly one pending row per call so
// concurrent workers never share an item.
//
// Config, params, and trace list payloads are stored verbatim; parsing them
// belongs to the scan layer, not here. Schema changes bump the version in
// schema.go; users clear the database to adopt the new schema.
package store
