// Package logging assembles the structured slog loggers used across nfscan.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes standardized field names so store, scan, and
// workflow code tag log lines with task and queue item identifiers the same
// way. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
