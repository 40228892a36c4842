// Command nfscan is the operator CLI and daemon entry point for the
// near-field scanner. Queue, task, and export subcommands talk directly to
// the SQLite store; `nfscan daemon` runs the processing loop.
package main
