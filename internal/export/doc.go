// Package export renders persisted scan results into portable files: CSV
// point dumps for downstream tooling, per-trace value grids, and a metadata
// sidecar describing how the data was captured.
package export
