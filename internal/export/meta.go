package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nfscan/internal/scan"
)

// Meta is the sidecar written next to a task's exported grids.
type Meta struct {
	TaskID      string       `json:"task_id"`
	TaskName    string       `json:"task_name"`
	Params      scan.Params  `json:"params"`
	Traces      []scan.Trace `json:"traces"`
	Points      int          `json:"points"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// WriteMeta writes meta.json into taskDir, stamping GeneratedAt if unset.
func WriteMeta(taskDir string, meta Meta) error {
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}

	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return fmt.Errorf("create task directory: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(taskDir, "meta.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// WriteTraceGrids writes one <trace>.csv per trace grid into taskDir.
func WriteTraceGrids(taskDir string, grid scan.Grid, grids map[string][][]float64) error {
	if err := os.MkdirAll(taskDir, 0o755); err != nil {
		return fmt.Errorf("create task directory: %w", err)
	}

	for name, values := range grids {
		path := filepath.Join(taskDir, name+".csv")
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create trace file: %w", err)
		}
		if err := TraceCSV(file, grid, values); err != nil {
			file.Close()
			return fmt.Errorf("write trace %q: %w", name, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("close trace file: %w", err)
		}
	}
	return nil
}
