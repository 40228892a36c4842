package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nfscan/internal/scan"
	"nfscan/internal/store"
	"nfscan/internal/testsupport"
)

func TestPointsCSV(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	task := testsupport.CreateTask(t, st, "export-test", "{}")

	v1 := 1.5
	points := []store.Point{
		{X: 0, Y: 0, Z: 1, Value: &v1},
		{X: 1, Y: 0, Z: 1, Value: nil},
	}
	if err := st.AppendPoints(context.Background(), task.ID, points); err != nil {
		t.Fatalf("AppendPoints: %v", err)
	}

	var b strings.Builder
	n, err := PointsCSV(context.Background(), st, task.ID, &b)
	if err != nil {
		t.Fatalf("PointsCSV: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", b.String())
	}
	if lines[0] != "x,y,z,value" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "0,0,1,1.5" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	// A missing reading leaves the value field empty.
	if lines[2] != "1,0,1," {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestPointsCSVEmptyTask(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	task := testsupport.CreateTask(t, st, "empty", "{}")

	var b strings.Builder
	n, err := PointsCSV(context.Background(), st, task.ID, &b)
	if err != nil {
		t.Fatalf("PointsCSV: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 rows, got %d", n)
	}
	if strings.TrimSpace(b.String()) != "x,y,z,value" {
		t.Fatalf("expected header only, got %q", b.String())
	}
}

func TestTraceCSV(t *testing.T) {
	grid := scan.Grid{Xs: []float64{0, 1}, Ys: []float64{0, 2}}
	values := [][]float64{{10, 11}, {12, 13}}

	var b strings.Builder
	if err := TraceCSV(&b, grid, values); err != nil {
		t.Fatalf("TraceCSV: %v", err)
	}
	want := "x,y,value\n0,0,10\n1,0,11\n0,2,12\n1,2,13\n"
	if b.String() != want {
		t.Fatalf("unexpected output %q", b.String())
	}

	if err := TraceCSV(&strings.Builder{}, grid, values[:1]); err == nil {
		t.Fatal("expected shape mismatch to be rejected")
	}
}

func TestWriteMetaAndTraceGrids(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "task-dir")

	meta := Meta{
		TaskID:   "abc",
		TaskName: "run",
		Params:   scan.Params{XMin: 0, XMax: 1, YMin: 0, YMax: 1, StepMM: 1, ZHeightMM: 1, Feed: 600, FreqHz: 1e9},
		Traces:   scan.DefaultTraces(),
		Points:   4,
	}
	if err := WriteMeta(dir, meta); err != nil {
		t.Fatalf("WriteMeta: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "meta.json"))
	if err != nil {
		t.Fatalf("read meta.json: %v", err)
	}
	var decoded Meta
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode meta.json: %v", err)
	}
	if decoded.TaskID != "abc" || decoded.Points != 4 {
		t.Fatalf("unexpected metadata %+v", decoded)
	}
	if decoded.GeneratedAt.IsZero() {
		t.Fatal("expected generated_at to be stamped")
	}

	grid := scan.Grid{Xs: []float64{0, 1}, Ys: []float64{0, 1}}
	grids := map[string][][]float64{"S21": {{1, 2}, {3, 4}}}
	if err := WriteTraceGrids(dir, grid, grids); err != nil {
		t.Fatalf("WriteTraceGrids: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "S21.csv")); err != nil {
		t.Fatalf("expected trace csv: %v", err)
	}
}
