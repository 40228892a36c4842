package store_test

import (
	"context"
	"errors"
	"testing"

	"nfscan/internal/store"
	"nfscan/internal/testsupport"
)

func TestAppendAndReadPoints(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	task := testsupport.CreateTask(t, st, "points", "{}")

	v1, v2 := 1.25, -3.5
	batch := []store.Point{
		{X: 0, Y: 0, Z: 1, Value: &v1},
		{X: 1, Y: 0, Z: 1, Value: &v2},
		{X: 2, Y: 0, Z: 1, Value: nil},
	}
	if err := st.AppendPoints(ctx, task.ID, batch); err != nil {
		t.Fatalf("AppendPoints: %v", err)
	}

	points, err := st.PointsForTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("PointsForTask: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	// Insertion order is preserved.
	if points[0].X != 0 || points[1].X != 1 || points[2].X != 2 {
		t.Fatalf("unexpected order %+v", points)
	}
	if points[0].Value == nil || *points[0].Value != 1.25 {
		t.Fatalf("unexpected value %+v", points[0].Value)
	}
	// A missing sample survives the round trip as nil.
	if points[2].Value != nil {
		t.Fatalf("expected nil value, got %v", *points[2].Value)
	}

	count, err := st.CountPoints(ctx, task.ID)
	if err != nil {
		t.Fatalf("CountPoints: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestAppendPointsEmptyBatch(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	task := testsupport.CreateTask(t, st, "empty", "{}")

	if err := st.AppendPoints(context.Background(), task.ID, nil); err != nil {
		t.Fatalf("expected empty batch to be a no-op, got %v", err)
	}
}

func TestAppendPointsUnknownTask(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	err := st.AppendPoints(ctx, "missing", []store.Point{{X: 0, Y: 0, Z: 0}})
	if !errors.Is(err, store.ErrReference) {
		t.Fatalf("expected ErrReference, got %v", err)
	}

	// The failed batch left nothing behind.
	count, err := st.CountPoints(ctx, "missing")
	if err != nil {
		t.Fatalf("CountPoints: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 points, got %d", count)
	}
}

func TestPointsIsolatedPerTask(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	a := testsupport.CreateTask(t, st, "a", "{}")
	b := testsupport.CreateTask(t, st, "b", "{}")

	if err := st.AppendPoints(ctx, a.ID, []store.Point{{X: 1, Y: 1, Z: 1}}); err != nil {
		t.Fatalf("AppendPoints a: %v", err)
	}
	if err := st.AppendPoints(ctx, b.ID, []store.Point{{X: 2, Y: 2, Z: 2}, {X: 3, Y: 3, Z: 3}}); err != nil {
		t.Fatalf("AppendPoints b: %v", err)
	}

	countA, err := st.CountPoints(ctx, a.ID)
	if err != nil {
		t.Fatalf("CountPoints: %v", err)
	}
	countB, err := st.CountPoints(ctx, b.ID)
	if err != nil {
		t.Fatalf("CountPoints: %v", err)
	}
	if countA != 1 || countB != 2 {
		t.Fatalf("expected 1 and 2, got %d and %d", countA, countB)
	}
}
