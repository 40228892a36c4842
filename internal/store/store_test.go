package store_test

import (
	"context"
	"testing"

	"nfscan/internal/store"
	"nfscan/internal/testsupport"
)

func TestOpenCreatesDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	if st.Path() != cfg.DatabasePath() {
		t.Fatalf("path %q, want %q", st.Path(), cfg.DatabasePath())
	}

	health, err := st.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.IntegrityCheck {
		t.Fatalf("unexpected health %+v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("missing tables %v", health.MissingTables)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	task, err := first.CreateTask(ctx, "persisted", "{}")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := testsupport.MustOpenStore(t, cfg)
	got, err := second.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask after reopen: %v", err)
	}
	if got.Name != "persisted" {
		t.Fatalf("name %q", got.Name)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("created_at changed: %v != %v", got.CreatedAt, task.CreatedAt)
	}
}
