package testsupport

import (
	"context"
	"testing"

	"nfscan/internal/config"
	"nfscan/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// CreateTask creates a scan task for tests using the provided store.
func CreateTask(t testing.TB, st *store.Store, name, configJSON string) *store.Task {
	t.Helper()

	task, err := st.CreateTask(context.Background(), name, configJSON)
	if err != nil {
		t.Fatalf("store.CreateTask: %v", err)
	}
	return task
}

// Enqueue creates a pending queue item for tests using the provided store.
func Enqueue(t testing.TB, st *store.Store, paramsJSON, traceListJSON string) *store.QueueItem {
	t.Helper()

	item, err := st.Enqueue(context.Background(), paramsJSON, traceListJSON)
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return item
}
