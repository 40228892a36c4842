package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"nfscan/internal/store"
	"nfscan/internal/testsupport"
)

func TestDaemonProcessesQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	cfg.Workflow.MinFreeSpaceGiB = 0

	d := New(cfg, nil)
	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	// Open a second read/write handle the way the CLI would.
	st := testsupport.MustOpenStore(t, cfg)
	item := testsupport.Enqueue(t, st, `{"x_min": 0, "x_max": 1, "y_min": 0, "y_max": 0}`, "")

	deadline := time.Now().Add(10 * time.Second)
	for {
		got, err := st.GetQueueItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetQueueItem: %v", err)
		}
		if got.Status == store.QueueDone {
			break
		}
		if got.Status == store.QueueFailed {
			t.Fatalf("item failed: %s", got.Message)
		}
		if time.Now().After(deadline) {
			t.Fatalf("item never completed, status %s", got.Status)
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func TestStartReclaimsStrandedItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.QueuePollInterval = 1
	cfg.Workflow.MinFreeSpaceGiB = 0
	ctx := context.Background()

	// Strand an item in claimed, as a crashed instance would.
	st := testsupport.MustOpenStore(t, cfg)
	item := testsupport.Enqueue(t, st, `{"x_min": 0, "x_max": 1, "y_min": 0, "y_max": 0}`, "")
	if _, err := st.ClaimNext(ctx); err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}

	d := New(cfg, nil)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	deadline := time.Now().Add(10 * time.Second)
	for {
		got, err := st.GetQueueItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetQueueItem: %v", err)
		}
		if got.Status == store.QueueDone {
			break
		}
		if got.Status == store.QueueFailed {
			t.Fatalf("item failed: %s", got.Message)
		}
		if time.Now().After(deadline) {
			t.Fatalf("stranded item never completed, status %s", got.Status)
		}
		time.Sleep(25 * time.Millisecond)
	}
}

func TestSecondInstanceRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.MinFreeSpaceGiB = 0

	first := New(cfg, nil)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	second := New(cfg, nil)
	err := second.Start(context.Background())
	if err == nil {
		second.Stop()
		t.Fatal("expected second instance to be rejected")
	}
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestStopIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Workflow.MinFreeSpaceGiB = 0

	d := New(cfg, nil)
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	d.Stop()
	d.Stop()
}
