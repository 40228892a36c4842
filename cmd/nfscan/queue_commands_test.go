package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nfscan/internal/config"
	"nfscan/internal/store"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
export_dir = %q
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), filepath.Join(base, "exports"))

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// claimItem flips the oldest pending item to claimed the way a worker would.
func claimItem(t *testing.T, cfgPath string) {
	t.Helper()

	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()

	item, err := st.ClaimNext(context.Background())
	if err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}
	if item == nil {
		t.Fatal("expected a pending item to claim")
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueueAddAndList(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", cfgPath, "queue", "add",
		"--params", `{"x_min": 0, "x_max": 1, "y_min": 0, "y_max": 1}`)
	if err != nil {
		t.Fatalf("queue add: %v", err)
	}
	if !strings.Contains(out, "Enqueued ") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runCommand(t, "--config", cfgPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "Pending") {
		t.Fatalf("expected pending item in output %q", out)
	}

	out, err = runCommand(t, "--config", cfgPath, "queue", "status")
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	if !strings.Contains(out, "Pending") || !strings.Contains(out, "1") {
		t.Fatalf("unexpected status output %q", out)
	}
}

func TestQueueAddRejectsInvalidParams(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := runCommand(t, "--config", cfgPath, "queue", "add",
		"--params", `{"step_mm": -2}`); err == nil {
		t.Fatal("expected invalid params to be rejected")
	}

	// Nothing was enqueued.
	out, err := runCommand(t, "--config", cfgPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "Queue is empty") {
		t.Fatalf("expected empty queue, got %q", out)
	}
}

func TestQueueListStatusFilter(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := runCommand(t, "--config", cfgPath, "queue", "add"); err != nil {
		t.Fatalf("queue add: %v", err)
	}

	out, err := runCommand(t, "--config", cfgPath, "queue", "list", "--status", "failed")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "Queue is empty") {
		t.Fatalf("expected no failed items, got %q", out)
	}

	if _, err := runCommand(t, "--config", cfgPath, "queue", "list", "--status", "bogus"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestQueueClear(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := runCommand(t, "--config", cfgPath, "queue", "add"); err != nil {
		t.Fatalf("queue add: %v", err)
	}
	out, err := runCommand(t, "--config", cfgPath, "queue", "clear")
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 item(s)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestQueueReset(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if _, err := runCommand(t, "--config", cfgPath, "queue", "add"); err != nil {
		t.Fatalf("queue add: %v", err)
	}
	claimItem(t, cfgPath)

	out, err := runCommand(t, "--config", cfgPath, "queue", "reset")
	if err != nil {
		t.Fatalf("queue reset: %v", err)
	}
	if !strings.Contains(out, "Reset 1 item(s)") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = runCommand(t, "--config", cfgPath, "queue", "list", "--status", "pending")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if strings.Contains(out, "Queue is empty") {
		t.Fatalf("expected reset item pending, got %q", out)
	}
}

func TestTaskListEmpty(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", cfgPath, "task", "list")
	if err != nil {
		t.Fatalf("task list: %v", err)
	}
	if !strings.Contains(out, "No tasks") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHealthCommand(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", cfgPath, "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "Integrity: yes") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestConfigShow(t *testing.T) {
	cfgPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "Motion driver:    mock") {
		t.Fatalf("unexpected output %q", out)
	}
}
