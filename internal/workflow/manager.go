// Package workflow runs the daemon's processing loop: claim the oldest
// pending queue item, create and bind a task for it, execute the sweep, and
// record the outcome on both the task and the item.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nfscan/internal/config"
	"nfscan/internal/drivers"
	"nfscan/internal/export"
	"nfscan/internal/logging"
	"nfscan/internal/scan"
	"nfscan/internal/store"
)

// Manager polls the queue and executes claimed items one at a time.
type Manager struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	runner *scan.Runner

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewManager wires a manager over the given store and driver pair. A nil
// pair builds drivers from the configuration on first use.
func NewManager(cfg *config.Config, st *store.Store, logger *slog.Logger, pair *drivers.Pair) (*Manager, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.FieldComponent, "workflow")

	if pair == nil {
		built, err := drivers.ForConfig(cfg)
		if err != nil {
			return nil, err
		}
		pair = built
	}

	return &Manager{
		cfg:    cfg,
		store:  st,
		logger: logger,
		runner: scan.NewRunner(pair, st, logger, cfg.Workflow.PointBatchSize),
	}, nil
}

// Start launches the poll loop. It returns immediately; Stop shuts the loop
// down and waits for any in-flight item to settle.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("workflow already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	go m.loop(loopCtx)
	return nil
}

// Stop cancels the poll loop and blocks until it exits.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// StatusSummary reports queue counts for daemon logs and diagnostics.
func (m *Manager) StatusSummary(ctx context.Context) (store.HealthSummary, error) {
	return m.store.Health(ctx)
}

// Running reports whether the poll loop is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) loop(ctx context.Context) {
	defer close(m.done)

	interval := time.Duration(m.cfg.Workflow.QueuePollInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.Info("queue loop started", "poll_interval", interval.String())

	for {
		// Drain everything pending before sleeping again.
		for {
			if ctx.Err() != nil {
				m.logger.Info("queue loop stopped")
				return
			}
			processed, err := m.ProcessNext(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				m.logger.Error("process queue item", "error", err)
			}
			if !processed {
				break
			}
		}

		select {
		case <-ctx.Done():
			m.logger.Info("queue loop stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessNext claims and executes at most one pending item. The bool reports
// whether an item was claimed; errors from the sweep itself are recorded on
// the item and task rather than returned.
func (m *Manager) ProcessNext(ctx context.Context) (bool, error) {
	item, err := m.store.ClaimNext(ctx)
	if err != nil {
		return false, fmt.Errorf("claim next item: %w", err)
	}
	if item == nil {
		return false, nil
	}

	logger := m.logger.With(logging.FieldItemID, item.ID)
	logger.Info("claimed queue item")

	if err := m.execute(ctx, item, logger); err != nil {
		logger.Error("queue item failed", "error", err)
		if cerr := m.store.Complete(ctx, item.ID, false, err.Error()); cerr != nil {
			logger.Error("record item failure", "error", cerr)
		}
		return true, nil
	}

	if err := m.store.Complete(ctx, item.ID, true, "ok"); err != nil {
		logger.Error("record item success", "error", err)
	}
	logger.Info("queue item done")
	return true, nil
}

func (m *Manager) execute(ctx context.Context, item *store.QueueItem, logger *slog.Logger) error {
	params, err := scan.ParseParams(item.Params, m.cfg)
	if err != nil {
		return err
	}
	traces, err := scan.ParseTraces(item.TraceList)
	if err != nil {
		return err
	}

	encoded, err := params.Encode()
	if err != nil {
		return err
	}

	// A retried item keeps its original task; create one only on first run.
	var task *store.Task
	if item.TaskID != "" {
		task, err = m.store.GetTask(ctx, item.TaskID)
		if err != nil {
			return fmt.Errorf("load bound task: %w", err)
		}
		if task.Status.Terminal() {
			return fmt.Errorf("task %q already %s", task.ID, task.Status)
		}
	} else {
		name := fmt.Sprintf("scan-%s", time.Now().UTC().Format("20060102-150405"))
		task, err = m.store.CreateTask(ctx, name, encoded)
		if err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if err := m.store.AttachTask(ctx, item.ID, task.ID); err != nil {
			return fmt.Errorf("bind task: %w", err)
		}
	}

	logger = logger.With(logging.FieldTaskID, task.ID)

	// A reclaimed item's task may already be running from the interrupted
	// attempt; only advance tasks that have not started.
	if task.Status == store.TaskCreated {
		if err := m.store.SetTaskStatus(ctx, task.ID, store.TaskRunning); err != nil {
			return fmt.Errorf("mark task running: %w", err)
		}
	}

	result, runErr := m.runner.Run(ctx, task.ID, params, traces)
	if runErr != nil {
		if serr := m.store.SetTaskStatus(ctx, task.ID, store.TaskFailed); serr != nil {
			logger.Error("mark task failed", "error", serr)
		}
		return runErr
	}

	taskDir := m.cfg.TaskDir(task.ID)
	if err := export.WriteTraceGrids(taskDir, result.Grid, result.TraceGrids); err != nil {
		logger.Error("write trace grids", "error", err)
	}
	meta := export.Meta{
		TaskID:   task.ID,
		TaskName: task.Name,
		Params:   params,
		Traces:   traces,
		Points:   result.Points,
	}
	if err := export.WriteMeta(taskDir, meta); err != nil {
		logger.Error("write metadata", "error", err)
	}

	if err := m.store.SetTaskStatus(ctx, task.ID, store.TaskDone); err != nil {
		return fmt.Errorf("mark task done: %w", err)
	}
	return nil
}
