// Package daemon hosts the long-running scanner process. It holds a file
// lock so only one instance touches the database, runs preflight checks,
// and owns the store and workflow lifecycles.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"nfscan/internal/config"
	"nfscan/internal/logging"
	"nfscan/internal/preflight"
	"nfscan/internal/store"
	"nfscan/internal/workflow"
)

// ErrAlreadyRunning indicates another daemon instance holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Daemon ties together the store, workflow manager, and instance lock.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	lock    *flock.Flock
	store   *store.Store
	manager *workflow.Manager
}

// New builds a daemon. Nothing is locked or opened until Start.
func New(cfg *config.Config, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Daemon{
		cfg:    cfg,
		logger: logger.With(logging.FieldComponent, "daemon"),
	}
}

// LockPath returns the location of the instance lock file.
func (d *Daemon) LockPath() string {
	return filepath.Join(d.cfg.Paths.LogDir, "nfscan.lock")
}

// Start acquires the instance lock, runs preflight, opens the store, and
// launches the workflow loop. On any failure everything acquired so far is
// released.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	d.lock = flock.New(d.LockPath())
	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, d.LockPath())
	}

	results, err := preflight.RunAll(d.cfg)
	if err != nil {
		d.releaseLock()
		return err
	}
	for _, r := range results {
		d.logger.Info("preflight check passed", "check", r.Name, "detail", r.Message)
	}

	st, err := store.Open(d.cfg)
	if err != nil {
		d.releaseLock()
		return err
	}
	d.store = st

	// Reclaim work stranded by a previous instance that died mid-sweep.
	reset, err := st.ResetStuckClaimed(ctx)
	if err != nil {
		d.closeStore()
		d.releaseLock()
		return fmt.Errorf("reset stuck queue items: %w", err)
	}
	if reset > 0 {
		d.logger.Info("reset stuck queue items", "count", reset)
	}

	mgr, err := workflow.NewManager(d.cfg, st, d.logger, nil)
	if err != nil {
		d.closeStore()
		d.releaseLock()
		return err
	}
	d.manager = mgr

	if err := mgr.Start(ctx); err != nil {
		d.closeStore()
		d.releaseLock()
		return err
	}

	d.logger.Info("daemon started", "database", d.cfg.DatabasePath())
	return nil
}

// Stop shuts the workflow down, closes the store, and releases the lock.
func (d *Daemon) Stop() {
	if d.manager != nil {
		d.manager.Stop()
		d.manager = nil
	}
	d.closeStore()
	d.releaseLock()
	d.logger.Info("daemon stopped")
}

// Run starts the daemon and blocks until ctx is cancelled, then stops it.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}

func (d *Daemon) closeStore() {
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			d.logger.Error("close store", "error", err)
		}
		d.store = nil
	}
}

func (d *Daemon) releaseLock() {
	if d.lock != nil {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Error("release instance lock", "error", err)
		}
		d.lock = nil
	}
}
