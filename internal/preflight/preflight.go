// Package preflight verifies the host is fit to run the daemon before any
// queue work starts: directories exist and are writable, and the data volume
// has headroom for new scans.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"nfscan/internal/config"
)

// Result reports one preflight check.
type Result struct {
	Name    string
	Passed  bool
	Message string
}

// CheckDirectoryAccess verifies dir exists, is a directory, and grants read,
// write, and traverse access to the current user.
func CheckDirectoryAccess(name, dir string) Result {
	info, err := os.Stat(dir)
	if err != nil {
		return Result{Name: name, Message: fmt.Sprintf("%s: %v", dir, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Message: fmt.Sprintf("%s is not a directory", dir)}
	}
	if err := unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Message: fmt.Sprintf("%s not accessible: %v", dir, err)}
	}
	return Result{Name: name, Passed: true, Message: dir}
}

// CheckDiskSpace verifies the filesystem holding dir has at least minGiB of
// free space available to the current user.
func CheckDiskSpace(name, dir string, minGiB int) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return Result{Name: name, Message: fmt.Sprintf("statfs %s: %v", dir, err)}
	}

	freeBytes := stat.Bavail * uint64(stat.Bsize)
	freeGiB := float64(freeBytes) / (1 << 30)
	if freeGiB < float64(minGiB) {
		return Result{
			Name:    name,
			Message: fmt.Sprintf("%s has %.2f GiB free, need %d GiB", dir, freeGiB, minGiB),
		}
	}
	return Result{Name: name, Passed: true, Message: fmt.Sprintf("%.2f GiB free", freeGiB)}
}

// RunAll creates the configured directories and runs every check. The error
// is non-nil when any check failed and names the first failure.
func RunAll(cfg *config.Config) ([]Result, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	results := []Result{
		CheckDirectoryAccess("data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("export directory", cfg.Paths.ExportDir),
		CheckDiskSpace("disk space", cfg.Paths.DataDir, cfg.Workflow.MinFreeSpaceGiB),
	}

	for _, r := range results {
		if !r.Passed {
			return results, fmt.Errorf("preflight check %q failed: %s", r.Name, r.Message)
		}
	}
	return results, nil
}
