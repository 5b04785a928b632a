// Package handlers contains HTTP handler support types shared by the server.
package handlers

import (
	"context"
	"syscall"
	"time"

	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH CHECK
// ══════════════════════════════════════════════════════════════════════════════

// StorageHealth is the slice of the persistence layer the health check
// needs: what kind of backend is active and whether it responds.
type StorageHealth interface {
	Mode() string
	Ping(ctx context.Context) error
}

// HealthStatus is the health endpoint response body. The field set and
// naming are fixed: the frontend polls this endpoint and keys off the
// database string to render its storage indicator.
type HealthStatus struct {
	Status      string   `json:"status"`
	Database    string   `json:"database,omitempty"`
	FreeSpaceGB *float64 `json:"free_space_gb,omitempty"`
	Timestamp   string   `json:"timestamp"`
	Version     string   `json:"version,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// StatusHealthy and StatusUnhealthy are the two values of HealthStatus.Status.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthChecker probes the storage backend and reports free disk space
// for the data directory.
type HealthChecker struct {
	storage StorageHealth
	dataDir string
	version string
	timeout time.Duration
}

// NewHealthChecker creates a health checker for the given storage backend.
// dataDir is the directory measured for free space.
func NewHealthChecker(storage StorageHealth, dataDir, version string) *HealthChecker {
	return &HealthChecker{
		storage: storage,
		dataDir: dataDir,
		version: version,
		timeout: 5 * time.Second,
	}
}

// SetTimeout sets the timeout for the storage probe.
func (h *HealthChecker) SetTimeout(timeout time.Duration) {
	h.timeout = timeout
}

// Check probes the storage backend and returns the service status.
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	status := HealthStatus{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
	}

	if err := h.storage.Ping(checkCtx); err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
		return status
	}

	status.Status = StatusHealthy
	switch h.storage.Mode() {
	case persistence.ModePostgres:
		status.Database = "connected"
	default:
		status.Database = persistence.ModeFile
	}

	if free, err := freeSpaceGB(h.dataDir); err == nil {
		status.FreeSpaceGB = &free
	}

	return status
}

// freeSpaceGB reports the free space of the filesystem holding path,
// rounded to two decimals.
func freeSpaceGB(path string) (float64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}

	free := float64(stat.Bavail) * float64(stat.Bsize) / (1 << 30)
	return float64(int(free*100)) / 100, nil
}
