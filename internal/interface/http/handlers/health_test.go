package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence"
	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence/file"
)

type brokenStorage struct{}

func (brokenStorage) Mode() string                   { return persistence.ModePostgres }
func (brokenStorage) Ping(ctx context.Context) error { return errors.New("connection refused") }

func TestHealthChecker_FileBackend(t *testing.T) {
	store := file.NewStoreWithFs(afero.NewMemMapFs(), "data")
	checker := NewHealthChecker(store, t.TempDir(), "1.0.0")

	status := checker.Check(context.Background())

	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, persistence.ModeFile, status.Database)
	assert.Equal(t, "1.0.0", status.Version)
	assert.NotEmpty(t, status.Timestamp)
	assert.Empty(t, status.Error)

	require.NotNil(t, status.FreeSpaceGB)
	assert.Greater(t, *status.FreeSpaceGB, 0.0)
}

func TestHealthChecker_UnhealthyStorage(t *testing.T) {
	checker := NewHealthChecker(brokenStorage{}, t.TempDir(), "1.0.0")

	status := checker.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, "connection refused", status.Error)
	assert.Empty(t, status.Database)
	assert.Nil(t, status.FreeSpaceGB)
}
