package persistence

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence/file"
	"github.com/progress-hub/ai-progress-hub/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

// failingStore returns the same error from every operation.
type failingStore struct {
	err error
}

func (f *failingStore) SaveSnapshot(context.Context, string, *progress.Snapshot) error {
	return f.err
}

func (f *failingStore) LoadSnapshot(context.Context, string) (*progress.Snapshot, error) {
	return nil, f.err
}

func (f *failingStore) SaveDailyLog(context.Context, string, *progress.DailyLog) error {
	return f.err
}

func (f *failingStore) DueRepetitionItems(context.Context, string) ([]progress.RepetitionItem, error) {
	return nil, f.err
}

func (f *failingStore) DeleteExpiredRepetitions(context.Context, time.Time) (int64, error) {
	return 0, f.err
}

func (f *failingStore) Mode() string               { return "failing" }
func (f *failingStore) Ping(context.Context) error { return f.err }
func (f *failingStore) Close()                     {}

func TestGateway_DelegatesToStore(t *testing.T) {
	store := file.NewStoreWithFs(afero.NewMemMapFs(), "data")
	gw := NewGatewayWithStore(store, nil, testLogger())
	ctx := context.Background()

	snap := progress.NewSnapshot()
	snap.TotalXP = 150
	require.NoError(t, gw.SaveSnapshot(ctx, "alice", snap))

	loaded, err := gw.LoadSnapshot(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, progress.XP(150), loaded.TotalXP)

	assert.Equal(t, ModeFile, gw.Mode())
	assert.NoError(t, gw.Ping(ctx))
}

func TestGateway_LoadSnapshot_NotFoundPassesThrough(t *testing.T) {
	store := file.NewStoreWithFs(afero.NewMemMapFs(), "data")
	gw := NewGatewayWithStore(store, nil, testLogger())

	_, err := gw.LoadSnapshot(context.Background(), "nobody")
	assert.ErrorIs(t, err, progress.ErrSnapshotNotFound)
}

func TestGateway_PropagatesStoreErrors(t *testing.T) {
	storeErr := errors.New("disk on fire")
	gw := NewGatewayWithStore(&failingStore{err: storeErr}, nil, testLogger())
	ctx := context.Background()

	assert.ErrorIs(t, gw.SaveSnapshot(ctx, "alice", progress.NewSnapshot()), storeErr)

	_, err := gw.LoadSnapshot(ctx, "alice")
	assert.ErrorIs(t, err, storeErr)

	assert.ErrorIs(t, gw.SaveDailyLog(ctx, "alice", &progress.DailyLog{Date: "2026-03-14"}), storeErr)

	_, err = gw.DueRepetitionItems(ctx, "alice")
	assert.ErrorIs(t, err, storeErr)

	_, err = gw.DeleteExpiredRepetitions(ctx, time.Now())
	assert.ErrorIs(t, err, storeErr)
}

func TestGateway_FileFallbackWhenNoDatabaseURL(t *testing.T) {
	gw, err := NewGateway(context.Background(), GatewayConfig{
		DatabaseURL: "",
		DataDir:     t.TempDir(),
	}, testLogger())
	require.NoError(t, err)
	defer gw.Close()

	assert.Equal(t, ModeFile, gw.Mode())
}
