package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence/file"
	"github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence/postgres"
	rediscache "github.com/progress-hub/ai-progress-hub/internal/infrastructure/persistence/redis"
	"github.com/progress-hub/ai-progress-hub/pkg/logger"
	"github.com/progress-hub/ai-progress-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// GATEWAY CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// GatewayConfig controls backend selection and the optional read cache.
type GatewayConfig struct {
	// DatabaseURL is the PostgreSQL connection string. Empty selects the
	// file backend.
	DatabaseURL string

	// DataDir is the root directory for the file backend.
	DataDir string

	// CacheEnabled turns on the Redis snapshot read cache.
	CacheEnabled bool

	// Redis configures the cache connection when CacheEnabled is set.
	Redis rediscache.Config
}

// ══════════════════════════════════════════════════════════════════════════════
// GATEWAY
// ══════════════════════════════════════════════════════════════════════════════

// Gateway is the single entry point to storage. The backend is chosen
// exactly once at construction and never changes for the lifetime of
// the process: a DATABASE_URL that works selects PostgreSQL, anything
// else selects the file backend. Requests never flip backends, so a
// database outage mid-flight surfaces as request errors rather than a
// silent switch to different data.
//
// The Redis cache, when present, only serves snapshot reads. Cache
// faults are logged and otherwise ignored.
type Gateway struct {
	store Store
	cache *rediscache.SnapshotCache
	log   *logger.Logger
}

// NewGateway selects and initializes the storage backend.
//
// When DatabaseURL is set, the connection is attempted with bounded
// startup retries and migrations are applied. If PostgreSQL still
// cannot be reached, the gateway falls back to file storage with a
// warning rather than refusing to start.
func NewGateway(ctx context.Context, cfg GatewayConfig, log *logger.Logger) (*Gateway, error) {
	g := &Gateway{log: log.With(logger.Component("storage_gateway"))}

	if cfg.DatabaseURL != "" {
		store, err := connectPostgres(ctx, cfg.DatabaseURL, g.log)
		if err != nil {
			g.log.Warn("postgres unavailable, falling back to file storage",
				logger.Err(err),
			)
		} else {
			g.store = store
		}
	}

	if g.store == nil {
		fileStore := file.NewStore(cfg.DataDir)
		if err := fileStore.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		g.store = fileStore
	}

	g.log.Info("storage backend selected", logger.StorageMode(g.store.Mode()))

	if cfg.CacheEnabled {
		cache, err := rediscache.NewCache(cfg.Redis)
		if err != nil {
			g.log.Warn("redis unavailable, snapshot cache disabled", logger.Err(err))
		} else {
			g.cache = rediscache.NewSnapshotCache(cache)
			g.log.Info("snapshot cache enabled", logger.String("redis_addr", cfg.Redis.Addr()))
		}
	}

	return g, nil
}

// NewGatewayWithStore wraps an existing store. Tests use this to pair
// the gateway with in-memory backends.
func NewGatewayWithStore(store Store, cache *rediscache.SnapshotCache, log *logger.Logger) *Gateway {
	return &Gateway{
		store: store,
		cache: cache,
		log:   log.With(logger.Component("storage_gateway")),
	}
}

func connectPostgres(ctx context.Context, databaseURL string, log *logger.Logger) (*postgres.ProgressStore, error) {
	conn, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Connection, error) {
		c, err := postgres.NewConnection(ctx, databaseURL)
		if err != nil {
			return nil, retry.Retryable(err)
		}
		return c, nil
	}, withStartupRetry(log)...)
	if err != nil {
		return nil, err
	}

	migrator := postgres.NewMigrator(conn)
	if err := migrator.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	return postgres.NewProgressStore(conn), nil
}

func withStartupRetry(log *logger.Logger) []retry.Option {
	return []retry.Option{
		retry.WithMaxAttempts(5),
		retry.WithInitialDelay(500 * time.Millisecond),
		retry.WithMaxDelay(10 * time.Second),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("postgres connection attempt failed",
				logger.Int("attempt", attempt),
				logger.Duration("retry_in", delay),
				logger.Err(err),
			)
		}),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE DELEGATION
// ══════════════════════════════════════════════════════════════════════════════

// SaveSnapshot writes to the primary store, then refreshes the cached
// copy so subsequent reads see the new state immediately.
func (g *Gateway) SaveSnapshot(ctx context.Context, userID string, s *progress.Snapshot) error {
	if err := g.store.SaveSnapshot(ctx, userID, s); err != nil {
		return err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, userID, s); err != nil {
			g.log.Warn("failed to refresh snapshot cache",
				logger.UserID(userID),
				logger.Err(err),
			)
		}
	}

	return nil
}

// LoadSnapshot serves from the cache when possible and falls through to
// the primary store on a miss or any cache fault.
func (g *Gateway) LoadSnapshot(ctx context.Context, userID string) (*progress.Snapshot, error) {
	if g.cache != nil {
		snap, err := g.cache.Get(ctx, userID)
		if err == nil {
			return snap, nil
		}
		if err != rediscache.ErrCacheMiss {
			g.log.Warn("snapshot cache read failed",
				logger.UserID(userID),
				logger.Err(err),
			)
		}
	}

	snap, err := g.store.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, userID, snap); err != nil {
			g.log.Warn("failed to populate snapshot cache",
				logger.UserID(userID),
				logger.Err(err),
			)
		}
	}

	return snap, nil
}

// SaveDailyLog delegates to the primary store.
func (g *Gateway) SaveDailyLog(ctx context.Context, userID string, log *progress.DailyLog) error {
	return g.store.SaveDailyLog(ctx, userID, log)
}

// DueRepetitionItems delegates to the primary store.
func (g *Gateway) DueRepetitionItems(ctx context.Context, userID string) ([]progress.RepetitionItem, error) {
	return g.store.DueRepetitionItems(ctx, userID)
}

// DeleteExpiredRepetitions delegates to the primary store.
func (g *Gateway) DeleteExpiredRepetitions(ctx context.Context, cutoff time.Time) (int64, error) {
	return g.store.DeleteExpiredRepetitions(ctx, cutoff)
}

// Mode reports the backend selected at construction.
func (g *Gateway) Mode() string {
	return g.store.Mode()
}

// Ping checks the primary store.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.store.Ping(ctx)
}

// Close releases the store and, if present, the cache connection.
func (g *Gateway) Close() {
	g.store.Close()

	if g.cache != nil {
		if err := g.cache.Close(); err != nil {
			g.log.Warn("failed to close snapshot cache", logger.Err(err))
		}
	}
}
