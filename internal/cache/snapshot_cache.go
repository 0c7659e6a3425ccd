package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/eol-ict/onlyoo-backend/internal/logger"
	"github.com/eol-ict/onlyoo-backend/internal/types"
)

const snapshotKey = "matrix:runtime:v1"

// CatalogPayload is the serialized form of the runtime catalog: the raw
// rows the snapshot is rebuilt from, not the snapshot's internal
// indexes.
type CatalogPayload struct {
	Sections []types.Section `json:"sections"`
	Rules    []types.Rule    `json:"rules"`
	Alerts   []types.Alert   `json:"alerts"`
}

// SnapshotCache is a best-effort Redis cache in front of the catalog
// load. Misses and Redis failures both fall through to Postgres; writes
// from the manager CRUD invalidate the key.
type SnapshotCache interface {
	Get(ctx context.Context) (*CatalogPayload, bool)
	Set(ctx context.Context, payload *CatalogPayload)
	Invalidate(ctx context.Context)
	Close() error
}

type snapshotCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewSnapshotCache connects to REDIS_ADDR. A missing address is not an
// error: the caller gets a nil cache and runs uncached.
func NewSnapshotCache(log *logger.Logger, ttl time.Duration) (SnapshotCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &snapshotCache{
		log: log.With("service", "SnapshotCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (sc *snapshotCache) Get(ctx context.Context) (*CatalogPayload, bool) {
	raw, err := sc.rdb.Get(ctx, snapshotKey).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		sc.log.Warn("Snapshot cache read failed", "error", err)
		return nil, false
	}
	var payload CatalogPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		sc.log.Warn("Snapshot cache payload corrupt, dropping", "error", err)
		sc.Invalidate(ctx)
		return nil, false
	}
	return &payload, true
}

func (sc *snapshotCache) Set(ctx context.Context, payload *CatalogPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		sc.log.Warn("Snapshot cache marshal failed", "error", err)
		return
	}
	if err := sc.rdb.Set(ctx, snapshotKey, raw, sc.ttl).Err(); err != nil {
		sc.log.Warn("Snapshot cache write failed", "error", err)
	}
}

func (sc *snapshotCache) Invalidate(ctx context.Context) {
	if err := sc.rdb.Del(ctx, snapshotKey).Err(); err != nil {
		sc.log.Warn("Snapshot cache invalidation failed", "error", err)
	}
}

func (sc *snapshotCache) Close() error {
	return sc.rdb.Close()
}
