package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

const DefaultUnmappedTTL = 5 * time.Minute

// UnmappedCache holds the last computed review queue. Any write that can
// change the queue must call Invalidate.
type UnmappedCache interface {
	Get(ctx context.Context) ([]registry.UnmappedDetail, bool, error)
	Set(ctx context.Context, queue []registry.UnmappedDetail) error
	Invalidate(ctx context.Context) error
	Client() goredis.UniversalClient
	Close() error
}

type unmappedCache struct {
	log *logger.Logger
	rdb goredis.UniversalClient
	key string
	ttl time.Duration
}

// NewUnmappedCache connects to REDIS_ADDR. UNMAPPED_CACHE_TTL_SECONDS and
// REDIS_KEY_PREFIX are optional.
func NewUnmappedCache(log *logger.Logger) (UnmappedCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := DefaultUnmappedTTL
	if raw := strings.TrimSpace(os.Getenv("UNMAPPED_CACHE_TTL_SECONDS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			ttl = time.Duration(n) * time.Second
		}
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

	return NewUnmappedCacheWithClient(log, rdb, strings.TrimSpace(os.Getenv("REDIS_KEY_PREFIX")), ttl), nil
}

func NewUnmappedCacheWithClient(log *logger.Logger, rdb goredis.UniversalClient, prefix string, ttl time.Duration) UnmappedCache {
	if ttl <= 0 {
		ttl = DefaultUnmappedTTL
	}
	if prefix == "" {
		prefix = "payerdesk"
	}
	return &unmappedCache{
		log: log.With("service", "RedisUnmappedCache"),
		rdb: rdb,
		key: prefix + ":unmapped:queue",
		ttl: ttl,
	}
}

func (c *unmappedCache) Get(ctx context.Context) ([]registry.UnmappedDetail, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []registry.UnmappedDetail
	if err := json.Unmarshal(raw, &out); err != nil {
		// a corrupt entry is treated as a miss and dropped
		c.log.Warn("Dropping undecodable unmapped cache entry", "error", err)
		_ = c.rdb.Del(ctx, c.key).Err()
		return nil, false, nil
	}
	return out, true, nil
}

func (c *unmappedCache) Set(ctx context.Context, queue []registry.UnmappedDetail) error {
	if queue == nil {
		queue = []registry.UnmappedDetail{}
	}
	raw, err := json.Marshal(queue)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key, raw, c.ttl).Err()
}

func (c *unmappedCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}

func (c *unmappedCache) Client() goredis.UniversalClient { return c.rdb }

func (c *unmappedCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
