package app

import (
	"fmt"

	"github.com/yungbote/payerdesk/internal/clients/redis"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

type Clients struct {
	// UnmappedCache is nil when no Redis is configured.
	UnmappedCache redis.UnmappedCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	if !cfg.CacheEnabled {
		log.Info("REDIS_ADDR not set; unmapped queue is recomputed per request")
		return Clients{}, nil
	}
	cache, err := redis.NewUnmappedCache(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis unmapped cache: %w", err)
	}
	return Clients{UnmappedCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.UnmappedCache != nil {
		_ = c.UnmappedCache.Close()
	}
}
