// SPDX-License-Identifier: MIT

package cache

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/petrolab/wellcore/internal/config"
)

// memoryCleanupInterval is how often the in-memory janitor sweeps.
const memoryCleanupInterval = time.Minute

// Open builds the cache backend selected by cfg.
func Open(cfg config.CacheConfig, logger zerolog.Logger) (Cache, error) {
	switch cfg.Backend {
	case config.CacheNone, "":
		return NewNoOp(), nil
	case config.CacheMemory:
		return NewMemory(memoryCleanupInterval), nil
	case config.CacheRedis:
		return NewRedis(RedisConfig{Addr: cfg.RedisAddr}, logger)
	case config.CacheBadger:
		return NewBadger(cfg.BadgerPath, logger)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
