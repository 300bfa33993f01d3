package bootstrap

import (
	"context"
	"log/slog"

	"artisan-store/internal/infra/cache"
	"artisan-store/internal/pkg/config"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewCache,
	),
)

// NewCache falls back to an in-process cache when Redis is unreachable so the
// storefront can still serve traffic without it.
func NewCache(lc fx.Lifecycle, cfg config.Config) cache.Cache {
	redisCache, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Warn("redis unavailable, using in-memory cache", "addr", cfg.Redis.Addr, "error", err)
		return cache.NewInMemoryCache()
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return redisCache.Close()
		},
	})

	return redisCache
}
