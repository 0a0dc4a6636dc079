package bootstrap

import (
	"context"
	"log/slog"

	"campus-booking/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

// NewRedis returns a nil Scripter when REDIS_ADDR is empty, which turns rate
// limiting off.
func NewRedis(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) redis.Scripter {
	if cfg.RateLimit.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				// The limiter fails open, so an unreachable Redis is not fatal.
				logger.Warn("Redis に接続できません。レート制限は無効になります", "addr", cfg.RateLimit.RedisAddr, "error", err)
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}
