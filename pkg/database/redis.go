package database

import (
	"audit_survey_backend/internal/config"
	"audit_survey_backend/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

func InitRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		rdb.Close()
		return nil, err
	}

	logger.Log.Info("Redis connection established")
	return rdb, nil
}
