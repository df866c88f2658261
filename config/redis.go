package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// ConnectRedis returns nil when Redis is not configured or unreachable;
// callers treat a nil client as "single instance, no cache".
func ConnectRedis(cfg *AppConfig) *redis.Client {
	log := GetLogger()
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, settings cache and fan-out disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Warnf("Redis connection failed: %v", err)
		log.Warn("Settings cache and cross-instance refresh will be disabled")
		_ = client.Close()
		return nil
	}

	log.Info("Connected to Redis")
	return client
}
