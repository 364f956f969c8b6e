package redisclient

import (
	"github.com/mindungil/n2g/internal/config"

	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from configuration.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Enabled reports whether a Redis server is configured.
func Enabled(cfg config.RedisConfig) bool {
	return cfg.Addr != ""
}
