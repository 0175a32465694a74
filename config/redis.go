package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance, nil when REDIS_ADDR is unset
// or the server did not answer PING.
var RedisClient *redis.Client

func InitRedis() {
	addr := GetEnv("REDIS_ADDR", "")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASS", ""),
		DB:       GetEnvInt("REDIS_DB", 0),
	})
}

// PingRedis disables RedisClient when the server is unreachable.
func PingRedis(ctx context.Context) bool {
	if RedisClient == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		_ = RedisClient.Close()
		RedisClient = nil
		return false
	}
	return true
}
