package config

import (
	"context"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the durable cache layer, the invalidation broadcast and
// the admin rate limiter. It is nil when Redis is disabled or unreachable;
// every consumer treats nil as "process-local only".
var RedisClient *redis.Client

func ConnectRedis() {
	if os.Getenv("REDIS_DISABLED") == "true" {
		log.Println("⚠️  REDIS_DISABLED=true, caches stay process-local")
		return
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		// Default to local Redis for development
		redisURL = "redis://localhost:6379"
		log.Println("⚠️  REDIS_URL not set, using local Redis:", redisURL)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("❌ invalid REDIS_URL, caches stay process-local: %v", err)
		return
	}

	client := redis.NewClient(opt)

	ctx, cancel := WithCustomTimeout(redisPingTimeout)
	defer cancel()
	res, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("❌ failed to connect to Redis, caches stay process-local: %v", err)
		_ = client.Close()
		return
	}

	RedisClient = client
	log.Println("✅ Connected to Redis:", res)
}

func CloseRedis() {
	if RedisClient != nil {
		_ = RedisClient.Close()
		log.Println("✅ Redis connection closed")
	}
}

// PingRedis reports Redis health for /healthz. A disabled client is healthy.
func PingRedis(ctx context.Context) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Ping(ctx).Err()
}
