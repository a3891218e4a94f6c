package cache

import (
	"context"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// InitRedis connects the process-wide Redis client when an address is
// configured. Without one the series cache is simply skipped.
func InitRedis(ctx context.Context, addr string) {
	if addr == "" {
		log.Println("no Redis address configured, series cache disabled")
		return
	}

	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			log.Fatalf("invalid Redis URL: %v", err)
		}
		Client = redis.NewClient(opts)
	} else {
		Client = redis.NewClient(&redis.Options{Addr: addr})
	}

	if err := Client.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
}
