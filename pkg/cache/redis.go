package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dipanshu-5/EdPlan/pkg/config"
)

const keyPrefix = "edplan"

// NewRedis returns a configured Redis client.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// Key joins parts into a namespaced cache key. Parts are lower-cased and spaces collapsed
// so "Computer Science" and "computer  science" share an entry.
func Key(parts ...string) string {
	normalized := make([]string, 0, len(parts)+1)
	normalized = append(normalized, keyPrefix)
	for _, part := range parts {
		normalized = append(normalized, strings.Join(strings.Fields(strings.ToLower(part)), "_"))
	}
	return strings.Join(normalized, ":")
}
