package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort Redis-backed key store, used as the token
// revocation list. A disabled Cache (no URL, unreachable server, nil
// receiver) is valid: every operation becomes a no-op.
type Cache struct {
	client *redis.Client
}

// New connects to Redis if redisURL is provided. Connection failures
// disable the cache rather than failing startup.
func New(redisURL string) *Cache {
	if redisURL == "" {
		log.Println("Redis URL not provided, token revocation disabled")
		return &Cache{}
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Failed to parse Redis URL: %v, token revocation disabled", err)
		return &Cache{}
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v, token revocation disabled", err)
		return &Cache{}
	}

	log.Println("Redis cache initialized successfully")
	return &Cache{client: client}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) Close() {
	if c.Enabled() {
		c.client.Close()
	}
}

// Set stores a value with an expiration.
func (c *Cache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Set(ctx, key, value, expiration).Err()
}

// Exists reports whether the key is present.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Del(ctx, key).Err()
}
