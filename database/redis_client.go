package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"walrus-extend/conf"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisCache shared query-cache tier; a nil *RedisCache is a disabled cache
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to redis; returns nil, nil when redis is disabled
func NewRedisCache(ctx context.Context, cfg conf.RedisConfig, defaultTTL time.Duration) (*RedisCache, error) {
	if !cfg.Enabled {
		log.Println("Redis cache is disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		log.Printf("⚠️  Failed to connect to Redis: %v", err)
		return nil, err
	}

	ttl := defaultTTL
	if cfg.CacheTTL > 0 {
		ttl = time.Duration(cfg.CacheTTL) * time.Second
	}
	log.Printf("✅ Redis connected successfully: %s:%d (DB: %d, TTL: %s)", cfg.Host, cfg.Port, cfg.DB, ttl)
	return NewRedisCacheWithClient(client, ttl), nil
}

// NewRedisCacheWithClient wraps an existing client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Enabled reports whether the tier is usable
func (r *RedisCache) Enabled() bool {
	return r != nil && r.client != nil
}

// Close close Redis connection
func (r *RedisCache) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}

// Set stores value as JSON; ttl <= 0 uses the cache default
func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !r.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("⚠️  Failed to set cache for key %s: %v", key, err)
		return err
	}
	return nil
}

// Get decodes the cached JSON into dest; redis.Nil on a miss
func (r *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if !r.Enabled() {
		return redis.Nil
	}
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return nil
}

// Delete delete cache by key
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if !r.Enabled() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		log.Printf("⚠️  Failed to delete cache for key %s: %v", key, err)
		return err
	}
	return nil
}

// DeletePattern delete cache by glob pattern
func (r *RedisCache) DeletePattern(ctx context.Context, pattern string) error {
	if !r.Enabled() {
		return nil
	}
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("⚠️  Failed to delete cache for key %s: %v", iter.Val(), err)
		}
	}
	return iter.Err()
}

// IsMiss reports a cache miss
func IsMiss(err error) bool {
	return err == redis.Nil
}
