package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chroniclecms/chronicle/config"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrDisabled is returned when an operation requires Redis but the
// client was configured with REDIS_ENABLED=false.
var ErrDisabled = errors.New("redis is disabled")

type Client struct {
	rdb     *redis.Client
	enabled bool
}

// CacheItem wraps a cached API response body.
type CacheItem struct {
	Data      string    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    int       `json:"status"`
}

func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		logger.GetLogger().Info("Redis disabled, running without cache and redis search")
		return &Client{enabled: false}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	client := &Client{rdb: rdb, enabled: true}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return client, nil
}

// IsEnabled reports whether a live Redis connection is configured.
func (c *Client) IsEnabled() bool {
	return c != nil && c.enabled
}

// Raw exposes the underlying connection for callers that speak Redis
// directly, such as the search index. Returns nil when disabled.
func (c *Client) Raw() *redis.Client {
	if !c.IsEnabled() {
		return nil
	}
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	if !c.IsEnabled() {
		return ErrDisabled
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if !c.IsEnabled() {
		return nil
	}
	return c.rdb.Close()
}

// SetResponse caches a serialized API response body.
func (c *Client) SetResponse(ctx context.Context, key string, data []byte, status int, ttl time.Duration) error {
	if !c.IsEnabled() {
		return ErrDisabled
	}

	item := CacheItem{
		Data:      string(data),
		ExpiresAt: time.Now().Add(ttl),
		Status:    status,
	}

	jsonData, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal cache item: %w", err)
	}

	if err := c.rdb.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		logger.GetLogger().Error("Failed to set cache",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set cache: %w", err)
	}

	logger.GetLogger().Debug("Cache set successfully",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
		zap.Int("data_size", len(data)),
	)

	return nil
}

// GetResponse retrieves a cached API response. A nil item means miss.
func (c *Client) GetResponse(ctx context.Context, key string) (*CacheItem, error) {
	if !c.IsEnabled() {
		return nil, nil
	}

	data, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		logger.GetLogger().Error("Failed to get cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var item CacheItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		logger.GetLogger().Error("Failed to unmarshal cache item",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to unmarshal cache item: %w", err)
	}

	// Redis TTL should have evicted this already; double check anyway.
	if time.Now().After(item.ExpiresAt) {
		c.Delete(ctx, key)
		return nil, nil
	}

	logger.GetLogger().Debug("Cache hit successfully",
		zap.String("key", key),
		zap.Time("expires_at", item.ExpiresAt),
	)

	return &item, nil
}

// Delete removes a cache entry.
func (c *Client) Delete(ctx context.Context, key string) error {
	if !c.IsEnabled() {
		return ErrDisabled
	}

	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		logger.GetLogger().Error("Failed to delete cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete cache: %w", err)
	}

	logger.GetLogger().Debug("Cache deleted successfully",
		zap.String("key", key),
	)

	return nil
}

// DeleteByPattern removes cache entries matching pattern. Uses SCAN so
// large keyspaces do not block the server.
func (c *Client) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	if !c.IsEnabled() {
		return 0, ErrDisabled
	}

	var deleted int64
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()

	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.rdb.Del(ctx, batch...).Result()
		deleted += n
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("failed to delete cache by pattern: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan keys by pattern: %w", err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("failed to delete cache by pattern: %w", err)
	}

	logger.GetLogger().Info("Cache deleted by pattern successfully",
		zap.String("pattern", pattern),
		zap.Int64("deleted_count", deleted),
	)

	return deleted, nil
}

// Exists checks if key exists
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	if !c.IsEnabled() {
		return false, nil
	}
	result, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return result > 0, nil
}

// GetStats returns Redis statistics
func (c *Client) GetStats(ctx context.Context) (map[string]interface{}, error) {
	if !c.IsEnabled() {
		return map[string]interface{}{"enabled": false}, nil
	}

	info, err := c.rdb.Info(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis info: %w", err)
	}

	stats := make(map[string]interface{})
	stats["enabled"] = true
	stats["info"] = info

	memoryInfo := c.rdb.Info(ctx, "memory").Val()
	stats["memory_info"] = memoryInfo

	poolStats := c.rdb.PoolStats()
	stats["pool_stats"] = map[string]interface{}{
		"hits":        poolStats.Hits,
		"misses":      poolStats.Misses,
		"total_conns": poolStats.TotalConns,
		"idle_conns":  poolStats.IdleConns,
		"stale_conns": poolStats.StaleConns,
	}

	return stats, nil
}

// FlushAll clears all cache (use with caution)
func (c *Client) FlushAll(ctx context.Context) error {
	if !c.IsEnabled() {
		return ErrDisabled
	}
	if err := c.rdb.FlushAll(ctx).Err(); err != nil {
		return fmt.Errorf("failed to flush all cache: %w", err)
	}

	logger.GetLogger().Warn("All cache flushed")
	return nil
}
