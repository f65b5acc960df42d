package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/chroniclecms/chronicle/config"
	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/pkg/circuit"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/chroniclecms/chronicle/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheService caches rendered listing responses. The page tree
// changes rarely compared to how often it is read, so a short TTL
// absorbs most of the read load. A circuit breaker guards the redis
// round trips: when redis is down requests skip the cache immediately
// instead of stalling on connection timeouts.
type CacheService struct {
	redisClient *redis.Client
	breaker     *circuit.Breaker
	enabled     bool
	ttl         time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, apiCfg config.APIConfig) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		breaker:     circuit.NewBreaker("redis-cache", circuit.DefaultConfig(), logger.GetLogger()),
		enabled:     apiCfg.CacheEnabled && redisClient.IsEnabled(),
		ttl:         apiCfg.CacheTTL,
	}
}

// IsEnabled reports whether responses are being cached at all.
func (s *CacheService) IsEnabled() bool {
	return s != nil && s.enabled
}

// GenerateCacheKey builds a deterministic key for one listing request.
// Two requests hit the same entry only when view, site and the full
// query string agree.
func (s *CacheService) GenerateCacheKey(view string, site *model.Site, c *gin.Context) string {
	h := md5.New()

	var siteID uint
	if site != nil {
		siteID = site.ID
	}
	fmt.Fprintf(h, "view:%s:site:%d", view, siteID)

	// Sort query parameters for consistent hashing
	queryParams := c.Request.URL.Query()
	sortedKeys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)

	for _, k := range sortedKeys {
		for _, v := range queryParams[k] {
			fmt.Fprintf(h, ":%s=%s", k, v)
		}
	}

	keyHash := fmt.Sprintf("%x", h.Sum(nil))
	return fmt.Sprintf("%s%s:%s", constants.CacheKeyPages, view, keyHash)
}

// GetCachedResponse retrieves a cached response if available and valid
func (s *CacheService) GetCachedResponse(ctx context.Context, cacheKey string) ([]byte, int, bool) {
	if !s.IsEnabled() {
		return nil, 0, false
	}

	var item *redis.CacheItem
	err := s.breaker.Execute(func() error {
		var getErr error
		item, getErr = s.redisClient.GetResponse(ctx, cacheKey)
		return getErr
	})
	if err != nil {
		if !errors.Is(err, circuit.ErrOpen) {
			logger.GetLogger().Error("Failed to get cached response",
				zap.String("cache_key", cacheKey),
				zap.Error(err),
			)
		}
		return nil, 0, false
	}
	if item == nil {
		// Cache miss
		return nil, 0, false
	}

	logger.GetLogger().Debug("Serving listing from cache",
		zap.String("cache_key", cacheKey),
	)
	return []byte(item.Data), item.Status, true
}

// SetCachedResponse stores a rendered response under cacheKey.
func (s *CacheService) SetCachedResponse(ctx context.Context, cacheKey string, data []byte, status int) error {
	if !s.IsEnabled() {
		return nil
	}
	if !s.ShouldCache(status, len(data)) {
		return nil
	}

	err := s.breaker.Execute(func() error {
		return s.redisClient.SetResponse(ctx, cacheKey, data, status, s.ttl)
	})
	if err != nil {
		if errors.Is(err, circuit.ErrOpen) {
			return nil
		}
		logger.GetLogger().Error("Failed to cache response",
			zap.String("cache_key", cacheKey),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// InvalidatePages drops every cached listing. Called after content or
// index changes.
func (s *CacheService) InvalidatePages(ctx context.Context) (int64, error) {
	if !s.IsEnabled() {
		return 0, nil
	}
	deleted, err := s.redisClient.DeleteByPattern(ctx, constants.CacheKeyPages+"*")
	if err != nil {
		return deleted, err
	}
	logger.GetLogger().Info("Page listing cache invalidated",
		zap.Int64("deleted_count", deleted),
	)
	return deleted, nil
}

// GetCacheStats returns cache backend statistics.
func (s *CacheService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	if !s.IsEnabled() {
		return map[string]interface{}{"enabled": false}, nil
	}
	stats, err := s.redisClient.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	stats["breaker"] = s.breaker.Stats()
	return stats, nil
}

// ClearAll flushes the whole cache database.
func (s *CacheService) ClearAll(ctx context.Context) error {
	if !s.IsEnabled() {
		return nil
	}
	return s.redisClient.FlushAll(ctx)
}

// ShouldCache decides whether one response is worth keeping.
func (s *CacheService) ShouldCache(status int, dataSize int) bool {
	if status != http.StatusOK {
		return false
	}
	// Oversized payloads would evict more useful entries.
	if dataSize > 1<<20 {
		return false
	}
	return true
}
