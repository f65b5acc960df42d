package handler

import (
	"net/http"

	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/internal/dto"
	"github.com/chroniclecms/chronicle/internal/service"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CacheHandler struct {
	cacheService *service.CacheService
}

func NewCacheHandler(cacheService *service.CacheService) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
	}
}

// InvalidateCache drops cached listings. With scope "all" the whole
// cache database goes, not just the listings.
func (h *CacheHandler) InvalidateCache(c *gin.Context) {
	req := &dto.CacheInvalidateRequest{}
	if raw, exists := c.Get(constants.GinKeyRequestBody); exists {
		if parsed, ok := raw.(*dto.CacheInvalidateRequest); ok {
			req = parsed
		}
	}

	if req.Scope == "all" {
		if err := h.cacheService.ClearAll(c.Request.Context()); err != nil {
			logger.GetLogger().Error("Failed to clear cache",
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, dto.CacheInvalidateResponse{
				Success: false,
				Message: "Failed to clear cache",
			})
			return
		}

		logger.GetLogger().Info("Cache cleared")
		c.JSON(http.StatusOK, dto.CacheInvalidateResponse{
			Success: true,
			Message: "Cache cleared",
		})
		return
	}

	deleted, err := h.cacheService.InvalidatePages(c.Request.Context())
	if err != nil {
		logger.GetLogger().Error("Failed to invalidate page cache",
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.CacheInvalidateResponse{
			Success: false,
			Message: "Failed to invalidate cache",
		})
		return
	}

	logger.GetLogger().Info("Page cache invalidated",
		zap.Int64("deleted", deleted),
	)

	c.JSON(http.StatusOK, dto.CacheInvalidateResponse{
		Success: true,
		Message: "Cache invalidated successfully",
		Deleted: deleted,
	})
}

// GetCacheStats returns cache statistics
func (h *CacheHandler) GetCacheStats(c *gin.Context) {
	stats, err := h.cacheService.GetCacheStats(c.Request.Context())
	if err != nil {
		logger.GetLogger().Error("Failed to get cache stats",
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to get cache statistics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}
