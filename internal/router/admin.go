package router

import (
	"github.com/chroniclecms/chronicle/internal/dto"
	"github.com/gin-gonic/gin"
)

func (r *Router) adminRoutes(admin *gin.RouterGroup) {
	// Whole-tree page access, drafts included
	pages := admin.Group("/pages")
	{
		pages.GET("", r.adminHandler.List)
		pages.GET("/:id", r.adminHandler.Detail)
	}

	admin.GET("/schema", r.adminHandler.Schema)

	// Search index management
	search := admin.Group("/search")
	{
		search.POST("/reindex", r.adminHandler.Reindex)
	}

	// Response cache management
	cache := admin.Group("/cache")
	{
		cache.GET("/stats", r.cacheHandler.GetCacheStats)
		cache.POST("/invalidate", r.validMw.ValidateRequestBody(func() interface{} { return &dto.CacheInvalidateRequest{} }), r.cacheHandler.InvalidateCache)
	}
}
