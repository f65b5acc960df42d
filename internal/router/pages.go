package router

import "github.com/gin-gonic/gin"

func (r *Router) pageRoutes(version *gin.RouterGroup) {
	// Published pages of the requesting site
	pages := version.Group("/pages")
	{
		// Filtered, ordered, paginated listing
		pages.GET("", r.pagesHandler.List)

		// Single page by id
		pages.GET("/:id", r.pagesHandler.Detail)
	}

	// Parameter descriptors of the listing endpoint
	version.GET("/schema", r.pagesHandler.Schema)

	// Human-readable rendering of the same descriptors
	version.GET("/docs", r.docsHandler.APIDocs)
}
