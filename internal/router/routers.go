package router

import (
	"time"

	"github.com/chroniclecms/chronicle/config"
	"github.com/chroniclecms/chronicle/internal/handler"
	"github.com/chroniclecms/chronicle/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	pagesHandler  *handler.PagesHandler
	adminHandler  *handler.AdminPagesHandler
	cacheHandler  *handler.CacheHandler
	healthHandler *handler.HealthHandler
	docsHandler   *handler.DocsHandler

	validMw *middleware.ValidationMiddleware
	adminMw *middleware.AdminAuthMiddleware
	siteMw  *middleware.SiteResolverMiddleware
	Config  *config.Config
}

func NewRouter(
	pages *handler.PagesHandler,
	adminPages *handler.AdminPagesHandler,
	cache *handler.CacheHandler,
	health *handler.HealthHandler,
	docs *handler.DocsHandler,

	validMw *middleware.ValidationMiddleware,
	adminMw *middleware.AdminAuthMiddleware,
	siteMw *middleware.SiteResolverMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		pagesHandler:  pages,
		adminHandler:  adminPages,
		cacheHandler:  cache,
		healthHandler: health,
		docsHandler:   docs,

		validMw: validMw,
		adminMw: adminMw,
		siteMw:  siteMw,
		Config:  config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	// Create Gin router
	router := gin.Default()

	// Use custom logging and recovery middleware
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestResponseMiddleware())
	router.Use(middleware.SecurityLoggingMiddleware())
	router.Use(middleware.CORS())
	router.Use(middleware.ContextMiddleware("chronicle"))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)
		api.GET("/health/live", r.healthHandler.BasicHealth)

		v2 := api.Group("/v2")
		{
			v2.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

			// Every public endpoint answers for exactly one site,
			// resolved from the Host header.
			v2.Use(r.siteMw.Resolve())

			r.pageRoutes(v2)
		}

		admin := api.Group("/admin")
		{
			admin.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
			admin.Use(r.adminMw.RequireAdmin())

			r.adminRoutes(admin)
		}
	}

	return router
}
