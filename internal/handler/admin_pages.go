package handler

import (
	"net/http"
	"strconv"

	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/service"
	ctxutil "github.com/chroniclecms/chronicle/pkg/context"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AdminPagesHandler serves the admin pages endpoints: whole-tree
// listings with the explorer filter, drafts included, never cached.
type AdminPagesHandler struct {
	pageService  *service.PageService
	searchIndex  *service.SearchIndexService
	cacheService *service.CacheService
}

func NewAdminPagesHandler(pageService *service.PageService, searchIndex *service.SearchIndexService, cacheService *service.CacheService) *AdminPagesHandler {
	return &AdminPagesHandler{
		pageService:  pageService,
		searchIndex:  searchIndex,
		cacheService: cacheService,
	}
}

// List answers GET /api/admin/pages
func (h *AdminPagesHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "AdminListPages")

	logger.DebugWithContext(ctx, "Admin page listing request").
		String("query", c.Request.URL.RawQuery).
		Log()

	envelope, err := h.pageService.ListAdmin(ctx, c.Request.URL.Query())
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorWithContext(ctx, "Admin page listing failed").
				Int("http_status", status).
				Err(err).
				Log()
		} else {
			logger.WarnWithContext(ctx, "Admin page listing rejected").
				Int("http_status", status).
				Err(err).
				Log()
		}
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, envelope)
}

// Detail answers GET /api/admin/pages/:id
func (h *AdminPagesHandler) Detail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "AdminPageDetail")

	id := c.Param("id")
	pageID, err := strconv.Atoi(id)
	if err != nil || pageID <= 0 {
		c.JSON(http.StatusNotFound,
			constants.BuildErrorResponse(apperrors.ErrPageNotFound.Message, nil))
		return
	}

	page, err := h.pageService.GetAdmin(ctx, uint(pageID))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Admin page detail rejected").
			Int("page_id", pageID).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, page)
}

// Schema answers GET /api/admin/schema
func (h *AdminPagesHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.pageService.AdminSchema())
}

// Reindex answers POST /api/admin/search/reindex. It rebuilds the
// search index and drops cached listings, which may now be stale
// relative to the index.
func (h *AdminPagesHandler) Reindex(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Reindex")

	logger.InfoWithContext(ctx, "Search reindex requested").Log()

	result, err := h.searchIndex.Rebuild(ctx)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.ErrorWithContext(ctx, "Search reindex failed").
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	if _, err := h.cacheService.InvalidatePages(ctx); err != nil {
		logger.WarnWithContext(ctx, "Cache invalidation after reindex failed").
			Err(err).
			Log()
	}

	c.JSON(http.StatusOK, result)
}
