package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/middleware"
	"github.com/chroniclecms/chronicle/internal/service"
	ctxutil "github.com/chroniclecms/chronicle/pkg/context"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/gin-gonic/gin"
)

// PagesHandler serves the public pages endpoints. Listings go through
// the response cache when it is enabled.
type PagesHandler struct {
	pageService  *service.PageService
	cacheService *service.CacheService
}

func NewPagesHandler(pageService *service.PageService, cacheService *service.CacheService) *PagesHandler {
	return &PagesHandler{
		pageService:  pageService,
		cacheService: cacheService,
	}
}

// List answers GET /api/v2/pages
func (h *PagesHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListPages")
	site := middleware.SiteFromContext(c)

	logger.DebugWithContext(ctx, "Page listing request").
		String("query", c.Request.URL.RawQuery).
		Log()

	cacheKey := h.cacheService.GenerateCacheKey("pages", site, c)
	if data, status, hit := h.cacheService.GetCachedResponse(ctx, cacheKey); hit {
		c.Data(status, constants.ContentTypeJSON, data)
		return
	}

	envelope, err := h.pageService.ListPublic(ctx, site, c.Request.URL.Query())
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorWithContext(ctx, "Page listing failed").
				Int("http_status", status).
				Err(err).
				Log()
		} else {
			logger.WarnWithContext(ctx, "Page listing rejected").
				Int("http_status", status).
				Err(err).
				Log()
		}
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to serialize listing").
			Err(err).
			Log()
		c.JSON(http.StatusInternalServerError,
			constants.BuildErrorResponse(constants.MsgInternalError, nil))
		return
	}

	h.cacheService.SetCachedResponse(ctx, cacheKey, data, http.StatusOK)
	c.Data(http.StatusOK, constants.ContentTypeJSON, data)
}

// Detail answers GET /api/v2/pages/:id
func (h *PagesHandler) Detail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "PageDetail")
	site := middleware.SiteFromContext(c)

	id := c.Param("id")
	pageID, err := strconv.Atoi(id)
	if err != nil || pageID <= 0 {
		// Anything that is not a page id is not a page.
		c.JSON(http.StatusNotFound,
			constants.BuildErrorResponse(apperrors.ErrPageNotFound.Message, nil))
		return
	}

	page, err := h.pageService.GetPublic(ctx, site, uint(pageID))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		logger.WarnWithContext(ctx, "Page detail rejected").
			Int("page_id", pageID).
			Int("http_status", status).
			Err(err).
			Log()
		c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}

	c.JSON(http.StatusOK, page)
}

// Schema answers GET /api/v2/schema
func (h *PagesHandler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, h.pageService.PublicSchema())
}
