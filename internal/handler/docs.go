package handler

import (
	"net/http"

	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/internal/docs"
	"github.com/chroniclecms/chronicle/internal/service"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DocsHandler struct {
	pageService *service.PageService
	renderer    *docs.Renderer
}

func NewDocsHandler(pageService *service.PageService, renderer *docs.Renderer) *DocsHandler {
	return &DocsHandler{
		pageService: pageService,
		renderer:    renderer,
	}
}

// APIDocs serves the HTML reference for the public content API. The
// parameter tables come from the same schema descriptors the JSON
// schema endpoint serves, so the page never drifts from the pipeline.
func (h *DocsHandler) APIDocs(c *gin.Context) {
	doc := docs.Document{
		Title:   constants.AppName,
		Version: constants.AppVersion,
		Endpoints: []docs.Endpoint{
			{
				Method:  http.MethodGet,
				Path:    constants.RoutePublicPages,
				Summary: "List the published pages of the requesting site. Filters apply left to right over the query string; the filtered set is paginated.",
				Schema:  h.pageService.PublicSchema(),
			},
			{
				Method:  http.MethodGet,
				Path:    constants.RoutePublicPages + "/:id",
				Summary: "Retrieve one published page by id. Pages outside the requesting site, and drafts, are not found.",
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v2/schema",
				Summary: "The parameter descriptors of the listing endpoint as JSON.",
			},
		},
	}

	html, err := h.renderer.Render(doc)
	if err != nil {
		logger.GetLogger().Error("Failed to render API docs",
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
		return
	}

	c.Data(http.StatusOK, constants.ContentTypeHTML+"; charset=utf-8", html)
}
