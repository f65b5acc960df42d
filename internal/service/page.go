package service

import (
	"context"
	"errors"
	"net/url"

	"github.com/chroniclecms/chronicle/config"
	"github.com/chroniclecms/chronicle/internal/api"
	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/internal/dto"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
	"github.com/chroniclecms/chronicle/internal/search"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"go.uber.org/zap"
)

// PageStore is the page access the service needs from the repository.
type PageStore interface {
	Query() query.PageQuery
	Live() query.PageQuery
	GetByID(ctx context.Context, id uint) (*model.Page, error)
	FirstRootNode(ctx context.Context) (*model.Page, error)
	SiteRootPage(ctx context.Context, site *model.Site) (*model.Page, error)
	SitePageByID(ctx context.Context, site *model.Site, id uint) (*model.Page, error)
	AllLive(ctx context.Context) ([]model.Page, error)
}

// PageService answers the pages endpoints. It owns one filter chain
// per view: the public chain resolves tree targets inside the
// requesting site, the admin chain sees the whole tree and adds the
// explorer hook filter.
type PageService struct {
	pages PageStore

	publicView  *api.View
	adminView   *api.View
	publicChain *api.Chain
	adminChain  *api.Chain
	paginator   *api.Paginator
}

func NewPageService(pages PageStore, backend search.Backend, apiCfg config.APIConfig) *PageService {
	publicScope := siteTreeScope{pages: pages}
	adminScope := globalTreeScope{pages: pages}

	publicChain := api.NewChain(
		api.NewFieldsFilter(),
		api.NewOrderingFilter(),
		api.NewSearchFilter(apiCfg.SearchEnabled, backend),
		api.NewChildOfFilter(publicScope),
		api.NewDescendantOfFilter(publicScope),
	)
	adminChain := api.NewChain(
		api.NewFieldsFilter(),
		api.NewOrderingFilter(),
		api.NewSearchFilter(apiCfg.SearchEnabled, backend),
		api.NewChildOfFilter(adminScope),
		api.NewDescendantOfFilter(adminScope),
		api.NewForExplorerFilter(),
	)

	return &PageService{
		pages:       pages,
		publicView:  api.PagesView(),
		adminView:   api.AdminPagesView(),
		publicChain: publicChain,
		adminChain:  adminChain,
		paginator:   api.NewPaginator(apiCfg.MaxLimit),
	}
}

// ListPublic runs the public filter pipeline over the site's published
// subtree and returns one page window.
func (s *PageService) ListPublic(ctx context.Context, site *model.Site, params url.Values) (*dto.PageListEnvelope, error) {
	if site == nil {
		return nil, apperrors.ErrSiteNotFound
	}

	root, err := s.pages.SiteRootPage(ctx, site)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			logger.GetLogger().Error("Service: Site root page missing",
				zap.Uint("site_id", site.ID),
				zap.Uint("root_page_id", site.RootPageID),
			)
			return nil, apperrors.ErrSiteNotFound
		}
		return nil, err
	}

	qs := s.pages.Live().FilterDescendantOf(root, true)
	return s.list(ctx, params, site, s.publicChain, s.publicView, qs, constants.RoutePublicPages)
}

// ListAdmin runs the admin filter pipeline over the whole tree, drafts
// included.
func (s *PageService) ListAdmin(ctx context.Context, params url.Values) (*dto.PageListEnvelope, error) {
	return s.list(ctx, params, nil, s.adminChain, s.adminView, s.pages.Query(), constants.RouteAdminPages)
}

func (s *PageService) list(ctx context.Context, params url.Values, site *model.Site, chain *api.Chain, view *api.View, qs query.PageQuery, detailURLBase string) (*dto.PageListEnvelope, error) {
	r := api.NewRequest(ctx, params, site)

	qs, err := chain.FilterQueryset(r, qs, view)
	if err != nil {
		return nil, err
	}

	pages, total, err := s.paginator.Paginate(r, qs)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Debug("Service: Page listing built",
		zap.String("view", view.Name),
		zap.Int64("total_count", total),
		zap.Int("window_size", len(pages)),
	)

	env := dto.NewPageListEnvelope(pages, total, detailURLBase)
	return &env, nil
}

// GetPublic returns one published page of the site's subtree.
func (s *PageService) GetPublic(ctx context.Context, site *model.Site, id uint) (*dto.PageResponse, error) {
	if site == nil {
		return nil, apperrors.ErrSiteNotFound
	}

	page, err := s.pages.SitePageByID(ctx, site, id)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			return nil, apperrors.ErrPageNotFound
		}
		return nil, err
	}
	if !page.Live {
		// Drafts are invisible on the public API.
		return nil, apperrors.ErrPageNotFound
	}

	resp := dto.NewPageResponse(page, constants.RoutePublicPages)
	return &resp, nil
}

// GetAdmin returns any page by id, drafts included.
func (s *PageService) GetAdmin(ctx context.Context, id uint) (*dto.PageResponse, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			return nil, apperrors.ErrPageNotFound
		}
		return nil, err
	}

	resp := dto.NewPageResponse(page, constants.RouteAdminPages)
	return &resp, nil
}

// PublicSchema describes every query parameter the public listing
// accepts.
func (s *PageService) PublicSchema() dto.SchemaEnvelope {
	return s.schema(s.publicChain, s.publicView)
}

// AdminSchema describes every query parameter the admin listing
// accepts.
func (s *PageService) AdminSchema() dto.SchemaEnvelope {
	return s.schema(s.adminChain, s.adminView)
}

func (s *PageService) schema(chain *api.Chain, view *api.View) dto.SchemaEnvelope {
	fields := chain.SchemaFields(view)
	fields = append(fields, s.paginator.SchemaFields()...)
	return dto.SchemaEnvelope{
		View:   view.Name,
		Fields: fields,
	}
}
