package service

import (
	"github.com/chroniclecms/chronicle/internal/api"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
)

// globalTreeScope resolves tree filter targets against the whole page
// tree. The admin API uses it: any page is a valid parent or ancestor.
type globalTreeScope struct {
	pages PageStore
}

func (s globalTreeScope) RootPage(r *api.Request) (*model.Page, error) {
	return s.pages.FirstRootNode(r.Ctx)
}

func (s globalTreeScope) PageByID(r *api.Request, id uint) (*model.Page, error) {
	return s.pages.GetByID(r.Ctx, id)
}

// siteTreeScope resolves tree filter targets inside the requesting
// site's subtree. Pages of other sites do not exist as far as the
// public API is concerned.
type siteTreeScope struct {
	pages PageStore
}

func (s siteTreeScope) RootPage(r *api.Request) (*model.Page, error) {
	if r.Site == nil {
		return nil, query.ErrNotFound
	}
	return s.pages.SiteRootPage(r.Ctx, r.Site)
}

func (s siteTreeScope) PageByID(r *api.Request, id uint) (*model.Page, error) {
	if r.Site == nil {
		return nil, query.ErrNotFound
	}
	return s.pages.SitePageByID(r.Ctx, r.Site, id)
}
