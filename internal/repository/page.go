package repository

import (
	"context"
	"errors"
	"time"

	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PageRepository provides access to the page tree.
type PageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Query returns a handle over the whole page tree, root included.
func (r *PageRepository) Query() query.PageQuery {
	return query.NewGormPageQuery(r.db)
}

// Live returns a handle restricted to published pages.
func (r *PageRepository) Live() query.PageQuery {
	return query.NewGormPageQuery(r.db).FilterEquals("live", true)
}

// GetByID fetches a single page with its tags. Returns
// query.ErrNotFound when no page has that id.
func (r *PageRepository) GetByID(ctx context.Context, id uint) (*model.Page, error) {
	logger.GetLogger().Debug("Repository: Getting page by ID",
		zap.Uint("page_id", id),
	)

	var page model.Page
	start := time.Now()
	err := r.db.WithContext(ctx).Preload("Tags").First(&page, id).Error
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.GetLogger().Debug("Repository: Page not found",
				zap.Uint("page_id", id),
				zap.Duration("query_duration", duration),
			)
			return nil, query.ErrNotFound
		}
		logger.GetLogger().Error("Repository: Failed to get page by ID",
			zap.Uint("page_id", id),
			zap.Duration("query_duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.GetLogger().Debug("Repository: Page retrieved",
		zap.Uint("page_id", id),
		zap.String("title", page.Title),
		zap.Duration("query_duration", duration),
	)

	return &page, nil
}

// FirstRootNode returns the first page at depth 1 in path order. The
// admin explorer starts here when asked for "root".
func (r *PageRepository) FirstRootNode(ctx context.Context) (*model.Page, error) {
	var page model.Page
	start := time.Now()
	err := r.db.WithContext(ctx).
		Where("depth = ?", 1).
		Order("path").
		First(&page).Error
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.GetLogger().Warn("Repository: No root node in page tree",
				zap.Duration("query_duration", duration),
			)
			return nil, query.ErrNotFound
		}
		logger.GetLogger().Error("Repository: Failed to get root node",
			zap.Duration("query_duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	return &page, nil
}

// SiteRootPage returns the page the site is anchored at.
func (r *PageRepository) SiteRootPage(ctx context.Context, site *model.Site) (*model.Page, error) {
	if site == nil {
		return nil, query.ErrNotFound
	}
	return r.GetByID(ctx, site.RootPageID)
}

// SitePageByID fetches a page by id restricted to the subtree of the
// site's root page, root page itself included.
func (r *PageRepository) SitePageByID(ctx context.Context, site *model.Site, id uint) (*model.Page, error) {
	root, err := r.SiteRootPage(ctx, site)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Debug("Repository: Getting site page by ID",
		zap.Uint("page_id", id),
		zap.Uint("site_id", site.ID),
	)

	var page model.Page
	start := time.Now()
	err = r.db.WithContext(ctx).
		Preload("Tags").
		Where("id = ? AND path LIKE ?", id, root.Path+"%").
		First(&page).Error
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.GetLogger().Debug("Repository: Page not in site subtree",
				zap.Uint("page_id", id),
				zap.Uint("site_id", site.ID),
				zap.Duration("query_duration", duration),
			)
			return nil, query.ErrNotFound
		}
		logger.GetLogger().Error("Repository: Failed to get site page by ID",
			zap.Uint("page_id", id),
			zap.Uint("site_id", site.ID),
			zap.Duration("query_duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	return &page, nil
}

// AllLive returns every published page with tags preloaded, in path
// order. The search indexer walks this to rebuild the index.
func (r *PageRepository) AllLive(ctx context.Context) ([]model.Page, error) {
	var pages []model.Page
	start := time.Now()
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("live = ?", true).
		Order("path").
		Find(&pages).Error
	duration := time.Since(start)

	if err != nil {
		logger.GetLogger().Error("Repository: Failed to list live pages",
			zap.Duration("query_duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.GetLogger().Debug("Repository: Live pages listed",
		zap.Int("count", len(pages)),
		zap.Duration("query_duration", duration),
	)

	return pages, nil
}
