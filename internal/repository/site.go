package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SiteRepository resolves sites from request hosts.
type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// FindByHostname returns the site matching hostname and port exactly.
func (r *SiteRepository) FindByHostname(ctx context.Context, hostname string, port int) (*model.Site, error) {
	logger.GetLogger().Debug("Repository: Finding site by hostname",
		zap.String("hostname", hostname),
		zap.Int("port", port),
	)

	var site model.Site
	start := time.Now()
	err := r.db.WithContext(ctx).
		Where("hostname = ? AND port = ?", hostname, port).
		First(&site).Error
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSiteNotFound
		}
		logger.GetLogger().Error("Repository: Failed to find site by hostname",
			zap.String("hostname", hostname),
			zap.Int("port", port),
			zap.Duration("query_duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	return &site, nil
}

// DefaultSite returns the site flagged as default, if any.
func (r *SiteRepository) DefaultSite(ctx context.Context) (*model.Site, error) {
	var site model.Site
	start := time.Now()
	err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&site).Error
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.GetLogger().Warn("Repository: No default site configured",
				zap.Duration("query_duration", duration),
			)
			return nil, apperrors.ErrSiteNotFound
		}
		logger.GetLogger().Error("Repository: Failed to find default site",
			zap.Duration("query_duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	return &site, nil
}
