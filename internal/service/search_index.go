package service

import (
	"context"
	"time"

	"github.com/chroniclecms/chronicle/internal/api"
	"github.com/chroniclecms/chronicle/internal/dto"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/search"
	"github.com/chroniclecms/chronicle/pkg/logger"
	redisclient "github.com/chroniclecms/chronicle/pkg/redis"
	"go.uber.org/zap"
)

// SearchIndexService rebuilds the redis search index from the page
// table. With the database backend there is no index to maintain and
// Rebuild reports that instead of failing.
type SearchIndexService struct {
	pages       PageStore
	redisClient *redisclient.Client
	backendName string
}

func NewSearchIndexService(pages PageStore, redisClient *redisclient.Client, backendName string) *SearchIndexService {
	return &SearchIndexService{
		pages:       pages,
		redisClient: redisClient,
		backendName: backendName,
	}
}

// Rebuild drops and recreates the term index over all live pages.
func (s *SearchIndexService) Rebuild(ctx context.Context) (*dto.ReindexResponse, error) {
	if s.backendName != "redis" {
		return &dto.ReindexResponse{Indexed: 0, Backend: s.backendName}, nil
	}
	if !s.redisClient.IsEnabled() {
		return nil, apperrors.ErrServiceUnavailable
	}

	pages, err := s.pages.AllLive(ctx)
	if err != nil {
		return nil, err
	}

	indexer := search.NewIndexer(s.redisClient.Raw(), api.PagesView().SearchIndexConfig())

	start := time.Now()
	indexed, err := indexer.Rebuild(ctx, pages)
	if err != nil {
		logger.GetLogger().Error("Service: Search index rebuild failed",
			zap.Int("indexed", indexed),
			zap.Error(err),
		)
		return nil, err
	}

	logger.GetLogger().Info("Service: Search index rebuilt",
		zap.Int("indexed", indexed),
		zap.Duration("duration", time.Since(start)),
	)

	return &dto.ReindexResponse{Indexed: indexed, Backend: s.backendName}, nil
}
