package search

import (
	"context"

	"github.com/chroniclecms/chronicle/internal/query"
)

// DatabaseBackend searches by substring matching over the view's search
// columns directly in the page store. It imposes no index contract, so
// any combination of filters and ordering is allowed, and relevance
// ranking is unavailable: result order follows the queryset's ordering.
type DatabaseBackend struct{}

// NewDatabaseBackend creates the store-backed search backend
func NewDatabaseBackend() *DatabaseBackend {
	return &DatabaseBackend{}
}

func (b *DatabaseBackend) Search(ctx context.Context, queryString string, qs query.PageQuery, cfg IndexConfig, opts Options) (query.PageQuery, error) {
	terms := Terms(queryString)
	if len(terms) == 0 {
		return qs, nil
	}
	return qs.FilterSearchTerms(cfg.SearchFields, terms, opts.MatchAll()), nil
}
