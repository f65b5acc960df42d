package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/internal/query"
	"github.com/redis/go-redis/v9"
)

// RedisBackend searches an inverted index of term-scored sorted sets,
// one per normalized term, maintained by Indexer. Because matching runs
// against the index rather than the page store, active queryset filters
// and explicit ordering must stay within the indexed column sets.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend creates the index-backed search backend
func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

func (b *RedisBackend) Search(ctx context.Context, queryString string, qs query.PageQuery, cfg IndexConfig, opts Options) (query.PageQuery, error) {
	for _, col := range qs.FilteredColumns() {
		if !contains(cfg.FilterFields, col) {
			return nil, FilterFieldError{Field: col}
		}
	}

	if !opts.OrderByRelevance {
		for _, col := range qs.OrderedColumns() {
			if !contains(cfg.SortFields, col) {
				return nil, OrderByFieldError{Field: col}
			}
		}
	}

	terms := Terms(queryString)
	if len(terms) == 0 {
		return qs, nil
	}

	keys := make([]string, len(terms))
	for i, term := range terms {
		keys[i] = constants.SearchKeyTerm + term
	}

	var (
		scored []redis.Z
		err    error
	)
	if opts.MatchAll() {
		scored, err = b.rdb.ZInterWithScores(ctx, &redis.ZStore{Keys: keys}).Result()
	} else {
		scored, err = b.rdb.ZUnionWithScores(ctx, redis.ZStore{Keys: keys}).Result()
	}
	if err != nil {
		return nil, fmt.Errorf("search index lookup: %w", err)
	}

	// Results come back in ascending score order; relevance wants the
	// best match first.
	ids := make([]uint, 0, len(scored))
	for i := len(scored) - 1; i >= 0; i-- {
		member, ok := scored[i].Member.(string)
		if !ok {
			continue
		}
		id, perr := strconv.ParseUint(member, 10, 64)
		if perr != nil {
			continue
		}
		ids = append(ids, uint(id))
	}

	qs = qs.FilterIDIn(ids)
	if opts.OrderByRelevance {
		qs = qs.OrderByIDList(ids)
	}
	return qs, nil
}
