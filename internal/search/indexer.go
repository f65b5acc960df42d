package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/redis/go-redis/v9"
)

// titleBoost weights term occurrences in the title above occurrences in
// other indexed columns.
const titleBoost = 2.0

// Indexer maintains the inverted index RedisBackend searches: one sorted
// set per term, scoring each page by weighted term frequency.
type Indexer struct {
	rdb *redis.Client
	cfg IndexConfig
}

// NewIndexer creates an indexer writing to rdb for the given config
func NewIndexer(rdb *redis.Client, cfg IndexConfig) *Indexer {
	return &Indexer{rdb: rdb, cfg: cfg}
}

// Rebuild drops the existing index and reindexes the given pages.
// It returns the number of pages indexed.
func (ix *Indexer) Rebuild(ctx context.Context, pages []model.Page) (int, error) {
	if err := ix.dropTermKeys(ctx); err != nil {
		return 0, err
	}

	postings := make(map[string][]redis.Z)
	for i := range pages {
		page := &pages[i]
		for term, weight := range ix.termWeights(page) {
			postings[term] = append(postings[term], redis.Z{
				Score:  weight,
				Member: strconv.FormatUint(uint64(page.ID), 10),
			})
		}
	}

	pipe := ix.rdb.Pipeline()
	for term, members := range postings {
		pipe.ZAdd(ctx, constants.SearchKeyTerm+term, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("search index write: %w", err)
	}
	return len(pages), nil
}

func (ix *Indexer) dropTermKeys(ctx context.Context) error {
	iter := ix.rdb.Scan(ctx, 0, constants.SearchKeyTerm+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("search index scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := ix.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("search index drop: %w", err)
	}
	return nil
}

func (ix *Indexer) termWeights(page *model.Page) map[string]float64 {
	weights := make(map[string]float64)
	for _, col := range ix.cfg.SearchFields {
		boost := 1.0
		if col == "title" {
			boost = titleBoost
		}
		for _, term := range Terms(indexText(page, col)) {
			weights[term] += boost
		}
	}
	return weights
}

// indexText renders an indexed column of a page as plain text
func indexText(p *model.Page, column string) string {
	switch column {
	case "title":
		return p.Title
	case "slug":
		return p.Slug
	case "search_description":
		return p.SearchDescription
	case "body":
		return string(p.Body)
	default:
		return ""
	}
}
