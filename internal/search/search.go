package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/chroniclecms/chronicle/internal/query"
)

// Backend names accepted in configuration
const (
	BackendDatabase = "database"
	BackendRedis    = "redis"
)

// IndexConfig describes how a view participates in search: which columns
// are scanned for terms, and which columns remain usable for filtering
// and ordering while a search is active on an index-enforcing backend.
type IndexConfig struct {
	SearchFields []string
	FilterFields []string
	SortFields   []string
}

// Options carries per-request search settings
type Options struct {
	// Operator decides whether every term must match (and) or any
	// term suffices (or). Empty selects the backend default (and).
	Operator string

	// OrderByRelevance requests ranking by match quality, replacing
	// any explicit ordering on the queryset.
	OrderByRelevance bool
}

// MatchAll resolves the operator to a boolean
func (o Options) MatchAll() bool {
	return !strings.EqualFold(o.Operator, "or")
}

// Backend runs a full-text search over an already-filtered page query
type Backend interface {
	Search(ctx context.Context, queryString string, qs query.PageQuery, cfg IndexConfig, opts Options) (query.PageQuery, error)
}

// FilterFieldError reports a queryset filter on a column the backend's
// index cannot narrow by.
type FilterFieldError struct {
	Field string
}

func (e FilterFieldError) Error() string {
	return fmt.Sprintf("cannot filter by '%s' when searching", e.Field)
}

// OrderByFieldError reports an explicit ordering on a column the
// backend's index cannot sort by.
type OrderByFieldError struct {
	Field string
}

func (e OrderByFieldError) Error() string {
	return fmt.Sprintf("cannot order by '%s' when searching", e.Field)
}

// Terms splits a query string into normalized search terms
func Terms(queryString string) []string {
	fields := strings.Fields(strings.ToLower(queryString))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]{}")
		if f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
