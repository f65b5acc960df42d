package api

import (
	"errors"

	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/query"
	"github.com/chroniclecms/chronicle/internal/search"
)

// SearchFilter hands the search parameter to the configured search
// backend. It runs after the fields and ordering filters so it can
// reject tag-filtered querysets and detect whether an explicit ordering
// should suppress relevance ranking. Index-contract violations reported
// by the backend are translated into request rejections here.
type SearchFilter struct {
	Enabled bool
	Backend search.Backend
}

func NewSearchFilter(enabled bool, backend search.Backend) *SearchFilter {
	return &SearchFilter{Enabled: enabled, Backend: backend}
}

func (f *SearchFilter) FilterQueryset(r *Request, qs query.PageQuery, view *View) (query.PageQuery, error) {
	if !r.Params.Has(constants.QueryParamSearch) {
		return qs, nil
	}

	if !f.Enabled || f.Backend == nil {
		return nil, apperrors.NewBadRequest("search is disabled")
	}

	if r.State.FilteredByTag {
		return nil, apperrors.NewBadRequest("filtering by tag with a search query is not supported")
	}

	operator := r.Params.Get(constants.QueryParamSearchOperator)
	switch operator {
	case "", constants.SearchOperatorAnd, constants.SearchOperatorOr:
	default:
		return nil, apperrors.BadRequestf("search_operator must be '%s' or '%s'",
			constants.SearchOperatorAnd, constants.SearchOperatorOr)
	}

	opts := search.Options{
		Operator:         operator,
		OrderByRelevance: !r.Params.Has(constants.QueryParamOrder),
	}

	result, err := f.Backend.Search(r.Ctx, r.Params.Get(constants.QueryParamSearch), qs, view.SearchIndexConfig(), opts)
	if err != nil {
		var filterErr search.FilterFieldError
		if errors.As(err, &filterErr) {
			return nil, apperrors.BadRequestf("cannot filter by '%s' while searching (field is not indexed)", filterErr.Field)
		}
		var orderErr search.OrderByFieldError
		if errors.As(err, &orderErr) {
			return nil, apperrors.BadRequestf("cannot order by '%s' while searching (field is not indexed)", orderErr.Field)
		}
		return nil, err
	}
	return result, nil
}

func (f *SearchFilter) SchemaFields(view *View) []SchemaField {
	return []SchemaField{
		{
			Name:        constants.QueryParamSearch,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeString,
			Title:       titleize(constants.QueryParamSearch),
			Description: "Full-text search query. Results are ranked by relevance unless an explicit order is given.",
		},
		{
			Name:        constants.QueryParamSearchOperator,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeString,
			Title:       titleize(constants.QueryParamSearchOperator),
			Description: "How multiple search terms combine: 'and' requires every term, 'or' any term. Defaults to 'and'.",
		},
	}
}
