package api

import (
	"strings"

	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
)

// OrderingFilter applies the order parameter: a stored field name,
// optionally prefixed with '-' for descending order, or the literal
// 'random'. Random ordering cannot be combined with an offset because
// shuffled pages would repeat across windows.
type OrderingFilter struct{}

func NewOrderingFilter() *OrderingFilter {
	return &OrderingFilter{}
}

func (f *OrderingFilter) FilterQueryset(r *Request, qs query.PageQuery, view *View) (query.PageQuery, error) {
	if !r.Params.Has(constants.QueryParamOrder) {
		return qs, nil
	}
	orderBy := r.Params.Get(constants.QueryParamOrder)

	if orderBy == constants.OrderRandom {
		if r.Params.Has(constants.QueryParamOffset) {
			return nil, apperrors.NewBadRequest("random ordering with offset is not supported")
		}
		return qs.OrderRandom(), nil
	}

	reverse := false
	name := orderBy
	if strings.HasPrefix(name, constants.OrderDescendingSign) {
		reverse = true
		name = name[len(constants.OrderDescendingSign):]
	}

	field, ok := view.FieldByName(name)
	if !ok || !field.Stored() || field.Kind == model.KindTags {
		return nil, apperrors.BadRequestf("cannot order by '%s' (unknown field)", name)
	}

	qs = qs.OrderBy(field.Column)
	if reverse {
		qs = qs.Reverse()
	}
	return qs, nil
}

func (f *OrderingFilter) SchemaFields(view *View) []SchemaField {
	return []SchemaField{
		{
			Name:        constants.QueryParamOrder,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeString,
			Title:       titleize(constants.QueryParamOrder),
			Description: "Field to order results by. Prefix with '-' for descending order. The value 'random' shuffles results.",
		},
	}
}
