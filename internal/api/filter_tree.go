package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
)

// TreeScope resolves tree filter targets. The public API and the admin
// API share the tree filters but differ in what 'root' means and which
// pages may be named: the public scope resolves against the request's
// site subtree, the admin scope against the whole tree. Lookup misses
// return query.ErrNotFound.
type TreeScope interface {
	RootPage(r *Request) (*model.Page, error)
	PageByID(r *Request, id uint) (*model.Page, error)
}

// ChildOfFilter narrows to direct children of the page named by the
// child_of parameter and records the parent for later backends.
type ChildOfFilter struct {
	Scope TreeScope
}

func NewChildOfFilter(scope TreeScope) *ChildOfFilter {
	return &ChildOfFilter{Scope: scope}
}

func (f *ChildOfFilter) FilterQueryset(r *Request, qs query.PageQuery, view *View) (query.PageQuery, error) {
	if !r.Params.Has(constants.QueryParamChildOf) {
		return qs, nil
	}

	parent, err := resolveTreePage(r, f.Scope, constants.QueryParamChildOf, "parent page doesn't exist")
	if err != nil {
		return nil, err
	}

	qs = qs.FilterChildOf(parent)
	r.State.ChildOfParent = parent
	return qs, nil
}

func (f *ChildOfFilter) SchemaFields(view *View) []SchemaField {
	return []SchemaField{
		{
			Name:        constants.QueryParamChildOf,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeString,
			Title:       titleize(constants.QueryParamChildOf),
			Description: "Only return direct children of the page with this id. The value 'root' targets the root page.",
		},
	}
}

// DescendantOfFilter narrows to the subtree strictly below the page
// named by the descendant_of parameter. It cannot be combined with
// child_of, whose result set it would always contain.
type DescendantOfFilter struct {
	Scope TreeScope
}

func NewDescendantOfFilter(scope TreeScope) *DescendantOfFilter {
	return &DescendantOfFilter{Scope: scope}
}

func (f *DescendantOfFilter) FilterQueryset(r *Request, qs query.PageQuery, view *View) (query.PageQuery, error) {
	if !r.Params.Has(constants.QueryParamDescendantOf) {
		return qs, nil
	}

	if r.State.ChildOfParent != nil {
		return nil, apperrors.NewBadRequest("filtering by descendant_of with child_of is not supported")
	}

	ancestor, err := resolveTreePage(r, f.Scope, constants.QueryParamDescendantOf, "ancestor page doesn't exist")
	if err != nil {
		return nil, err
	}

	return qs.FilterDescendantOf(ancestor, false), nil
}

func (f *DescendantOfFilter) SchemaFields(view *View) []SchemaField {
	return []SchemaField{
		{
			Name:        constants.QueryParamDescendantOf,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeString,
			Title:       titleize(constants.QueryParamDescendantOf),
			Description: "Only return pages below the page with this id. The value 'root' targets the root page.",
		},
	}
}

// resolveTreePage turns a tree parameter value into a page. Non-negative
// integers are looked up through the scope; the literal 'root' resolves
// the scope's root; anything else rejects the request. A lookup miss
// rejects with missingMsg: the id was syntactically fine, the page
// just isn't reachable in this scope.
func resolveTreePage(r *Request, scope TreeScope, param, missingMsg string) (*model.Page, error) {
	raw := r.Params.Get(param)

	if id, err := strconv.Atoi(raw); err == nil && id >= 0 {
		page, lookupErr := scope.PageByID(r, uint(id))
		if lookupErr != nil {
			if errors.Is(lookupErr, query.ErrNotFound) {
				return nil, apperrors.NewBadRequest(missingMsg)
			}
			return nil, fmt.Errorf("resolving %s: %w", param, lookupErr)
		}
		return page, nil
	}

	if raw == constants.TreeTargetRoot {
		return scope.RootPage(r)
	}

	return nil, apperrors.BadRequestf("%s must be a positive integer", param)
}
