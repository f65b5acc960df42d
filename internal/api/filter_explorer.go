package api

import (
	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/hooks"
	"github.com/chroniclecms/chronicle/internal/query"
)

// ForExplorerFilter lets registered hooks reshape the query when the
// admin explorer is listing a page's children. It requires an earlier
// child_of constraint: the hooks are defined in terms of the parent
// being browsed. Hooks run in registration order, each receiving the
// previous one's result.
type ForExplorerFilter struct {
	// Registry overrides the default hook registry, mainly for tests
	Registry *hooks.Registry
}

func NewForExplorerFilter() *ForExplorerFilter {
	return &ForExplorerFilter{}
}

func (f *ForExplorerFilter) FilterQueryset(r *Request, qs query.PageQuery, view *View) (query.PageQuery, error) {
	if !r.Params.Has(constants.QueryParamForExplorer) {
		return qs, nil
	}

	wanted, err := ParseBooleanValue(r.Params.Get(constants.QueryParamForExplorer))
	if err != nil {
		return nil, apperrors.BadRequestf("%s must be a boolean: true, false, 1 or 0", constants.QueryParamForExplorer)
	}
	if !wanted {
		return qs, nil
	}

	if r.State.ChildOfParent == nil {
		return nil, apperrors.NewBadRequest("filtering by for_explorer without child_of is not supported")
	}

	for _, hook := range f.explorerHooks() {
		qs = hook(r.State.ChildOfParent, r.Params, qs)
	}
	return qs, nil
}

func (f *ForExplorerFilter) explorerHooks() []hooks.ExplorerQueryHook {
	if f.Registry != nil {
		return f.Registry.ExplorerQueryHooks()
	}
	return hooks.ExplorerQueryHooks()
}

func (f *ForExplorerFilter) SchemaFields(view *View) []SchemaField {
	return []SchemaField{
		{
			Name:        constants.QueryParamForExplorer,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeBoolean,
			Title:       titleize(constants.QueryParamForExplorer),
			Description: "Apply the explorer listing hooks. Requires child_of.",
		},
	}
}
