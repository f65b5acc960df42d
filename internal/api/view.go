package api

import (
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/search"
)

// View is the immutable configuration of one listing endpoint: the
// attribute set it exposes and how those attributes participate in
// search. Views are built once at startup and shared across requests.
type View struct {
	Name string

	// Fields the endpoint exposes. Stored fields are filterable and
	// orderable; computed fields are representation-only.
	Fields []model.Field

	// SearchFields are the columns full-text search scans.
	SearchFields []string

	// IndexFilterFields are the columns that may carry filters while a
	// search runs on an index-enforcing backend.
	IndexFilterFields []string

	// IndexSortFields are the columns that may carry explicit ordering
	// while a search runs on an index-enforcing backend.
	IndexSortFields []string
}

// FieldByName looks up an exposed field by its API name
func (v *View) FieldByName(name string) (model.Field, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return model.Field{}, false
}

// StoredFields returns the exposed fields that map to database columns
func (v *View) StoredFields() []model.Field {
	stored := make([]model.Field, 0, len(v.Fields))
	for _, f := range v.Fields {
		if f.Stored() {
			stored = append(stored, f)
		}
	}
	return stored
}

// SearchIndexConfig renders the view's search participation for backends
func (v *View) SearchIndexConfig() search.IndexConfig {
	return search.IndexConfig{
		SearchFields: v.SearchFields,
		FilterFields: v.IndexFilterFields,
		SortFields:   v.IndexSortFields,
	}
}

// PagesView is the public pages listing configuration
func PagesView() *View {
	return &View{
		Name:              "pages",
		Fields:            model.PageAPIFields(),
		SearchFields:      []string{"title", "slug", "search_description", "body"},
		IndexFilterFields: []string{"id", "live", "slug", "content_type", "depth", "path"},
		IndexSortFields:   []string{"id", "title", "slug"},
	}
}

// AdminPagesView is the admin pages listing configuration
func AdminPagesView() *View {
	return &View{
		Name:              "admin_pages",
		Fields:            model.PageAPIFields(),
		SearchFields:      []string{"title", "slug", "search_description", "body"},
		IndexFilterFields: []string{"id", "live", "slug", "content_type", "depth", "path"},
		IndexSortFields:   []string{"id", "title", "slug"},
	}
}
