package query

import (
	"context"

	"github.com/chroniclecms/chronicle/internal/model"
)

// PageQuery is an immutable handle on a filterable page collection.
// Narrowing and ordering operations return a new handle and leave the
// receiver untouched, so handles can be branched safely.
type PageQuery interface {
	// FilterEquals narrows to rows whose column equals value.
	FilterEquals(column string, value any) PageQuery

	// FilterHasTag narrows to pages carrying the named tag. Repeated
	// calls accumulate: a page must carry every requested tag.
	FilterHasTag(tag string) PageQuery

	// FilterChildOf narrows to the direct children of parent.
	FilterChildOf(parent *model.Page) PageQuery

	// FilterDescendantOf narrows to the subtree below ancestor. When
	// inclusive is true the ancestor itself is part of the result.
	FilterDescendantOf(ancestor *model.Page, inclusive bool) PageQuery

	// FilterIDIn narrows to pages whose id is in ids. An empty list
	// matches nothing.
	FilterIDIn(ids []uint) PageQuery

	// FilterSearchTerms narrows to pages where terms occur in any of
	// the given columns. With matchAll every term must occur somewhere;
	// otherwise one occurrence suffices.
	FilterSearchTerms(columns []string, terms []string, matchAll bool) PageQuery

	// OrderBy appends ordering terms. A leading '-' selects descending
	// order for that column.
	OrderBy(columns ...string) PageQuery

	// OrderByIDList orders results by the position of their id in ids.
	OrderByIDList(ids []uint) PageQuery

	// OrderRandom discards any explicit ordering and shuffles results.
	OrderRandom() PageQuery

	// Reverse inverts the direction of every ordering term. Without an
	// explicit ordering it is a no-op.
	Reverse() PageQuery

	// Slice restricts execution to a window of limit rows starting at
	// offset. Count is unaffected by the window.
	Slice(offset, limit int) PageQuery

	// Count returns the number of rows the fully filtered, unsliced
	// query matches.
	Count(ctx context.Context) (int64, error)

	// All executes the query and returns the matching pages.
	All(ctx context.Context) ([]model.Page, error)

	// First returns the first matching page or ErrNotFound.
	First(ctx context.Context) (*model.Page, error)

	// FilteredColumns reports which columns carry equality or tree
	// constraints. Tag constraints report as "tags".
	FilteredColumns() []string

	// OrderedColumns reports the explicit ordering columns, without
	// direction signs. A random ordering reports as "random".
	OrderedColumns() []string
}
