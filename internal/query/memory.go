package query

import (
	"context"
	"math/rand"
	"sort"
	"strings"

	"github.com/chroniclecms/chronicle/internal/model"
)

// memQuery implements PageQuery over an in-memory page slice. It mirrors
// the gorm implementation's semantics and backs tests and DB-less tooling.
type memQuery struct {
	pages    []model.Page
	conds    []func(p *model.Page) bool
	orders   []orderTerm
	idOrder  []uint
	random   bool
	offset   int
	limit    int
	filtered []string
}

// NewMemoryPageQuery creates a page query handle over a fixed page set
func NewMemoryPageQuery(pages []model.Page) PageQuery {
	return &memQuery{
		pages:  pages,
		offset: -1,
		limit:  -1,
	}
}

func (q *memQuery) clone() *memQuery {
	c := *q
	c.conds = append([]func(p *model.Page) bool(nil), q.conds...)
	c.orders = append([]orderTerm(nil), q.orders...)
	c.idOrder = append([]uint(nil), q.idOrder...)
	c.filtered = append([]string(nil), q.filtered...)
	return &c
}

func (q *memQuery) FilterEquals(column string, value any) PageQuery {
	c := q.clone()
	c.conds = append(c.conds, func(p *model.Page) bool {
		return columnEquals(p, column, value)
	})
	c.filtered = append(c.filtered, column)
	return c
}

func (q *memQuery) FilterHasTag(tag string) PageQuery {
	c := q.clone()
	c.conds = append(c.conds, func(p *model.Page) bool {
		for _, t := range p.Tags {
			if t.Name == tag {
				return true
			}
		}
		return false
	})
	c.filtered = append(c.filtered, "tags")
	return c
}

func (q *memQuery) FilterChildOf(parent *model.Page) PageQuery {
	path, depth := parent.Path, parent.Depth+1
	c := q.clone()
	c.conds = append(c.conds, func(p *model.Page) bool {
		return strings.HasPrefix(p.Path, path) && p.Depth == depth
	})
	c.filtered = append(c.filtered, "path", "depth")
	return c
}

func (q *memQuery) FilterDescendantOf(ancestor *model.Page, inclusive bool) PageQuery {
	path, depth := ancestor.Path, ancestor.Depth
	c := q.clone()
	if inclusive {
		c.conds = append(c.conds, func(p *model.Page) bool {
			return strings.HasPrefix(p.Path, path) && p.Depth >= depth
		})
	} else {
		c.conds = append(c.conds, func(p *model.Page) bool {
			return strings.HasPrefix(p.Path, path) && p.Depth > depth
		})
	}
	c.filtered = append(c.filtered, "path", "depth")
	return c
}

func (q *memQuery) FilterIDIn(ids []uint) PageQuery {
	allowed := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	c := q.clone()
	c.conds = append(c.conds, func(p *model.Page) bool {
		_, ok := allowed[p.ID]
		return ok
	})
	c.filtered = append(c.filtered, "id")
	return c
}

func (q *memQuery) FilterSearchTerms(columns []string, terms []string, matchAll bool) PageQuery {
	if len(columns) == 0 || len(terms) == 0 {
		return q
	}

	cols := append([]string(nil), columns...)
	lowered := make([]string, len(terms))
	for i, term := range terms {
		lowered[i] = strings.ToLower(term)
	}

	termInAny := func(p *model.Page, term string) bool {
		for _, col := range cols {
			if strings.Contains(strings.ToLower(columnString(p, col)), term) {
				return true
			}
		}
		return false
	}

	c := q.clone()
	c.conds = append(c.conds, func(p *model.Page) bool {
		if matchAll {
			for _, term := range lowered {
				if !termInAny(p, term) {
					return false
				}
			}
			return true
		}
		for _, term := range lowered {
			if termInAny(p, term) {
				return true
			}
		}
		return false
	})
	return c
}

func (q *memQuery) OrderBy(columns ...string) PageQuery {
	c := q.clone()
	for _, col := range columns {
		term := orderTerm{column: col}
		if strings.HasPrefix(col, "-") {
			term.column = col[1:]
			term.desc = true
		}
		c.orders = append(c.orders, term)
	}
	c.random = false
	return c
}

func (q *memQuery) OrderByIDList(ids []uint) PageQuery {
	c := q.clone()
	c.idOrder = append([]uint(nil), ids...)
	c.orders = nil
	c.random = false
	return c
}

func (q *memQuery) OrderRandom() PageQuery {
	c := q.clone()
	c.random = true
	c.orders = nil
	c.idOrder = nil
	return c
}

func (q *memQuery) Reverse() PageQuery {
	c := q.clone()
	for i := range c.orders {
		c.orders[i].desc = !c.orders[i].desc
	}
	for i, j := 0, len(c.idOrder)-1; i < j; i, j = i+1, j-1 {
		c.idOrder[i], c.idOrder[j] = c.idOrder[j], c.idOrder[i]
	}
	return c
}

func (q *memQuery) Slice(offset, limit int) PageQuery {
	c := q.clone()
	c.offset = offset
	c.limit = limit
	return c
}

func (q *memQuery) matches() []model.Page {
	var result []model.Page
	for i := range q.pages {
		ok := true
		for _, cond := range q.conds {
			if !cond(&q.pages[i]) {
				ok = false
				break
			}
		}
		if ok {
			result = append(result, q.pages[i])
		}
	}
	return result
}

func (q *memQuery) sorted(pages []model.Page) []model.Page {
	switch {
	case q.random:
		rand.Shuffle(len(pages), func(i, j int) {
			pages[i], pages[j] = pages[j], pages[i]
		})
	case len(q.idOrder) > 0:
		rank := make(map[uint]int, len(q.idOrder))
		for i, id := range q.idOrder {
			rank[id] = i
		}
		unranked := len(q.idOrder)
		sort.SliceStable(pages, func(i, j int) bool {
			ri, ok := rank[pages[i].ID]
			if !ok {
				ri = unranked
			}
			rj, ok := rank[pages[j].ID]
			if !ok {
				rj = unranked
			}
			return ri < rj
		})
	case len(q.orders) > 0:
		sort.SliceStable(pages, func(i, j int) bool {
			for _, term := range q.orders {
				cmp := compareColumn(&pages[i], &pages[j], term.column)
				if cmp == 0 {
					continue
				}
				if term.desc {
					return cmp > 0
				}
				return cmp < 0
			}
			return false
		})
	}
	return pages
}

func (q *memQuery) window(pages []model.Page) []model.Page {
	start := 0
	if q.offset > 0 {
		start = q.offset
	}
	if start >= len(pages) {
		return nil
	}
	end := len(pages)
	if q.limit >= 0 && start+q.limit < end {
		end = start + q.limit
	}
	return pages[start:end]
}

func (q *memQuery) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(q.matches())), nil
}

func (q *memQuery) All(ctx context.Context) ([]model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return q.window(q.sorted(q.matches())), nil
}

func (q *memQuery) First(ctx context.Context) (*model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pages := q.sorted(q.matches())
	if len(pages) == 0 {
		return nil, ErrNotFound
	}
	page := pages[0]
	return &page, nil
}

func (q *memQuery) FilteredColumns() []string {
	return append([]string(nil), q.filtered...)
}

func (q *memQuery) OrderedColumns() []string {
	if q.random {
		return []string{"random"}
	}
	cols := make([]string, 0, len(q.orders))
	for _, term := range q.orders {
		cols = append(cols, term.column)
	}
	return cols
}

// columnString renders a page attribute for substring matching
func columnString(p *model.Page, column string) string {
	switch column {
	case "title":
		return p.Title
	case "slug":
		return p.Slug
	case "content_type":
		return p.ContentType
	case "search_description":
		return p.SearchDescription
	case "path":
		return p.Path
	case "body":
		return string(p.Body)
	default:
		return ""
	}
}

func columnEquals(p *model.Page, column string, value any) bool {
	switch column {
	case "id":
		v, ok := toInt64(value)
		return ok && int64(p.ID) == v
	case "depth":
		v, ok := toInt64(value)
		return ok && int64(p.Depth) == v
	case "numchild":
		v, ok := toInt64(value)
		return ok && int64(p.Numchild) == v
	case "live":
		v, ok := value.(bool)
		return ok && p.Live == v
	case "show_in_menus":
		v, ok := value.(bool)
		return ok && p.ShowInMenus == v
	case "title":
		return p.Title == value
	case "slug":
		return p.Slug == value
	case "content_type":
		return p.ContentType == value
	case "search_description":
		return p.SearchDescription == value
	case "path":
		return p.Path == value
	default:
		return false
	}
}

func compareColumn(a, b *model.Page, column string) int {
	switch column {
	case "id":
		return compareInt(int64(a.ID), int64(b.ID))
	case "depth":
		return compareInt(int64(a.Depth), int64(b.Depth))
	case "numchild":
		return compareInt(int64(a.Numchild), int64(b.Numchild))
	case "live":
		return compareBool(a.Live, b.Live)
	case "show_in_menus":
		return compareBool(a.ShowInMenus, b.ShowInMenus)
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "slug":
		return strings.Compare(a.Slug, b.Slug)
	case "content_type":
		return strings.Compare(a.ContentType, b.ContentType)
	case "search_description":
		return strings.Compare(a.SearchDescription, b.SearchDescription)
	case "path":
		return strings.Compare(a.Path, b.Path)
	case "first_published_at":
		switch {
		case a.FirstPublishedAt == nil && b.FirstPublishedAt == nil:
			return 0
		case a.FirstPublishedAt == nil:
			return -1
		case b.FirstPublishedAt == nil:
			return 1
		case a.FirstPublishedAt.Before(*b.FirstPublishedAt):
			return -1
		case a.FirstPublishedAt.After(*b.FirstPublishedAt):
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}
