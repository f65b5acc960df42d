package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chroniclecms/chronicle/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound is returned by First when no row matches
var ErrNotFound = errors.New("record not found")

type condition func(tx *gorm.DB) *gorm.DB

type orderTerm struct {
	column string
	desc   bool
}

// gormQuery implements PageQuery over a gorm connection. Conditions and
// ordering terms are collected on the handle and only applied to a gorm
// statement at execution time, which keeps handles immutable.
type gormQuery struct {
	db       *gorm.DB
	conds    []condition
	orders   []orderTerm
	idOrder  []uint
	random   bool
	offset   int
	limit    int
	filtered []string
}

// NewGormPageQuery creates a page query handle over db
func NewGormPageQuery(db *gorm.DB) PageQuery {
	return &gormQuery{
		db:     db,
		offset: -1,
		limit:  -1,
	}
}

func (q *gormQuery) clone() *gormQuery {
	c := *q
	c.conds = append([]condition(nil), q.conds...)
	c.orders = append([]orderTerm(nil), q.orders...)
	c.idOrder = append([]uint(nil), q.idOrder...)
	c.filtered = append([]string(nil), q.filtered...)
	return &c
}

func (q *gormQuery) FilterEquals(column string, value any) PageQuery {
	c := q.clone()
	c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(column+" = ?", value)
	})
	c.filtered = append(c.filtered, column)
	return c
}

func (q *gormQuery) FilterHasTag(tag string) PageQuery {
	c := q.clone()
	c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(
			"EXISTS (SELECT 1 FROM page_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.page_id = pages.id AND t.name = ?)",
			tag,
		)
	})
	c.filtered = append(c.filtered, "tags")
	return c
}

func (q *gormQuery) FilterChildOf(parent *model.Page) PageQuery {
	prefix := parent.Path + "%"
	depth := parent.Depth + 1
	c := q.clone()
	c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("path LIKE ? AND depth = ?", prefix, depth)
	})
	c.filtered = append(c.filtered, "path", "depth")
	return c
}

func (q *gormQuery) FilterDescendantOf(ancestor *model.Page, inclusive bool) PageQuery {
	prefix := ancestor.Path + "%"
	depth := ancestor.Depth
	c := q.clone()
	if inclusive {
		c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("path LIKE ? AND depth >= ?", prefix, depth)
		})
	} else {
		c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("path LIKE ? AND depth > ?", prefix, depth)
		})
	}
	c.filtered = append(c.filtered, "path", "depth")
	return c
}

func (q *gormQuery) FilterIDIn(ids []uint) PageQuery {
	c := q.clone()
	if len(ids) == 0 {
		c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("1 = 0")
		})
	} else {
		idsCopy := append([]uint(nil), ids...)
		c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("pages.id IN ?", idsCopy)
		})
	}
	c.filtered = append(c.filtered, "id")
	return c
}

func (q *gormQuery) FilterSearchTerms(columns []string, terms []string, matchAll bool) PageQuery {
	if len(columns) == 0 || len(terms) == 0 {
		return q
	}

	group := make([]string, len(columns))
	for i, col := range columns {
		group[i] = col + " ILIKE ?"
	}
	groupExpr := "(" + strings.Join(group, " OR ") + ")"

	c := q.clone()
	if matchAll {
		for _, term := range terms {
			args := make([]any, len(columns))
			for i := range columns {
				args[i] = "%" + term + "%"
			}
			c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
				return tx.Where(groupExpr, args...)
			})
		}
	} else {
		groups := make([]string, len(terms))
		var args []any
		for i, term := range terms {
			groups[i] = groupExpr
			for range columns {
				args = append(args, "%"+term+"%")
			}
		}
		expr := "(" + strings.Join(groups, " OR ") + ")"
		c.conds = append(c.conds, func(tx *gorm.DB) *gorm.DB {
			return tx.Where(expr, args...)
		})
	}
	return c
}

func (q *gormQuery) OrderBy(columns ...string) PageQuery {
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

func (q *gormQuery) OrderByIDList(ids []uint) PageQuery {
	c := q.clone()
	c.idOrder = append([]uint(nil), ids...)
	c.orders = nil
	c.random = false
	return c
}

func (q *gormQuery) OrderRandom() PageQuery {
	c := q.clone()
	c.random = true
	c.orders = nil
	c.idOrder = nil
	return c
}

func (q *gormQuery) Reverse() PageQuery {
	c := q.clone()
	for i := range c.orders {
		c.orders[i].desc = !c.orders[i].desc
	}
	for i, j := 0, len(c.idOrder)-1; i < j; i, j = i+1, j-1 {
		c.idOrder[i], c.idOrder[j] = c.idOrder[j], c.idOrder[i]
	}
	return c
}

func (q *gormQuery) Slice(offset, limit int) PageQuery {
	c := q.clone()
	c.offset = offset
	c.limit = limit
	return c
}

func (q *gormQuery) statement(ctx context.Context) *gorm.DB {
	tx := q.db.WithContext(ctx).Model(&model.Page{})
	for _, cond := range q.conds {
		tx = cond(tx)
	}
	return tx
}

func (q *gormQuery) ordered(tx *gorm.DB) *gorm.DB {
	switch {
	case q.random:
		tx = tx.Order("RANDOM()")
	case len(q.idOrder) > 0:
		tx = tx.Order(idListOrderExpr(q.idOrder))
	default:
		for _, term := range q.orders {
			if term.desc {
				tx = tx.Order(term.column + " DESC")
			} else {
				tx = tx.Order(term.column + " ASC")
			}
		}
	}
	return tx
}

// idListOrderExpr builds a CASE expression ordering rows by their id's
// position in ids. Values are numeric, so direct formatting is safe.
func idListOrderExpr(ids []uint) string {
	var b strings.Builder
	b.WriteString("CASE pages.id")
	for i, id := range ids {
		fmt.Fprintf(&b, " WHEN %d THEN %d", id, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(ids))
	return b.String()
}

func (q *gormQuery) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := q.statement(ctx).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (q *gormQuery) All(ctx context.Context) ([]model.Page, error) {
	tx := q.ordered(q.statement(ctx)).Preload("Tags")
	if q.offset > 0 {
		tx = tx.Offset(q.offset)
	}
	if q.limit >= 0 {
		tx = tx.Limit(q.limit)
	}

	var pages []model.Page
	if err := tx.Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (q *gormQuery) First(ctx context.Context) (*model.Page, error) {
	tx := q.ordered(q.statement(ctx)).Preload("Tags")

	var page model.Page
	if err := tx.First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (q *gormQuery) FilteredColumns() []string {
	return append([]string(nil), q.filtered...)
}

func (q *gormQuery) OrderedColumns() []string {
	if q.random {
		return []string{"random"}
	}
	cols := make([]string, 0, len(q.orders))
	for _, term := range q.orders {
		cols = append(cols, term.column)
	}
	return cols
}
