package api

import (
	"net/url"
	"strconv"

	"github.com/chroniclecms/chronicle/internal/constants"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
)

// Paginator windows a fully filtered query by the offset and limit
// parameters. The total count is taken before the window is applied, so
// clients can page through everything the filters matched. MaxLimit
// caps the requested limit and lowers the default when it is smaller;
// zero disables the cap.
type Paginator struct {
	MaxLimit int
}

func NewPaginator(maxLimit int) *Paginator {
	return &Paginator{MaxLimit: maxLimit}
}

// DefaultLimit is the limit used when the request names none
func (p *Paginator) DefaultLimit() int {
	if p.MaxLimit > 0 && p.MaxLimit < constants.DefaultLimit {
		return p.MaxLimit
	}
	return constants.DefaultLimit
}

// Window parses and validates the requested result window
func (p *Paginator) Window(params url.Values) (offset, limit int, err error) {
	offset, err = positiveIntParam(params, constants.QueryParamOffset, constants.DefaultOffset)
	if err != nil {
		return 0, 0, err
	}

	limit, err = positiveIntParam(params, constants.QueryParamLimit, p.DefaultLimit())
	if err != nil {
		return 0, 0, err
	}

	if p.MaxLimit > 0 && limit > p.MaxLimit {
		return 0, 0, apperrors.BadRequestf("limit cannot be higher than %d", p.MaxLimit)
	}

	return offset, limit, nil
}

// Paginate counts the unsliced query, then executes the window
func (p *Paginator) Paginate(r *Request, qs query.PageQuery) ([]model.Page, int64, error) {
	offset, limit, err := p.Window(r.Params)
	if err != nil {
		return nil, 0, err
	}

	total, err := qs.Count(r.Ctx)
	if err != nil {
		return nil, 0, err
	}

	items, err := qs.Slice(offset, limit).All(r.Ctx)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// SchemaFields declares the pagination parameters
func (p *Paginator) SchemaFields() []SchemaField {
	return []SchemaField{
		{
			Name:        constants.QueryParamOffset,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeInteger,
			Title:       titleize(constants.QueryParamOffset),
			Description: "Number of matching pages to skip before the first returned result.",
		},
		{
			Name:        constants.QueryParamLimit,
			Required:    false,
			Location:    SchemaLocationQuery,
			Type:        SchemaTypeInteger,
			Title:       titleize(constants.QueryParamLimit),
			Description: "Maximum number of pages to return.",
		},
	}
}

func positiveIntParam(params url.Values, name string, fallback int) (int, error) {
	if !params.Has(name) {
		return fallback, nil
	}

	value, err := strconv.Atoi(params.Get(name))
	if err != nil || value < 0 {
		return 0, apperrors.BadRequestf("%s must be a positive integer", name)
	}
	return value, nil
}
