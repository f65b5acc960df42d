package api

import (
	"github.com/chroniclecms/chronicle/internal/query"
)

// FilterBackend is one stage of a listing pipeline. FilterQueryset
// narrows, orders or validates the query for the current request;
// backends that consume no parameter of the request pass the query
// through unchanged. SchemaFields declares the parameters the backend
// consumes.
type FilterBackend interface {
	FilterQueryset(r *Request, qs query.PageQuery, view *View) (query.PageQuery, error)
	SchemaFields(view *View) []SchemaField
}

// Chain runs filter backends strictly in order. Order is load-bearing:
// later backends read the annotations earlier backends record on the
// request state.
type Chain struct {
	backends []FilterBackend
}

// NewChain builds a pipeline from backends, applied first to last
func NewChain(backends ...FilterBackend) *Chain {
	return &Chain{backends: backends}
}

// FilterQueryset threads qs through every backend; the first rejection
// stops the pipeline.
func (c *Chain) FilterQueryset(r *Request, qs query.PageQuery, view *View) (query.PageQuery, error) {
	var err error
	for _, b := range c.backends {
		qs, err = b.FilterQueryset(r, qs, view)
		if err != nil {
			return nil, err
		}
	}
	return qs, nil
}

// SchemaFields concatenates the backends' parameter descriptors in
// pipeline order.
func (c *Chain) SchemaFields(view *View) []SchemaField {
	var fields []SchemaField
	for _, b := range c.backends {
		fields = append(fields, b.SchemaFields(view)...)
	}
	return fields
}
