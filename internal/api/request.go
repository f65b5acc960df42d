package api

import (
	"context"
	"net/url"

	"github.com/chroniclecms/chronicle/internal/model"
)

// State is the per-request record the filter chain threads its
// annotations through. It lives exactly as long as one request and is
// never shared between requests; later backends read what earlier
// backends wrote, and nothing of it reaches the response.
type State struct {
	// FilteredByTag is set by the fields filter when a tag constraint
	// was applied. The search filter rejects the combination.
	FilteredByTag bool

	// ChildOfParent is the parent page a child_of constraint resolved.
	// The descendant_of filter rejects when it is set; the explorer
	// filter requires it.
	ChildOfParent *model.Page
}

// Request bundles everything the filter chain needs from one HTTP
// request: its context, the raw query parameters, the site the request
// was resolved against (nil on admin endpoints), and the annotation
// record.
type Request struct {
	Ctx    context.Context
	Params url.Values
	Site   *model.Site
	State  *State
}

// NewRequest builds a Request with a fresh annotation record
func NewRequest(ctx context.Context, params url.Values, site *model.Site) *Request {
	return &Request{
		Ctx:    ctx,
		Params: params,
		Site:   site,
		State:  &State{},
	}
}
