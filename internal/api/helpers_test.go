package api

import (
	"context"
	"net/url"
	"testing"

	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
	"github.com/chroniclecms/chronicle/internal/search"
	"gorm.io/gorm"
)

// treePages builds the page tree the filter tests run against:
//
//	1 Root                 depth 1  0001
//	2 └─ Home              depth 2  00010001
//	3    ├─ About Us       depth 3  000100010001
//	4    ├─ Blog           depth 3  000100010002
//	5    │  ├─ First Post  depth 4  0001000100020001  tags news,go
//	6    │  └─ Second Post depth 4  0001000100020002  tags news,featured
//	7    └─ Contact        depth 3  000100010003       draft
func treePages() []model.Page {
	return []model.Page{
		{Model: gorm.Model{ID: 1}, Title: "Root", Slug: "root", Path: "0001", Depth: 1, Numchild: 1, Live: true, ContentType: "core.rootpage"},
		{Model: gorm.Model{ID: 2}, Title: "Home", Slug: "home", Path: "00010001", Depth: 2, Numchild: 3, Live: true, ShowInMenus: true, ContentType: "pages.homepage"},
		{Model: gorm.Model{ID: 3}, Title: "About Us", Slug: "about-us", Path: "000100010001", Depth: 3, Live: true, ShowInMenus: true, ContentType: "pages.standardpage"},
		{Model: gorm.Model{ID: 4}, Title: "Blog", Slug: "blog", Path: "000100010002", Depth: 3, Numchild: 2, Live: true, ContentType: "blog.blogindex"},
		{Model: gorm.Model{ID: 5}, Title: "First Post", Slug: "first-post", Path: "0001000100020001", Depth: 4, Live: true, ContentType: "blog.blogpost",
			Tags: []model.Tag{{ID: 1, Name: "news"}, {ID: 2, Name: "go"}}},
		{Model: gorm.Model{ID: 6}, Title: "Second Post", Slug: "second-post", Path: "0001000100020002", Depth: 4, Live: true, ContentType: "blog.blogpost",
			Tags: []model.Tag{{ID: 1, Name: "news"}, {ID: 3, Name: "featured"}}},
		{Model: gorm.Model{ID: 7}, Title: "Contact", Slug: "contact", Path: "000100010003", Depth: 3, Live: false, ContentType: "pages.standardpage"},
	}
}

func treeQuery() query.PageQuery {
	return query.NewMemoryPageQuery(treePages())
}

func fixturePage(t *testing.T, id uint) *model.Page {
	t.Helper()
	for _, p := range treePages() {
		if p.ID == id {
			page := p
			return &page
		}
	}
	t.Fatalf("Fixture has no page %d", id)
	return nil
}

// params builds url.Values from alternating key/value pairs
func params(pairs ...string) url.Values {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		values.Add(pairs[i], pairs[i+1])
	}
	return values
}

func newTestRequest(values url.Values) *Request {
	return NewRequest(context.Background(), values, nil)
}

func resultIDs(t *testing.T, qs query.PageQuery) []uint {
	t.Helper()
	pages, err := qs.All(context.Background())
	if err != nil {
		t.Fatalf("All returned error: %v", err)
	}
	ids := make([]uint, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	return ids
}

func idsEqual(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func idsEqualUnordered(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uint]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		seen[id]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

// stubScope resolves tree targets against the fixture tree, with an
// injectable lookup failure
type stubScope struct {
	err error
}

func (s stubScope) RootPage(r *Request) (*model.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range treePages() {
		if p.Depth == 1 {
			page := p
			return &page, nil
		}
	}
	return nil, query.ErrNotFound
}

func (s stubScope) PageByID(r *Request, id uint) (*model.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range treePages() {
		if p.ID == id {
			page := p
			return &page, nil
		}
	}
	return nil, query.ErrNotFound
}

// fakeSearchBackend records how the search filter invoked it
type fakeSearchBackend struct {
	called    bool
	lastQuery string
	lastOpts  search.Options
	result    query.PageQuery
	err       error
}

func (b *fakeSearchBackend) Search(ctx context.Context, queryString string, qs query.PageQuery, cfg search.IndexConfig, opts search.Options) (query.PageQuery, error) {
	b.called = true
	b.lastQuery = queryString
	b.lastOpts = opts
	if b.err != nil {
		return nil, b.err
	}
	if b.result != nil {
		return b.result, nil
	}
	return qs, nil
}
