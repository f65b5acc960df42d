package query

import (
	"context"
	"errors"
	"testing"

	"github.com/chroniclecms/chronicle/internal/model"
	"gorm.io/gorm"
)

// memPages is a small tree: home(1) with children news(2) and about(3),
// news has one child article(4); about is a draft.
func memPages() []model.Page {
	return []model.Page{
		{Model: gorm.Model{ID: 1}, Title: "Home", Slug: "home", Path: "0001", Depth: 1, Numchild: 2, Live: true, ContentType: "pages.homepage"},
		{Model: gorm.Model{ID: 2}, Title: "News", Slug: "news", Path: "00010001", Depth: 2, Numchild: 1, Live: true, ContentType: "pages.index",
			Tags: []model.Tag{{ID: 1, Name: "section"}}},
		{Model: gorm.Model{ID: 3}, Title: "About", Slug: "about", Path: "00010002", Depth: 2, Live: false, ContentType: "pages.standardpage"},
		{Model: gorm.Model{ID: 4}, Title: "Launch Article", Slug: "launch-article", Path: "000100010001", Depth: 3, Live: true, ContentType: "pages.article",
			Tags: []model.Tag{{ID: 1, Name: "section"}, {ID: 2, Name: "launch"}}},
	}
}

func memIDs(t *testing.T, qs PageQuery) []uint {
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

func memIDsEqual(a, b []uint) bool {
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

func TestMemoryQuery_FilterEquals(t *testing.T) {
	tests := []struct {
		name   string
		column string
		value  any
		want   []uint
	}{
		{name: "String column", column: "title", value: "News", want: []uint{2}},
		{name: "Slug column", column: "slug", value: "about", want: []uint{3}},
		{name: "Boolean column", column: "live", value: true, want: []uint{1, 2, 4}},
		{name: "Integer column int", column: "depth", value: 2, want: []uint{2, 3}},
		{name: "Integer column int64", column: "depth", value: int64(2), want: []uint{2, 3}},
		{name: "ID as uint", column: "id", value: uint(4), want: []uint{4}},
		{name: "Unknown column matches nothing", column: "bogus", value: "x", want: nil},
		{name: "Type mismatch matches nothing", column: "live", value: "true", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := NewMemoryPageQuery(memPages()).FilterEquals(tt.column, tt.value)
			if got := memIDs(t, qs); !memIDsEqual(got, tt.want) {
				t.Errorf("Expected ids %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMemoryQuery_Immutability(t *testing.T) {
	base := NewMemoryPageQuery(memPages())

	live := base.FilterEquals("live", true)
	deep := base.FilterEquals("depth", 3)

	if got := memIDs(t, base); !memIDsEqual(got, []uint{1, 2, 3, 4}) {
		t.Errorf("Expected base to stay unfiltered, got %v", got)
	}
	if got := memIDs(t, live); !memIDsEqual(got, []uint{1, 2, 4}) {
		t.Errorf("Expected live branch [1 2 4], got %v", got)
	}
	if got := memIDs(t, deep); !memIDsEqual(got, []uint{4}) {
		t.Errorf("Expected depth branch [4], got %v", got)
	}

	// Narrowing one branch leaves its parent usable.
	narrower := live.FilterEquals("depth", 2)
	if got := memIDs(t, narrower); !memIDsEqual(got, []uint{2}) {
		t.Errorf("Expected narrowed branch [2], got %v", got)
	}
	if got := memIDs(t, live); !memIDsEqual(got, []uint{1, 2, 4}) {
		t.Errorf("Expected live branch to stay intact, got %v", got)
	}
}

func TestMemoryQuery_Tags(t *testing.T) {
	base := NewMemoryPageQuery(memPages())

	if got := memIDs(t, base.FilterHasTag("section")); !memIDsEqual(got, []uint{2, 4}) {
		t.Errorf("Expected [2 4], got %v", got)
	}

	both := base.FilterHasTag("section").FilterHasTag("launch")
	if got := memIDs(t, both); !memIDsEqual(got, []uint{4}) {
		t.Errorf("Expected accumulated tags to return [4], got %v", got)
	}

	cols := both.FilteredColumns()
	if len(cols) != 2 || cols[0] != "tags" || cols[1] != "tags" {
		t.Errorf("Expected filtered columns [tags tags], got %v", cols)
	}
}

func TestMemoryQuery_Tree(t *testing.T) {
	pages := memPages()
	home := &pages[0]
	news := &pages[1]

	base := NewMemoryPageQuery(pages)

	if got := memIDs(t, base.FilterChildOf(home)); !memIDsEqual(got, []uint{2, 3}) {
		t.Errorf("Expected children [2 3], got %v", got)
	}
	if got := memIDs(t, base.FilterChildOf(news)); !memIDsEqual(got, []uint{4}) {
		t.Errorf("Expected children [4], got %v", got)
	}
	if got := memIDs(t, base.FilterDescendantOf(home, false)); !memIDsEqual(got, []uint{2, 3, 4}) {
		t.Errorf("Expected strict subtree [2 3 4], got %v", got)
	}
	if got := memIDs(t, base.FilterDescendantOf(home, true)); !memIDsEqual(got, []uint{1, 2, 3, 4}) {
		t.Errorf("Expected inclusive subtree [1 2 3 4], got %v", got)
	}
}

func TestMemoryQuery_IDIn(t *testing.T) {
	base := NewMemoryPageQuery(memPages())

	if got := memIDs(t, base.FilterIDIn([]uint{4, 2})); !memIDsEqual(got, []uint{2, 4}) {
		t.Errorf("Expected [2 4], got %v", got)
	}
	if got := memIDs(t, base.FilterIDIn(nil)); len(got) != 0 {
		t.Errorf("Expected empty id list to match nothing, got %v", got)
	}
}

func TestMemoryQuery_SearchTerms(t *testing.T) {
	base := NewMemoryPageQuery(memPages())
	columns := []string{"title", "slug"}

	if got := memIDs(t, base.FilterSearchTerms(columns, []string{"launch"}, true)); !memIDsEqual(got, []uint{4}) {
		t.Errorf("Expected [4], got %v", got)
	}
	if got := memIDs(t, base.FilterSearchTerms(columns, []string{"launch", "news"}, true)); len(got) != 0 {
		t.Errorf("Expected no page to match every term, got %v", got)
	}
	if got := memIDs(t, base.FilterSearchTerms(columns, []string{"launch", "news"}, false)); !memIDsEqual(got, []uint{2, 4}) {
		t.Errorf("Expected [2 4], got %v", got)
	}

	// Matching is case insensitive on both sides.
	if got := memIDs(t, base.FilterSearchTerms(columns, []string{"LAUNCH"}, true)); !memIDsEqual(got, []uint{4}) {
		t.Errorf("Expected case insensitive match [4], got %v", got)
	}

	// No terms leaves the query untouched.
	if got := memIDs(t, base.FilterSearchTerms(columns, nil, true)); !memIDsEqual(got, []uint{1, 2, 3, 4}) {
		t.Errorf("Expected passthrough, got %v", got)
	}
}

func TestMemoryQuery_Ordering(t *testing.T) {
	base := NewMemoryPageQuery(memPages())

	if got := memIDs(t, base.OrderBy("title")); !memIDsEqual(got, []uint{3, 1, 4, 2}) {
		t.Errorf("Expected title order [3 1 4 2], got %v", got)
	}
	if got := memIDs(t, base.OrderBy("-title")); !memIDsEqual(got, []uint{2, 4, 1, 3}) {
		t.Errorf("Expected reversed title order [2 4 1 3], got %v", got)
	}
	if got := memIDs(t, base.OrderBy("title").Reverse()); !memIDsEqual(got, []uint{2, 4, 1, 3}) {
		t.Errorf("Expected Reverse to flip direction, got %v", got)
	}
	if got := memIDs(t, base.OrderBy("depth", "title")); !memIDsEqual(got, []uint{1, 3, 2, 4}) {
		t.Errorf("Expected depth then title [1 3 2 4], got %v", got)
	}

	ordered := base.OrderBy("-depth", "title").OrderedColumns()
	if len(ordered) != 2 || ordered[0] != "depth" || ordered[1] != "title" {
		t.Errorf("Expected ordered columns [depth title], got %v", ordered)
	}
}

func TestMemoryQuery_OrderByIDList(t *testing.T) {
	base := NewMemoryPageQuery(memPages())

	if got := memIDs(t, base.OrderByIDList([]uint{3, 1})); !memIDsEqual(got, []uint{3, 1, 2, 4}) {
		t.Errorf("Expected ranked ids first [3 1 2 4], got %v", got)
	}

	reversed := base.OrderByIDList([]uint{3, 1}).Reverse()
	if got := memIDs(t, reversed); !memIDsEqual(got, []uint{1, 3, 2, 4}) {
		t.Errorf("Expected reversed rank [1 3 2 4], got %v", got)
	}
}

func TestMemoryQuery_Random(t *testing.T) {
	qs := NewMemoryPageQuery(memPages()).OrderBy("title").OrderRandom()

	ordered := qs.OrderedColumns()
	if len(ordered) != 1 || ordered[0] != "random" {
		t.Errorf("Expected ordered columns [random], got %v", ordered)
	}

	got := memIDs(t, qs)
	if len(got) != 4 {
		t.Errorf("Expected all pages in some order, got %v", got)
	}
}

func TestMemoryQuery_SliceAndCount(t *testing.T) {
	base := NewMemoryPageQuery(memPages()).OrderBy("id")

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []uint
	}{
		{name: "Window", offset: 1, limit: 2, want: []uint{2, 3}},
		{name: "Zero limit", offset: 0, limit: 0, want: nil},
		{name: "Offset beyond end", offset: 10, limit: 2, want: nil},
		{name: "Limit beyond end", offset: 2, limit: 10, want: []uint{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sliced := base.Slice(tt.offset, tt.limit)
			if got := memIDs(t, sliced); !memIDsEqual(got, tt.want) {
				t.Errorf("Expected ids %v, got %v", tt.want, got)
			}

			count, err := sliced.Count(context.Background())
			if err != nil {
				t.Fatalf("Count returned error: %v", err)
			}
			if count != 4 {
				t.Errorf("Expected count to ignore the window, got %d", count)
			}
		})
	}
}

func TestMemoryQuery_First(t *testing.T) {
	base := NewMemoryPageQuery(memPages())

	page, err := base.OrderBy("-depth").First(context.Background())
	if err != nil {
		t.Fatalf("First returned error: %v", err)
	}
	if page.ID != 4 {
		t.Errorf("Expected deepest page 4, got %d", page.ID)
	}

	_, err = base.FilterEquals("title", "Nope").First(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryQuery_FilteredColumns(t *testing.T) {
	pages := memPages()
	qs := NewMemoryPageQuery(pages).
		FilterEquals("live", true).
		FilterChildOf(&pages[0])

	cols := qs.FilteredColumns()
	want := []string{"live", "path", "depth"}
	if len(cols) != len(want) {
		t.Fatalf("Expected columns %v, got %v", want, cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("Expected column %d to be %q, got %q", i, want[i], cols[i])
		}
	}
}

func TestMemoryQuery_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	qs := NewMemoryPageQuery(memPages())
	if _, err := qs.All(ctx); err == nil {
		t.Error("Expected All to fail on a canceled context")
	}
	if _, err := qs.Count(ctx); err == nil {
		t.Error("Expected Count to fail on a canceled context")
	}
	if _, err := qs.First(ctx); err == nil {
		t.Error("Expected First to fail on a canceled context")
	}
}
