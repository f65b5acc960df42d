package api

import (
	"net/url"
	"testing"

	apperrors "github.com/chroniclecms/chronicle/internal/errors"
)

func TestOrderingFilter_Order(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		want   []uint
	}{
		{
			name:   "No order parameter keeps store order",
			params: params("live", "true"),
			want:   []uint{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:   "Ascending title",
			params: params("order", "title"),
			want:   []uint{3, 4, 7, 5, 2, 1, 6},
		},
		{
			name:   "Descending title",
			params: params("order", "-title"),
			want:   []uint{6, 1, 2, 5, 7, 4, 3},
		},
		{
			name:   "Ascending id",
			params: params("order", "id"),
			want:   []uint{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:   "Descending id",
			params: params("order", "-id"),
			want:   []uint{7, 6, 5, 4, 3, 2, 1},
		},
		{
			name:   "Descending depth is stable within ties",
			params: params("order", "-depth"),
			want:   []uint{5, 6, 3, 4, 7, 2, 1},
		},
	}

	filter := NewOrderingFilter()
	view := PagesView()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRequest(tt.params)
			qs, err := filter.FilterQueryset(r, treeQuery(), view)
			if err != nil {
				t.Fatalf("FilterQueryset returned error: %v", err)
			}
			got := resultIDs(t, qs)
			if !idsEqual(got, tt.want) {
				t.Errorf("Expected ids %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOrderingFilter_Random(t *testing.T) {
	filter := NewOrderingFilter()
	view := PagesView()

	r := newTestRequest(params("order", "random"))
	qs, err := filter.FilterQueryset(r, treeQuery(), view)
	if err != nil {
		t.Fatalf("FilterQueryset returned error: %v", err)
	}

	ordered := qs.OrderedColumns()
	if len(ordered) != 1 || ordered[0] != "random" {
		t.Errorf("Expected ordered columns [random], got %v", ordered)
	}

	got := resultIDs(t, qs)
	if !idsEqualUnordered(got, []uint{1, 2, 3, 4, 5, 6, 7}) {
		t.Errorf("Expected a shuffle of all pages, got %v", got)
	}
}

func TestOrderingFilter_RandomWithOffset(t *testing.T) {
	filter := NewOrderingFilter()
	view := PagesView()

	r := newTestRequest(params("order", "random", "offset", "2"))
	_, err := filter.FilterQueryset(r, treeQuery(), view)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	want := "random ordering with offset is not supported"
	if got := apperrors.GetErrorMessage(err); got != want {
		t.Errorf("Expected message %q, got %q", want, got)
	}

	// A limit without an offset stays allowed.
	r = newTestRequest(params("order", "random", "limit", "3"))
	if _, err := filter.FilterQueryset(r, treeQuery(), view); err != nil {
		t.Errorf("Expected random with limit to pass, got %v", err)
	}
}

func TestOrderingFilter_UnknownFields(t *testing.T) {
	tests := []struct {
		name    string
		orderBy string
		wantMsg string
	}{
		{
			name:    "Unknown field",
			orderBy: "nonsense",
			wantMsg: "cannot order by 'nonsense' (unknown field)",
		},
		{
			name:    "Unknown field descending",
			orderBy: "-nonsense",
			wantMsg: "cannot order by 'nonsense' (unknown field)",
		},
		{
			name:    "Tags are not orderable",
			orderBy: "tags",
			wantMsg: "cannot order by 'tags' (unknown field)",
		},
		{
			name:    "Computed fields are not orderable",
			orderBy: "detail_url",
			wantMsg: "cannot order by 'detail_url' (unknown field)",
		},
	}

	filter := NewOrderingFilter()
	view := PagesView()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRequest(params("order", tt.orderBy))
			_, err := filter.FilterQueryset(r, treeQuery(), view)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !apperrors.IsBadRequest(err) {
				t.Errorf("Expected bad request error, got %v", err)
			}
			if got := apperrors.GetErrorMessage(err); got != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, got)
			}
		})
	}
}
