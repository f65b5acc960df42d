package search

import (
	"testing"

	"github.com/chroniclecms/chronicle/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestIndexerTermWeights(t *testing.T) {
	cfg := IndexConfig{SearchFields: []string{"title", "slug", "search_description", "body"}}
	ix := NewIndexer(nil, cfg)

	tests := []struct {
		name string
		page model.Page
		want map[string]float64
	}{
		{
			name: "Title terms are boosted",
			page: model.Page{Title: "Go News", Slug: "go-news"},
			want: map[string]float64{"go": 2, "news": 2, "go-news": 1},
		},
		{
			name: "Repeated terms accumulate",
			page: model.Page{Title: "News news", SearchDescription: "all the news"},
			want: map[string]float64{"news": 5, "all": 1, "the": 1},
		},
		{
			name: "Body text is indexed",
			page: model.Page{Body: datatypes.JSON(`{"intro": "launch recap"}`)},
			want: map[string]float64{"intro": 1, "launch": 1, "recap": 1},
		},
		{
			name: "Empty page",
			page: model.Page{},
			want: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.termWeights(&tt.page)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected weights %v, got %v", tt.want, got)
			}
			for term, weight := range tt.want {
				if got[term] != weight {
					t.Errorf("Expected weight %v for %q, got %v", weight, term, got[term])
				}
			}
		})
	}
}

func TestIndexerRespectsConfiguredColumns(t *testing.T) {
	ix := NewIndexer(nil, IndexConfig{SearchFields: []string{"title"}})
	page := model.Page{Title: "Visible", Slug: "hidden-slug", SearchDescription: "hidden text"}

	got := ix.termWeights(&page)
	if len(got) != 1 || got["visible"] != 2 {
		t.Errorf("Expected only the boosted title term, got %v", got)
	}
}

func TestIndexText(t *testing.T) {
	page := &model.Page{
		Model:             gorm.Model{ID: 9},
		Title:             "The Title",
		Slug:              "the-slug",
		SearchDescription: "a description",
		Body:              datatypes.JSON(`{"k":"v"}`),
	}

	tests := []struct {
		name   string
		column string
		want   string
	}{
		{name: "Title", column: "title", want: "The Title"},
		{name: "Slug", column: "slug", want: "the-slug"},
		{name: "Description", column: "search_description", want: "a description"},
		{name: "Body", column: "body", want: `{"k":"v"}`},
		{name: "Unknown column", column: "path", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := indexText(page, tt.column); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
