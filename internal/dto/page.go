package dto

import (
	"fmt"
	"time"

	"github.com/chroniclecms/chronicle/internal/api"
	"github.com/chroniclecms/chronicle/internal/model"
	"gorm.io/datatypes"
)

// PageMeta carries the representation-only attributes of a page
type PageMeta struct {
	ContentType      string     `json:"content_type"`
	Slug             string     `json:"slug"`
	DetailURL        string     `json:"detail_url"`
	ShowInMenus      bool       `json:"show_in_menus"`
	Live             bool       `json:"live"`
	Depth            int        `json:"depth"`
	Numchild         int        `json:"numchild"`
	FirstPublishedAt *time.Time `json:"first_published_at"`
}

type PageResponse struct {
	ID                uint           `json:"id"`
	Title             string         `json:"title"`
	Meta              PageMeta       `json:"meta"`
	SearchDescription string         `json:"search_description,omitempty"`
	Body              datatypes.JSON `json:"body,omitempty"`
	Tags              []string       `json:"tags"`
}

// ListMeta is the envelope header of every listing response
type ListMeta struct {
	TotalCount int64 `json:"total_count"`
}

// PageListEnvelope is the listing response shape. Field order matters:
// meta must serialize before items.
type PageListEnvelope struct {
	Meta  ListMeta       `json:"meta"`
	Items []PageResponse `json:"items"`
}

// SchemaEnvelope wraps the parameter descriptors of one view
type SchemaEnvelope struct {
	View   string            `json:"view"`
	Fields []api.SchemaField `json:"fields"`
}

// ReindexResponse reports a search index rebuild
type ReindexResponse struct {
	Indexed int    `json:"indexed"`
	Backend string `json:"backend"`
}

// NewPageResponse maps a page model to its API representation.
// detailURLBase is the absolute base of the pages endpoint serving the
// response, without a trailing slash.
func NewPageResponse(page *model.Page, detailURLBase string) PageResponse {
	tags := make([]string, 0, len(page.Tags))
	for _, t := range page.Tags {
		tags = append(tags, t.Name)
	}

	return PageResponse{
		ID:    page.ID,
		Title: page.Title,
		Meta: PageMeta{
			ContentType:      page.ContentType,
			Slug:             page.Slug,
			DetailURL:        fmt.Sprintf("%s/%d/", detailURLBase, page.ID),
			ShowInMenus:      page.ShowInMenus,
			Live:             page.Live,
			Depth:            page.Depth,
			Numchild:         page.Numchild,
			FirstPublishedAt: page.FirstPublishedAt,
		},
		SearchDescription: page.SearchDescription,
		Body:              page.Body,
		Tags:              tags,
	}
}

// NewPageListEnvelope maps a filtered page window to the listing shape
func NewPageListEnvelope(pages []model.Page, total int64, detailURLBase string) PageListEnvelope {
	items := make([]PageResponse, 0, len(pages))
	for i := range pages {
		items = append(items, NewPageResponse(&pages[i], detailURLBase))
	}
	return PageListEnvelope{
		Meta:  ListMeta{TotalCount: total},
		Items: items,
	}
}
