package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/chroniclecms/chronicle/config"
	"github.com/chroniclecms/chronicle/internal/api"
	"github.com/chroniclecms/chronicle/internal/dto"
	apperrors "github.com/chroniclecms/chronicle/internal/errors"
	"github.com/chroniclecms/chronicle/internal/hooks"
	"github.com/chroniclecms/chronicle/internal/model"
	"github.com/chroniclecms/chronicle/internal/query"
	"github.com/chroniclecms/chronicle/internal/search"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Logger = zap.NewNop()
	logger.Sugar = logger.Logger.Sugar()
	os.Exit(m.Run())
}

// fakeStore implements PageStore over a fixed page slice with the same
// lookup semantics as the gorm-backed repository.
type fakeStore struct {
	pages []model.Page
}

func (s *fakeStore) Query() query.PageQuery {
	return query.NewMemoryPageQuery(s.pages)
}

func (s *fakeStore) Live() query.PageQuery {
	return s.Query().FilterEquals("live", true)
}

func (s *fakeStore) GetByID(ctx context.Context, id uint) (*model.Page, error) {
	for i := range s.pages {
		if s.pages[i].ID == id {
			return &s.pages[i], nil
		}
	}
	return nil, query.ErrNotFound
}

func (s *fakeStore) FirstRootNode(ctx context.Context) (*model.Page, error) {
	for i := range s.pages {
		if s.pages[i].Depth == 1 {
			return &s.pages[i], nil
		}
	}
	return nil, query.ErrNotFound
}

func (s *fakeStore) SiteRootPage(ctx context.Context, site *model.Site) (*model.Page, error) {
	if site == nil {
		return nil, query.ErrNotFound
	}
	return s.GetByID(ctx, site.RootPageID)
}

func (s *fakeStore) SitePageByID(ctx context.Context, site *model.Site, id uint) (*model.Page, error) {
	root, err := s.SiteRootPage(ctx, site)
	if err != nil {
		return nil, err
	}
	page, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(page.Path, root.Path) {
		return nil, query.ErrNotFound
	}
	return page, nil
}

func (s *fakeStore) AllLive(ctx context.Context) ([]model.Page, error) {
	live := make([]model.Page, 0, len(s.pages))
	for _, p := range s.pages {
		if p.Live {
			live = append(live, p)
		}
	}
	return live, nil
}

// twoSitePages is a tree serving two sites:
//
//	1 Root                            0001
//	2 ├── Home          (site A)      00010001
//	3 │   ├── About Us                000100010001
//	4 │   ├── Blog                    000100010002
//	5 │   │   ├── First Post          0001000100020001
//	6 │   │   └── Second Post         0001000100020002
//	7 │   └── Contact     (draft)     000100010003
//	8 └── Other Home    (site B)      00010002
//	9     └── Other News              000100020001
func twoSitePages() []model.Page {
	page := func(id uint, title, slug, path string, depth, numchild int, live bool, contentType string, tags ...model.Tag) model.Page {
		return model.Page{
			Model:       gorm.Model{ID: id},
			Title:       title,
			Slug:        slug,
			Path:        path,
			Depth:       depth,
			Numchild:    numchild,
			Live:        live,
			ContentType: contentType,
			Tags:        tags,
		}
	}
	return []model.Page{
		page(1, "Root", "root", "0001", 1, 2, true, "core.rootpage"),
		page(2, "Home", "home", "00010001", 2, 3, true, "pages.homepage"),
		page(3, "About Us", "about-us", "000100010001", 3, 0, true, "pages.standardpage"),
		page(4, "Blog", "blog", "000100010002", 3, 2, true, "blog.blogindex"),
		page(5, "First Post", "first-post", "0001000100020001", 4, 0, true, "blog.blogpost",
			model.Tag{ID: 1, Name: "news"}, model.Tag{ID: 2, Name: "go"}),
		page(6, "Second Post", "second-post", "0001000100020002", 4, 0, true, "blog.blogpost",
			model.Tag{ID: 1, Name: "news"}),
		page(7, "Contact", "contact", "000100010003", 3, 0, false, "pages.standardpage"),
		page(8, "Other Home", "other-home", "00010002", 2, 1, true, "pages.homepage"),
		page(9, "Other News", "other-news", "000100020001", 3, 0, true, "pages.standardpage"),
	}
}

func siteA() *model.Site {
	site := &model.Site{Hostname: "example.com", Port: 80, RootPageID: 2, IsDefault: true}
	site.ID = 1
	return site
}

func newTestService() *PageService {
	store := &fakeStore{pages: twoSitePages()}
	return NewPageService(store, search.NewDatabaseBackend(), config.APIConfig{
		MaxLimit:      20,
		SearchEnabled: true,
	})
}

func svcParams(pairs ...string) url.Values {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		values.Add(pairs[i], pairs[i+1])
	}
	return values
}

func envelopeIDs(env *dto.PageListEnvelope) []uint {
	ids := make([]uint, 0, len(env.Items))
	for _, item := range env.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func svcIDsEqual(a, b []uint) bool {
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

func TestListPublic_Defaults(t *testing.T) {
	svc := newTestService()

	env, err := svc.ListPublic(context.Background(), siteA(), svcParams())
	if err != nil {
		t.Fatalf("ListPublic returned error: %v", err)
	}

	if env.Meta.TotalCount != 5 {
		t.Errorf("Expected total count 5, got %d", env.Meta.TotalCount)
	}
	if got := envelopeIDs(env); !svcIDsEqual(got, []uint{2, 3, 4, 5, 6}) {
		t.Errorf("Expected published site subtree [2 3 4 5 6], got %v", got)
	}
	if env.Items[0].Meta.DetailURL != "/api/v2/pages/2/" {
		t.Errorf("Expected public detail URL, got %q", env.Items[0].Meta.DetailURL)
	}
}

func TestListPublic_SiteErrors(t *testing.T) {
	svc := newTestService()

	if _, err := svc.ListPublic(context.Background(), nil, svcParams()); err != apperrors.ErrSiteNotFound {
		t.Errorf("Expected ErrSiteNotFound for missing site, got %v", err)
	}

	orphan := &model.Site{Hostname: "orphan.test", RootPageID: 999}
	if _, err := svc.ListPublic(context.Background(), orphan, svcParams()); err != apperrors.ErrSiteNotFound {
		t.Errorf("Expected ErrSiteNotFound for dangling root page, got %v", err)
	}
}

func TestListPublic_TreeFilters(t *testing.T) {
	tests := []struct {
		name    string
		params  url.Values
		want    []uint
		wantErr string
	}{
		{name: "Children of blog", params: svcParams("child_of", "4"), want: []uint{5, 6}},
		{name: "Children of site root", params: svcParams("child_of", "root"), want: []uint{3, 4}},
		{name: "Parent outside the site", params: svcParams("child_of", "8"), wantErr: "parent page doesn't exist"},
		{name: "Parent missing", params: svcParams("child_of", "999"), wantErr: "parent page doesn't exist"},
		{name: "Descendants of blog", params: svcParams("descendant_of", "4"), want: []uint{5, 6}},
		{name: "Descendants of site root", params: svcParams("descendant_of", "root"), want: []uint{3, 4, 5, 6}},
		{name: "Ancestor outside the site", params: svcParams("descendant_of", "9"), wantErr: "ancestor page doesn't exist"},
		{name: "Ancestor missing", params: svcParams("descendant_of", "9999"), wantErr: "ancestor page doesn't exist"},
		{
			name:    "Descendant conflicts with child",
			params:  svcParams("child_of", "2", "descendant_of", "4"),
			wantErr: "filtering by descendant_of with child_of is not supported",
		},
	}

	svc := newTestService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := svc.ListPublic(context.Background(), siteA(), tt.params)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !apperrors.IsBadRequest(err) {
					t.Errorf("Expected bad request, got %v", err)
				}
				if msg := apperrors.GetErrorMessage(err); msg != tt.wantErr {
					t.Errorf("Expected message %q, got %q", tt.wantErr, msg)
				}
				return
			}

			if err != nil {
				t.Fatalf("ListPublic returned error: %v", err)
			}
			if got := envelopeIDs(env); !svcIDsEqual(got, tt.want) {
				t.Errorf("Expected ids %v, got %v", tt.want, got)
			}
		})
	}
}

func TestListPublic_Search(t *testing.T) {
	svc := newTestService()

	t.Run("Term narrows the listing", func(t *testing.T) {
		env, err := svc.ListPublic(context.Background(), siteA(), svcParams("search", "post"))
		if err != nil {
			t.Fatalf("ListPublic returned error: %v", err)
		}
		if got := envelopeIDs(env); !svcIDsEqual(got, []uint{5, 6}) {
			t.Errorf("Expected [5 6], got %v", got)
		}
	})

	t.Run("Explicit ordering applies to matches", func(t *testing.T) {
		env, err := svc.ListPublic(context.Background(), siteA(), svcParams("search", "post", "order", "-id"))
		if err != nil {
			t.Fatalf("ListPublic returned error: %v", err)
		}
		if got := envelopeIDs(env); !svcIDsEqual(got, []uint{6, 5}) {
			t.Errorf("Expected [6 5], got %v", got)
		}
	})

	t.Run("Tag filter conflicts with search", func(t *testing.T) {
		_, err := svc.ListPublic(context.Background(), siteA(), svcParams("tags", "news", "search", "post"))
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		want := "filtering by tag with a search query is not supported"
		if msg := apperrors.GetErrorMessage(err); msg != want {
			t.Errorf("Expected message %q, got %q", want, msg)
		}
	})
}

func TestListPublic_FieldAndTagFilters(t *testing.T) {
	svc := newTestService()

	t.Run("Tag filter", func(t *testing.T) {
		env, err := svc.ListPublic(context.Background(), siteA(), svcParams("tags", "news"))
		if err != nil {
			t.Fatalf("ListPublic returned error: %v", err)
		}
		if got := envelopeIDs(env); !svcIDsEqual(got, []uint{5, 6}) {
			t.Errorf("Expected [5 6], got %v", got)
		}
	})

	t.Run("Field filter", func(t *testing.T) {
		env, err := svc.ListPublic(context.Background(), siteA(), svcParams("content_type", "blog.blogpost"))
		if err != nil {
			t.Fatalf("ListPublic returned error: %v", err)
		}
		if got := envelopeIDs(env); !svcIDsEqual(got, []uint{5, 6}) {
			t.Errorf("Expected [5 6], got %v", got)
		}
	})

	t.Run("Bad boolean value", func(t *testing.T) {
		_, err := svc.ListPublic(context.Background(), siteA(), svcParams("live", "maybe"))
		if !apperrors.IsBadRequest(err) {
			t.Errorf("Expected bad request, got %v", err)
		}
	})
}

func TestListPublic_Pagination(t *testing.T) {
	pages := []model.Page{
		{Model: gorm.Model{ID: 1}, Title: "Theatre", Slug: "theatre", Path: "0001", Depth: 1, Numchild: 12, Live: true, ContentType: "core.rootpage"},
	}
	for i := uint(2); i <= 13; i++ {
		pages = append(pages, model.Page{
			Model:       gorm.Model{ID: i},
			Title:       "Hamlet",
			Slug:        "hamlet",
			Path:        fmt.Sprintf("0001%04d", i),
			Depth:       2,
			Live:        true,
			ContentType: "pages.playpage",
		})
	}

	store := &fakeStore{pages: pages}
	svc := NewPageService(store, search.NewDatabaseBackend(), config.APIConfig{MaxLimit: 20, SearchEnabled: true})
	site := &model.Site{Hostname: "plays.test", RootPageID: 1}

	t.Run("First window", func(t *testing.T) {
		env, err := svc.ListPublic(context.Background(), site, svcParams(
			"title", "Hamlet", "order", "-title", "limit", "5", "offset", "0",
		))
		if err != nil {
			t.Fatalf("ListPublic returned error: %v", err)
		}
		if env.Meta.TotalCount != 12 {
			t.Errorf("Expected total count 12, got %d", env.Meta.TotalCount)
		}
		if len(env.Items) != 5 {
			t.Errorf("Expected 5 items, got %d", len(env.Items))
		}
	})

	t.Run("Tail window", func(t *testing.T) {
		env, err := svc.ListPublic(context.Background(), site, svcParams(
			"title", "Hamlet", "limit", "5", "offset", "10",
		))
		if err != nil {
			t.Fatalf("ListPublic returned error: %v", err)
		}
		if env.Meta.TotalCount != 12 {
			t.Errorf("Expected total count 12, got %d", env.Meta.TotalCount)
		}
		if len(env.Items) != 2 {
			t.Errorf("Expected 2 items, got %d", len(env.Items))
		}
	})

	t.Run("Limit over the ceiling", func(t *testing.T) {
		_, err := svc.ListPublic(context.Background(), site, svcParams("limit", "9999"))
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if msg := apperrors.GetErrorMessage(err); msg != "limit cannot be higher than 20" {
			t.Errorf("Expected ceiling message, got %q", msg)
		}
	})
}

func TestListAdmin(t *testing.T) {
	svc := newTestService()

	t.Run("Sees every page", func(t *testing.T) {
		env, err := svc.ListAdmin(context.Background(), svcParams())
		if err != nil {
			t.Fatalf("ListAdmin returned error: %v", err)
		}
		if env.Meta.TotalCount != 9 {
			t.Errorf("Expected total count 9, got %d", env.Meta.TotalCount)
		}
		if env.Items[0].Meta.DetailURL != "/api/admin/pages/1/" {
			t.Errorf("Expected admin detail URL, got %q", env.Items[0].Meta.DetailURL)
		}
	})

	t.Run("Children include drafts", func(t *testing.T) {
		env, err := svc.ListAdmin(context.Background(), svcParams("child_of", "2"))
		if err != nil {
			t.Fatalf("ListAdmin returned error: %v", err)
		}
		if got := envelopeIDs(env); !svcIDsEqual(got, []uint{3, 4, 7}) {
			t.Errorf("Expected [3 4 7], got %v", got)
		}
	})

	t.Run("Explorer hooks filter the listing", func(t *testing.T) {
		registry := hooks.DefaultRegistry()
		t.Cleanup(registry.Clear)

		err := hooks.RegisterExplorerQueryHook("live_only", func(parent *model.Page, params url.Values, qs query.PageQuery) query.PageQuery {
			return qs.FilterEquals("live", true)
		})
		if err != nil {
			t.Fatalf("RegisterExplorerQueryHook returned error: %v", err)
		}

		env, err := svc.ListAdmin(context.Background(), svcParams("child_of", "2", "for_explorer", "true"))
		if err != nil {
			t.Fatalf("ListAdmin returned error: %v", err)
		}
		if got := envelopeIDs(env); !svcIDsEqual(got, []uint{3, 4}) {
			t.Errorf("Expected hook to drop the draft, got %v", got)
		}
	})

	t.Run("Explorer flag needs a parent", func(t *testing.T) {
		_, err := svc.ListAdmin(context.Background(), svcParams("for_explorer", "true"))
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		want := "filtering by for_explorer without child_of is not supported"
		if msg := apperrors.GetErrorMessage(err); msg != want {
			t.Errorf("Expected message %q, got %q", want, msg)
		}
	})
}

func TestGetPublic(t *testing.T) {
	tests := []struct {
		name    string
		site    *model.Site
		id      uint
		wantErr error
		wantURL string
	}{
		{name: "Published page", site: siteA(), id: 5, wantURL: "/api/v2/pages/5/"},
		{name: "Draft is hidden", site: siteA(), id: 7, wantErr: apperrors.ErrPageNotFound},
		{name: "Other site's page is hidden", site: siteA(), id: 9, wantErr: apperrors.ErrPageNotFound},
		{name: "Unknown id", site: siteA(), id: 999, wantErr: apperrors.ErrPageNotFound},
		{name: "No site", site: nil, id: 5, wantErr: apperrors.ErrSiteNotFound},
	}

	svc := newTestService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetPublic(context.Background(), tt.site, tt.id)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetPublic returned error: %v", err)
			}
			if resp.ID != tt.id {
				t.Errorf("Expected page %d, got %d", tt.id, resp.ID)
			}
			if resp.Meta.DetailURL != tt.wantURL {
				t.Errorf("Expected detail URL %q, got %q", tt.wantURL, resp.Meta.DetailURL)
			}
			if len(resp.Tags) != 2 || resp.Tags[0] != "news" {
				t.Errorf("Expected tags [news go], got %v", resp.Tags)
			}
		})
	}
}

func TestGetAdmin(t *testing.T) {
	svc := newTestService()

	resp, err := svc.GetAdmin(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetAdmin returned error: %v", err)
	}
	if resp.Meta.Live {
		t.Error("Expected the draft to stay marked unpublished")
	}
	if resp.Meta.DetailURL != "/api/admin/pages/7/" {
		t.Errorf("Expected admin detail URL, got %q", resp.Meta.DetailURL)
	}

	if _, err := svc.GetAdmin(context.Background(), 999); err != apperrors.ErrPageNotFound {
		t.Errorf("Expected ErrPageNotFound, got %v", err)
	}
}

func TestSchemas(t *testing.T) {
	svc := newTestService()

	hasField := func(fields []api.SchemaField, name string) bool {
		for _, f := range fields {
			if f.Name == name {
				return true
			}
		}
		return false
	}

	public := svc.PublicSchema()
	if public.View != "pages" {
		t.Errorf("Expected view pages, got %q", public.View)
	}
	if hasField(public.Fields, "for_explorer") {
		t.Error("Expected the public schema to omit for_explorer")
	}
	if !hasField(public.Fields, "child_of") || !hasField(public.Fields, "limit") {
		t.Error("Expected public schema to describe filter and pagination parameters")
	}

	admin := svc.AdminSchema()
	if admin.View != "admin_pages" {
		t.Errorf("Expected view admin_pages, got %q", admin.View)
	}
	if !hasField(admin.Fields, "for_explorer") {
		t.Error("Expected the admin schema to include for_explorer")
	}
	if len(admin.Fields) != len(public.Fields)+1 {
		t.Errorf("Expected admin schema to add exactly one field, got %d vs %d", len(admin.Fields), len(public.Fields))
	}
}
