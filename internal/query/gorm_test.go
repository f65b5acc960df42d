package query

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chroniclecms/chronicle/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("opening sqlmock: %v", err)
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening gorm: %v", err)
	}

	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})

	return gdb, mock
}

func pageColumns() []string {
	return []string{"id", "title", "slug", "path", "depth", "live", "content_type"}
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestGormQuery_CountWithEqualsFilter(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pages" WHERE live = \$1 AND "pages"\."deleted_at" IS NULL`).
		WithArgs(true).
		WillReturnRows(countRows(3))

	count, err := NewGormPageQuery(gdb).FilterEquals("live", true).Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
}

func TestGormQuery_CountError(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pages"`).
		WillReturnError(errors.New("connection reset"))

	_, err := NewGormPageQuery(gdb).Count(context.Background())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestGormQuery_TreeFilters(t *testing.T) {
	parent := &model.Page{Title: "Blog", Path: "000100010002", Depth: 3}
	parent.ID = 4

	tests := []struct {
		name  string
		build func(qs PageQuery) PageQuery
		sql   string
		args  []driver.Value
	}{
		{
			name:  "Child of",
			build: func(qs PageQuery) PageQuery { return qs.FilterChildOf(parent) },
			sql:   `SELECT count\(\*\) FROM "pages" WHERE \(path LIKE \$1 AND depth = \$2\) AND "pages"\."deleted_at" IS NULL`,
			args:  []driver.Value{"000100010002%", 4},
		},
		{
			name:  "Strict descendants",
			build: func(qs PageQuery) PageQuery { return qs.FilterDescendantOf(parent, false) },
			sql:   `SELECT count\(\*\) FROM "pages" WHERE \(path LIKE \$1 AND depth > \$2\) AND "pages"\."deleted_at" IS NULL`,
			args:  []driver.Value{"000100010002%", 3},
		},
		{
			name:  "Inclusive descendants",
			build: func(qs PageQuery) PageQuery { return qs.FilterDescendantOf(parent, true) },
			sql:   `SELECT count\(\*\) FROM "pages" WHERE \(path LIKE \$1 AND depth >= \$2\) AND "pages"\."deleted_at" IS NULL`,
			args:  []driver.Value{"000100010002%", 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gdb, mock := newMockDB(t)

			mock.ExpectQuery(tt.sql).
				WithArgs(tt.args...).
				WillReturnRows(countRows(2))

			count, err := tt.build(NewGormPageQuery(gdb)).Count(context.Background())
			if err != nil {
				t.Fatalf("Count returned error: %v", err)
			}
			if count != 2 {
				t.Errorf("Expected count 2, got %d", count)
			}
		})
	}
}

func TestGormQuery_TagFilter(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pages" WHERE \(EXISTS \(SELECT 1 FROM page_tags pt JOIN tags t ON t\.id = pt\.tag_id WHERE pt\.page_id = pages\.id AND t\.name = \$1\)\) AND "pages"\."deleted_at" IS NULL`).
		WithArgs("news").
		WillReturnRows(countRows(2))

	count, err := NewGormPageQuery(gdb).FilterHasTag("news").Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}
}

func TestGormQuery_IDInFilter(t *testing.T) {
	t.Run("Empty list matches nothing", func(t *testing.T) {
		gdb, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "pages" WHERE 1 = 0 AND "pages"\."deleted_at" IS NULL`).
			WillReturnRows(countRows(0))

		count, err := NewGormPageQuery(gdb).FilterIDIn(nil).Count(context.Background())
		if err != nil {
			t.Fatalf("Count returned error: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected count 0, got %d", count)
		}
	})

	t.Run("Membership", func(t *testing.T) {
		gdb, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "pages" WHERE pages\.id IN \(\$1,\$2\) AND "pages"\."deleted_at" IS NULL`).
			WithArgs(5, 6).
			WillReturnRows(countRows(2))

		count, err := NewGormPageQuery(gdb).FilterIDIn([]uint{5, 6}).Count(context.Background())
		if err != nil {
			t.Fatalf("Count returned error: %v", err)
		}
		if count != 2 {
			t.Errorf("Expected count 2, got %d", count)
		}
	})
}

func TestGormQuery_SearchTermsSQL(t *testing.T) {
	columns := []string{"title", "slug"}

	t.Run("Match all terms", func(t *testing.T) {
		gdb, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "pages" WHERE \(\(title ILIKE \$1 OR slug ILIKE \$2\)\) AND \(\(title ILIKE \$3 OR slug ILIKE \$4\)\) AND "pages"\."deleted_at" IS NULL`).
			WithArgs("%alpha%", "%alpha%", "%beta%", "%beta%").
			WillReturnRows(countRows(1))

		qs := NewGormPageQuery(gdb).FilterSearchTerms(columns, []string{"alpha", "beta"}, true)
		if _, err := qs.Count(context.Background()); err != nil {
			t.Fatalf("Count returned error: %v", err)
		}
	})

	t.Run("Match any term", func(t *testing.T) {
		gdb, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "pages" WHERE \(\(\(title ILIKE \$1 OR slug ILIKE \$2\) OR \(title ILIKE \$3 OR slug ILIKE \$4\)\)\) AND "pages"\."deleted_at" IS NULL`).
			WithArgs("%alpha%", "%alpha%", "%beta%", "%beta%").
			WillReturnRows(countRows(2))

		qs := NewGormPageQuery(gdb).FilterSearchTerms(columns, []string{"alpha", "beta"}, false)
		if _, err := qs.Count(context.Background()); err != nil {
			t.Fatalf("Count returned error: %v", err)
		}
	})
}

func TestGormQuery_OrderingSQL(t *testing.T) {
	tests := []struct {
		name  string
		build func(qs PageQuery) PageQuery
		sql   string
	}{
		{
			name:  "Descending column",
			build: func(qs PageQuery) PageQuery { return qs.OrderBy("-title") },
			sql:   `SELECT \* FROM "pages" WHERE "pages"\."deleted_at" IS NULL ORDER BY title DESC`,
		},
		{
			name:  "Random",
			build: func(qs PageQuery) PageQuery { return qs.OrderRandom() },
			sql:   `SELECT \* FROM "pages" WHERE "pages"\."deleted_at" IS NULL ORDER BY RANDOM\(\)`,
		},
		{
			name:  "ID list rank",
			build: func(qs PageQuery) PageQuery { return qs.OrderByIDList([]uint{5, 6}) },
			sql:   `SELECT \* FROM "pages" WHERE "pages"\."deleted_at" IS NULL ORDER BY CASE pages\.id WHEN 5 THEN 0 WHEN 6 THEN 1 ELSE 2 END`,
		},
		{
			name:  "Reverse flips direction",
			build: func(qs PageQuery) PageQuery { return qs.OrderBy("title").Reverse() },
			sql:   `SELECT \* FROM "pages" WHERE "pages"\."deleted_at" IS NULL ORDER BY title DESC`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gdb, mock := newMockDB(t)

			mock.ExpectQuery(tt.sql).WillReturnRows(sqlmock.NewRows(pageColumns()))

			pages, err := tt.build(NewGormPageQuery(gdb)).All(context.Background())
			if err != nil {
				t.Fatalf("All returned error: %v", err)
			}
			if len(pages) != 0 {
				t.Errorf("Expected no pages, got %d", len(pages))
			}
		})
	}
}

func TestGormQuery_AllPreloadsTags(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "pages" WHERE live = \$1 AND "pages"\."deleted_at" IS NULL`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(pageColumns()).
			AddRow(5, "First Post", "first-post", "0001000100020001", 4, true, "blog.blogpost").
			AddRow(6, "Second Post", "second-post", "0001000100020002", 4, true, "blog.blogpost"))

	mock.ExpectQuery(`SELECT \* FROM "page_tags" WHERE "page_tags"\."page_id" IN \(\$1,\$2\)`).
		WithArgs(5, 6).
		WillReturnRows(sqlmock.NewRows([]string{"page_id", "tag_id"}).
			AddRow(5, 1).
			AddRow(6, 1))

	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE "tags"\."id" = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "news"))

	pages, err := NewGormPageQuery(gdb).FilterEquals("live", true).All(context.Background())
	if err != nil {
		t.Fatalf("All returned error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(pages))
	}
	for _, p := range pages {
		if len(p.Tags) != 1 || p.Tags[0].Name != "news" {
			t.Errorf("Expected page %d to carry tag news, got %v", p.ID, p.Tags)
		}
	}
}

func TestGormQuery_First(t *testing.T) {
	t.Run("Returns the first row", func(t *testing.T) {
		gdb, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT \* FROM "pages" WHERE live = \$1 AND "pages"\."deleted_at" IS NULL ORDER BY "pages"\."id" LIMIT \$2`).
			WithArgs(true, 1).
			WillReturnRows(sqlmock.NewRows(pageColumns()).
				AddRow(7, "Contact", "contact", "000100010003", 3, true, "pages.standardpage"))

		mock.ExpectQuery(`SELECT \* FROM "page_tags" WHERE "page_tags"\."page_id" = \$1`).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"page_id", "tag_id"}))

		page, err := NewGormPageQuery(gdb).FilterEquals("live", true).First(context.Background())
		if err != nil {
			t.Fatalf("First returned error: %v", err)
		}
		if page.ID != 7 {
			t.Errorf("Expected page 7, got %d", page.ID)
		}
	})

	t.Run("No rows", func(t *testing.T) {
		gdb, mock := newMockDB(t)

		mock.ExpectQuery(`SELECT \* FROM "pages" WHERE live = \$1 AND "pages"\."deleted_at" IS NULL ORDER BY "pages"\."id" LIMIT \$2`).
			WithArgs(true, 1).
			WillReturnRows(sqlmock.NewRows(pageColumns()))

		_, err := NewGormPageQuery(gdb).FilterEquals("live", true).First(context.Background())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestGormQuery_SliceWindow(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "pages" WHERE "pages"\."deleted_at" IS NULL LIMIT \$1 OFFSET \$2`).
		WithArgs(5, 10).
		WillReturnRows(sqlmock.NewRows(pageColumns()))

	pages, err := NewGormPageQuery(gdb).Slice(10, 5).All(context.Background())
	if err != nil {
		t.Fatalf("All returned error: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("Expected no pages, got %d", len(pages))
	}
}

func TestGormQuery_Immutability(t *testing.T) {
	gdb, mock := newMockDB(t)

	base := NewGormPageQuery(gdb)
	_ = base.FilterEquals("live", true)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pages" WHERE "pages"\."deleted_at" IS NULL`).
		WillReturnRows(countRows(9))

	count, err := base.Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 9 {
		t.Errorf("Expected base query to stay unfiltered with count 9, got %d", count)
	}
}
