package database

import (
	"fmt"
	"time"

	"github.com/chroniclecms/chronicle/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultSite defines the site created on first boot.
type DefaultSite struct {
	Hostname string
	Port     int
	SiteName string
}

// GetDefaultSite returns the default site definition
func GetDefaultSite() DefaultSite {
	return DefaultSite{
		Hostname: "localhost",
		Port:     80,
		SiteName: "Chronicle",
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Page{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			// Tree already present, skip seeding
			return nil
		}

		if err := seedPageTree(tx); err != nil {
			return err
		}
		return seedSite(tx)
	})
}

// seedPageTree builds the root node and a small demo tree underneath
// it so a fresh install answers API requests immediately.
func seedPageTree(db *gorm.DB) error {
	now := time.Now().UTC()
	published := func(d time.Duration) *time.Time {
		t := now.Add(-d)
		return &t
	}

	tags, err := seedTags(db, "news", "featured", "go")
	if err != nil {
		return err
	}

	root := model.Page{
		Title:       "Root",
		Slug:        "root",
		ContentType: "core.page",
		Path:        "0001",
		Depth:       1,
		Numchild:    1,
		Live:        true,
	}
	if err := db.Create(&root).Error; err != nil {
		return err
	}

	home := model.Page{
		Title:             "Home",
		Slug:              "home",
		ContentType:       "core.page",
		Path:              childPath(root.Path, 1),
		Depth:             2,
		Numchild:          3,
		Live:              true,
		ShowInMenus:       true,
		SearchDescription: "Welcome to Chronicle",
		Body:              pageBody("Welcome to your new Chronicle site."),
		FirstPublishedAt:  published(96 * time.Hour),
	}
	if err := db.Create(&home).Error; err != nil {
		return err
	}

	sections := []model.Page{
		{
			Title:            "About",
			Slug:             "about",
			ContentType:      "demo.standard",
			Path:             childPath(home.Path, 1),
			Depth:            3,
			Live:             true,
			ShowInMenus:      true,
			Body:             pageBody("About this site."),
			FirstPublishedAt: published(72 * time.Hour),
		},
		{
			Title:            "Blog",
			Slug:             "blog",
			ContentType:      "demo.index",
			Path:             childPath(home.Path, 2),
			Depth:            3,
			Numchild:         2,
			Live:             true,
			ShowInMenus:      true,
			Body:             pageBody("Latest posts."),
			FirstPublishedAt: published(48 * time.Hour),
		},
		{
			Title:       "Contact",
			Slug:        "contact",
			ContentType: "demo.standard",
			Path:        childPath(home.Path, 3),
			Depth:       3,
			Live:        false, // draft
			Body:        pageBody("Get in touch."),
		},
	}
	for i := range sections {
		if err := db.Create(&sections[i]).Error; err != nil {
			return err
		}
	}

	blog := sections[1]
	posts := []model.Page{
		{
			Title:             "First Post",
			Slug:              "first-post",
			ContentType:       "demo.article",
			Path:              childPath(blog.Path, 1),
			Depth:             4,
			Live:              true,
			SearchDescription: "The very first post",
			Body:              pageBody("Hello from Chronicle."),
			FirstPublishedAt:  published(24 * time.Hour),
			Tags:              []model.Tag{tags["news"], tags["go"]},
		},
		{
			Title:             "Second Post",
			Slug:              "second-post",
			ContentType:       "demo.article",
			Path:              childPath(blog.Path, 2),
			Depth:             4,
			Live:              true,
			SearchDescription: "A follow-up post",
			Body:              pageBody("More content for the demo tree."),
			FirstPublishedAt:  published(12 * time.Hour),
			Tags:              []model.Tag{tags["featured"]},
		},
	}
	for i := range posts {
		if err := db.Create(&posts[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// seedSite points the default site at the Home page.
func seedSite(db *gorm.DB) error {
	def := GetDefaultSite()

	var home model.Page
	if err := db.Where("slug = ? AND depth = ?", "home", 2).First(&home).Error; err != nil {
		return err
	}

	site := model.Site{
		Hostname:   def.Hostname,
		Port:       def.Port,
		SiteName:   def.SiteName,
		RootPageID: home.ID,
		IsDefault:  true,
	}
	return db.Create(&site).Error
}

func seedTags(db *gorm.DB, names ...string) (map[string]model.Tag, error) {
	out := make(map[string]model.Tag, len(names))
	for _, name := range names {
		tag := model.Tag{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		out[name] = tag
	}
	return out, nil
}

// childPath appends a fixed-width step to a parent path. Sibling order
// follows lexicographic path order, so steps are zero padded.
func childPath(parent string, n int) string {
	return parent + fmt.Sprintf("%0*d", model.PathStepLen, n)
}

func pageBody(text string) datatypes.JSON {
	return datatypes.JSON(fmt.Sprintf(`{"blocks":[{"type":"paragraph","value":%q}]}`, text))
}
