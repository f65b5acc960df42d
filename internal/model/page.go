package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PathStepLen is the number of characters one tree level adds to Path.
// A page at depth N has a path of exactly N*PathStepLen characters, so
// subtree membership reduces to a prefix match plus a depth comparison.
const PathStepLen = 4

type Page struct {
	gorm.Model
	Title             string         `gorm:"type:varchar(255);not null;index:idx_pages_title" json:"title"`
	Slug              string         `gorm:"type:varchar(255);not null;index:idx_pages_slug" json:"slug"`
	Path              string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_pages_path" json:"-"`
	Depth             int            `gorm:"not null;index:idx_pages_depth;check:depth >= 1" json:"depth"`
	Numchild          int            `gorm:"default:0;not null" json:"numchild"`
	Live              bool           `gorm:"default:true;not null;index:idx_pages_live" json:"live"`
	ShowInMenus       bool           `gorm:"default:false;not null" json:"show_in_menus"`
	ContentType       string         `gorm:"type:varchar(100);not null;index:idx_pages_content_type" json:"content_type"`
	SearchDescription string         `gorm:"type:text" json:"search_description"`
	Body              datatypes.JSON `gorm:"type:jsonb;default:'{}'::jsonb" json:"body"`
	FirstPublishedAt  *time.Time     `gorm:"index:idx_pages_first_published_at" json:"first_published_at,omitempty"`
	Tags              []Tag          `gorm:"many2many:page_tags;constraint:OnDelete:CASCADE" json:"tags"`
}

// IsRoot reports whether the page is a tree root
func (p *Page) IsRoot() bool {
	return p.Depth == 1
}

// HasChildren reports whether the page has direct children
func (p *Page) HasChildren() bool {
	return p.Numchild > 0
}

// IsDescendantOf reports whether p sits strictly below other in the tree
func (p *Page) IsDescendantOf(other *Page) bool {
	if len(p.Path) <= len(other.Path) {
		return false
	}
	return p.Path[:len(other.Path)] == other.Path
}

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex:idx_tags_name;not null" json:"name"`
}

type Site struct {
	gorm.Model
	Hostname   string `gorm:"type:varchar(255);not null;uniqueIndex:idx_sites_host_port,priority:1" json:"hostname"`
	Port       int    `gorm:"default:80;not null;uniqueIndex:idx_sites_host_port,priority:2" json:"port"`
	SiteName   string `gorm:"type:varchar(255)" json:"site_name"`
	RootPageID uint   `gorm:"not null;index:idx_sites_root_page" json:"root_page_id"`
	RootPage   Page   `gorm:"foreignKey:RootPageID;constraint:OnDelete:RESTRICT" json:"-"`
	IsDefault  bool   `gorm:"default:false;index:idx_sites_is_default" json:"is_default"`
}
