package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node in the category forest, keyed by its canonical
// slash-delimited path (e.g. "/computers/monitors"). Categories flagged
// IsTag are promotional labels rather than browsing categories.
type Category struct {
	ID             string    `gorm:"type:uuid;primarykey" json:"id"`
	Path           string    `gorm:"uniqueIndex;not null" json:"category"`      // canonical path, immutable
	Parent         string    `gorm:"index;not null" json:"parent"`              // parent path, "/" for roots
	Names          LocaleMap `gorm:"type:text;not null" json:"names"`           // locale code -> display name
	IconLigature   string    `gorm:"type:varchar(100)" json:"iconLigature"`     // glyph name, opaque
	IconFontFamily string    `gorm:"type:varchar(100)" json:"iconFontFamily"`   // font family, opaque
	IsTag          bool      `gorm:"default:false;index" json:"isTag"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

// BeforeCreate assigns a time-ordered UUID before insert.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		c.ID = id.String()
	}
	return nil
}

// RootPath is the parent of top-level categories.
const RootPath = "/"

// NormalizePath canonicalizes a category path: single leading slash, no
// trailing slash, lower-case.
func NormalizePath(path string) string {
	path = strings.TrimSpace(strings.ToLower(path))
	path = "/" + strings.Trim(path, "/")
	return path
}

// ParentOf derives the parent path of a canonical path ("/a/b" -> "/a",
// "/a" -> "/").
func ParentOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return RootPath
	}
	return path[:idx]
}

// IsDescendantPath reports whether path sits strictly below ancestor in the
// forest. The root is an ancestor of every path.
func IsDescendantPath(path, ancestor string) bool {
	if ancestor == RootPath {
		return path != RootPath
	}
	return strings.HasPrefix(path, ancestor+"/")
}

// DefaultName returns the display name for the given locale, falling back to
// English and then to any available entry.
func (c *Category) DefaultName(locale string) string {
	if name, ok := c.Names[locale]; ok {
		return name
	}
	if name, ok := c.Names["en"]; ok {
		return name
	}
	for _, name := range c.Names {
		return name
	}
	return c.Path
}
