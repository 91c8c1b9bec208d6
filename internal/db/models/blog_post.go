package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/markdown"
	"github.com/folio-cms/folio/internal/slug"
)

const maxSlugAttempts = 50

// BlogPost is a Markdown article. Published is its visibility flag.
type BlogPost struct {
	Base
	Title       string     `gorm:"size:255;not null" json:"title" validate:"required"`
	Slug        string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Excerpt     string     `gorm:"type:text" json:"excerpt"`
	Content     string     `gorm:"type:text;not null" json:"content" validate:"required"`
	CoverImage  string     `gorm:"size:1024" json:"coverImage"`
	Author      string     `gorm:"size:255" json:"author"`
	Published   bool       `gorm:"not null;index" json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`

	// ContentHTML is the rendered and sanitized Content, filled for public reads only.
	ContentHTML string `gorm:"-" json:"contentHtml,omitempty"`
}

// ApplyDefaults implements Entity. Posts start as drafts.
func (p *BlogPost) ApplyDefaults() {
	p.Published = false
}

// ImageRefs implements ImageReferencer.
func (p *BlogPost) ImageRefs() []string {
	return nonEmpty(p.CoverImage)
}

// EmbeddedImageRefs implements ImageEmbedder with the images the Markdown body shows.
func (p *BlogPost) EmbeddedImageRefs() []string {
	return markdown.ImageRefs(p.Content)
}

// BeforeSave derives a unique slug and stamps PublishedAt on first publication.
func (p *BlogPost) BeforeSave(tx *gorm.DB) error {
	base := slug.Make(p.Slug)
	if base == "" {
		base = slug.Make(p.Title)
	}

	if base == "" {
		base = "post"
	}

	candidate := base

	for i := 2; ; i++ {
		var count int64

		err := tx.Model(&BlogPost{}).
			Where("slug = ? AND id <> ?", candidate, p.ID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count == 0 {
			break
		}

		if i > maxSlugAttempts {
			candidate = slug.WithSuffix(base)

			break
		}

		candidate = fmt.Sprintf("%s-%d", base, i)
	}

	p.Slug = candidate

	if p.Published && p.PublishedAt == nil {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}

	return nil
}
