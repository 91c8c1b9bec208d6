// Package blog serves published posts to public readers.
package blog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/markdown"
)

var (
	// ErrNotFound is returned for unknown slugs and unpublished posts.
	ErrNotFound = errors.New("post not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetPublishedBySlug returns the published post with slug and its Markdown rendered to safe HTML.
func GetPublishedBySlug(ctx context.Context, db *gorm.DB, slug string) (*models.BlogPost, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if slug == "" {
		return nil, ErrNotFound
	}

	var post models.BlogPost

	err := db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "slug"}, Value: slug}).
		Where(clause.Eq{Column: clause.Column{Name: "published"}, Value: true}).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get post %q: %w", slug, err)
	}

	post.ContentHTML, err = markdown.Render(post.Content)
	if err != nil {
		return nil, fmt.Errorf("render post %q: %w", slug, err)
	}

	return &post, nil
}
