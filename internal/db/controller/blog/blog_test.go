package blog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/testutil"
)

func TestGetPublishedBySlug(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)

	published := models.BlogPost{
		Title:     "Golden Hour Tips",
		Content:   "# Light\n\nShoot **late**.<script>alert(1)</script>",
		Published: true,
	}
	draft := models.BlogPost{Title: "Draft", Content: "wip"}

	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&draft).Error)
	require.Equal(t, "golden-hour-tips", published.Slug)
	require.NotNil(t, published.PublishedAt)

	post, err := GetPublishedBySlug(ctx, db, "golden-hour-tips")
	require.NoError(t, err)
	assert.Equal(t, published.ID, post.ID)
	assert.Contains(t, post.ContentHTML, "<strong>late</strong>")
	assert.NotContains(t, post.ContentHTML, "<script>")

	_, err = GetPublishedBySlug(ctx, db, draft.Slug)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = GetPublishedBySlug(ctx, db, "nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = GetPublishedBySlug(ctx, db, "")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = GetPublishedBySlug(ctx, nil, "x")
	require.ErrorIs(t, err, ErrDBNil)
}
