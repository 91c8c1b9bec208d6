package collection

import (
	"context"

	"github.com/folio-cms/folio/internal/db/models"
)

// Resource is a Collection with the entity type erased. The router and the
// maintenance jobs work on every content type through it.
type Resource interface {
	Spec() Spec
	List(ctx context.Context, public bool) (any, error)
	Create(ctx context.Context, body []byte) (any, error)
	Update(ctx context.Context, id string, body []byte) (any, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ImageRefs(ctx context.Context) ([]string, error)
}

type erased[T any, PT interface {
	*T
	models.Entity
}] struct {
	c *Collection[T, PT]
}

// Resource returns c as a Resource.
func (c *Collection[T, PT]) Resource() Resource {
	return erased[T, PT]{c: c}
}

func (e erased[T, PT]) Spec() Spec {
	return e.c.Spec()
}

func (e erased[T, PT]) List(ctx context.Context, public bool) (any, error) {
	return e.c.List(ctx, public)
}

func (e erased[T, PT]) Create(ctx context.Context, body []byte) (any, error) {
	return e.c.Create(ctx, body)
}

func (e erased[T, PT]) Update(ctx context.Context, id string, body []byte) (any, error) {
	return e.c.Update(ctx, id, body)
}

func (e erased[T, PT]) Delete(ctx context.Context, id string) error {
	return e.c.Delete(ctx, id)
}

func (e erased[T, PT]) Count(ctx context.Context) (int64, error) {
	return e.c.Count(ctx)
}

func (e erased[T, PT]) ImageRefs(ctx context.Context) ([]string, error) {
	return e.c.ImageRefs(ctx)
}

// ImageRefs returns the image references of every row, visible or not, embedded ones included.
func (c *Collection[T, PT]) ImageRefs(ctx context.Context) ([]string, error) {
	items, err := c.List(ctx, false)
	if err != nil {
		return nil, err
	}

	var refs []string

	for i := range items {
		if r, ok := any(PT(&items[i])).(models.ImageReferencer); ok {
			refs = append(refs, r.ImageRefs()...)
		}

		if e, ok := any(PT(&items[i])).(models.ImageEmbedder); ok {
			refs = append(refs, e.EmbeddedImageRefs()...)
		}
	}

	return refs, nil
}
