// Package collection implements the ordered content collection: list, create,
// update and delete over one content table, keeping the presentation order and
// the visibility flag semantics identical for every content type.
package collection

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/validation"
)

const (
	// OrderColumn holds the presentation order of every content table.
	OrderColumn = "sort_order"

	createdAtColumn = "created_at"
)

var (
	// ErrNotFound is returned when no row has the given id.
	ErrNotFound = errors.New("item not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrInvalidBody is returned for request bodies that are not a JSON object of the entity.
	ErrInvalidBody = errors.New("invalid request body")
	// ErrImageCleanup is returned when a referenced image could not be removed. The row is kept.
	ErrImageCleanup = errors.New("image cleanup failed")

	// immutable keys are dropped from client input
	immutable = []string{"id", "createdAt", "updatedAt"}
)

// ImageRemover deletes a hosted image by URL or public id.
// References the host does not own and images already gone are not an error.
type ImageRemover interface {
	DeleteReference(ctx context.Context, ref string) error
}

// Spec configures a collection.
type Spec struct {
	// Name of the resource, used for routes and logs.
	Name string
	// VisibleColumn is the boolean column public readers filter on. Empty shows every row.
	VisibleColumn string
	// AppendOrder places rows created without an order after the current maximum.
	AppendOrder bool
	// PublicLimit caps the public list, 0 is unlimited.
	PublicLimit int
	// Preloads are associations loaded with every read.
	Preloads []string
}

// Collection is the ordered content collection of entity T.
type Collection[T any, PT interface {
	*T
	models.Entity
}] struct {
	db     *gorm.DB
	spec   Spec
	images ImageRemover
}

// New returns the collection of T. images may be nil when no host is configured.
func New[T any, PT interface {
	*T
	models.Entity
}](db *gorm.DB, spec Spec, images ImageRemover) *Collection[T, PT] {
	return &Collection[T, PT]{db: db, spec: spec, images: images}
}

// Spec returns the configuration.
func (c *Collection[T, PT]) Spec() Spec {
	return c.spec
}

func (c *Collection[T, PT]) query(ctx context.Context) *gorm.DB {
	q := c.db.WithContext(ctx)
	for _, p := range c.spec.Preloads {
		q = q.Preload(p)
	}

	return q
}

// List returns rows ordered by order ascending, newest first among equal orders.
// Public lists only contain visible rows and honour the public limit.
func (c *Collection[T, PT]) List(ctx context.Context, public bool) ([]T, error) {
	if c.db == nil {
		return nil, ErrDBNil
	}

	q := c.query(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: OrderColumn}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: createdAtColumn}, Desc: true})

	if public {
		if c.spec.VisibleColumn != "" {
			q = q.Where(clause.Eq{Column: clause.Column{Name: c.spec.VisibleColumn}, Value: true})
		}

		if c.spec.PublicLimit > 0 {
			q = q.Limit(c.spec.PublicLimit)
		}
	}

	items := make([]T, 0)
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", c.spec.Name, err)
	}

	return items, nil
}

// Get returns the row with id.
func (c *Collection[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	if c.db == nil {
		return nil, ErrDBNil
	}

	if id == "" {
		return nil, ErrNotFound
	}

	item := PT(new(T))

	err := c.query(ctx).Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).First(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get %s: %w", c.spec.Name, err)
	}

	return item, nil
}

// Count returns the number of rows.
func (c *Collection[T, PT]) Count(ctx context.Context) (int64, error) {
	if c.db == nil {
		return 0, ErrDBNil
	}

	var n int64
	if err := c.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", c.spec.Name, err)
	}

	return n, nil
}

// Create inserts a row from a JSON object. Type defaults apply to absent keys.
func (c *Collection[T, PT]) Create(ctx context.Context, body []byte) (PT, error) {
	if c.db == nil {
		return nil, ErrDBNil
	}

	patch, err := decodePatch(body)
	if err != nil {
		return nil, err
	}

	item := PT(new(T))
	item.ApplyDefaults()

	if err = apply(patch, item); err != nil {
		return nil, err
	}

	if err = validation.Struct(item); err != nil {
		return nil, err
	}

	db := c.db.WithContext(ctx)
	_, hasOrder := patch["order"]

	if c.spec.AppendOrder && !hasOrder {
		err = c.insertAppended(ctx, db, item)
	} else {
		err = db.Omit(clause.Associations).Create(item).Error
	}

	if err != nil {
		return nil, fmt.Errorf("create %s: %w", c.spec.Name, err)
	}

	return c.Get(ctx, item.GetID())
}

// insertAppended inserts item with order = max(order)+1 computed inside the INSERT.
// The derived table keeps MySQL from rejecting a subquery on the target table.
func (c *Collection[T, PT]) insertAppended(ctx context.Context, db *gorm.DB, item PT) error {
	if hook, ok := any(item).(interface{ BeforeCreate(*gorm.DB) error }); ok {
		if err := hook.BeforeCreate(db); err != nil {
			return err
		}
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(item); err != nil {
		return err
	}

	rv := reflect.Indirect(reflect.ValueOf(item))
	now := db.NowFunc()
	values := make(map[string]interface{}, len(stmt.Schema.DBNames))

	for _, name := range stmt.Schema.DBNames {
		field := stmt.Schema.FieldsByDBName[name]
		if field == nil || !field.Creatable {
			continue
		}

		value, zero := field.ValueOf(ctx, rv)
		if zero && (field.AutoCreateTime > 0 || field.AutoUpdateTime > 0) {
			value = now
		}

		values[name] = value
	}

	values[OrderColumn] = gorm.Expr(
		"(SELECT COALESCE(MAX(?), 0) + 1 FROM (SELECT ? FROM ?) AS existing)",
		clause.Column{Name: OrderColumn},
		clause.Column{Name: OrderColumn},
		clause.Table{Name: stmt.Schema.Table},
	)

	return db.Table(stmt.Schema.Table).Create(values).Error
}

// Update merges a JSON object into the row with id. Absent keys keep the stored value.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, body []byte) (PT, error) {
	if c.db == nil {
		return nil, ErrDBNil
	}

	patch, err := decodePatch(body)
	if err != nil {
		return nil, err
	}

	item, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = apply(patch, item); err != nil {
		return nil, err
	}

	if err = validation.Struct(item); err != nil {
		return nil, err
	}

	if err = c.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return nil, fmt.Errorf("update %s: %w", c.spec.Name, err)
	}

	return c.Get(ctx, id)
}

// Delete removes the row with id. Unknown ids succeed.
// Hosted images of the row are removed first, the row is only deleted when that worked.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	item, err := c.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}

		return err
	}

	if refs, ok := any(item).(models.ImageReferencer); ok && c.images != nil {
		for _, ref := range refs.ImageRefs() {
			if err = c.images.DeleteReference(ctx, ref); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrImageCleanup, ref, err)
			}
		}
	}

	if err = c.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("delete %s: %w", c.spec.Name, err)
	}

	return nil
}

func decodePatch(body []byte) (map[string]json.RawMessage, error) {
	var patch map[string]json.RawMessage

	if err := json.Unmarshal(body, &patch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if patch == nil {
		return nil, ErrInvalidBody
	}

	for _, key := range immutable {
		delete(patch, key)
	}

	return patch, nil
}

// apply decodes patch onto dst, keys absent from patch are left alone.
func apply(patch map[string]json.RawMessage, dst interface{}) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	if err = json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}

	return nil
}
