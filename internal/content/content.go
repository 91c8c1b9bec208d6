// Package content lists the content types of the portfolio and their collection settings.
package content

import (
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/db/controller/collection"
	"github.com/folio-cms/folio/internal/db/models"
)

// Resource names, used as route segments and fixture keys.
const (
	Photos       = "photos"
	Services     = "services"
	WorkSteps    = "work-steps"
	BeforeAfter  = "before-after"
	Pricing      = "pricing"
	Testimonials = "testimonials"
	Instagram    = "instagram"
	Blog         = "blog"
)

// InstagramPublicLimit is the number of posts the public feed shows.
const InstagramPublicLimit = 6

// Registry holds one collection per content type.
type Registry struct {
	resources []collection.Resource
	byName    map[string]collection.Resource
}

// New builds the registry. images may be nil, rows are then deleted without touching hosted files.
func New(db *gorm.DB, images collection.ImageRemover) *Registry {
	active := "active"

	r := &Registry{byName: make(map[string]collection.Resource)}
	r.add(collection.New[models.Photo](db, collection.Spec{
		Name: Photos, VisibleColumn: active, AppendOrder: true,
	}, images).Resource())
	r.add(collection.New[models.Service](db, collection.Spec{Name: Services, VisibleColumn: active}, images).Resource())
	r.add(collection.New[models.WorkStep](db, collection.Spec{Name: WorkSteps, VisibleColumn: active}, images).Resource())
	r.add(collection.New[models.BeforeAfterItem](db, collection.Spec{
		Name: BeforeAfter, VisibleColumn: active,
	}, images).Resource())
	r.add(collection.New[models.PricingPlan](db, collection.Spec{
		Name: Pricing, VisibleColumn: active, Preloads: []string{"FeatureRows"},
	}, images).Resource())
	r.add(collection.New[models.Testimonial](db, collection.Spec{
		Name: Testimonials, VisibleColumn: active,
	}, images).Resource())
	r.add(collection.New[models.InstagramPost](db, collection.Spec{
		Name: Instagram, VisibleColumn: active, PublicLimit: InstagramPublicLimit,
	}, images).Resource())
	r.add(collection.New[models.BlogPost](db, collection.Spec{Name: Blog, VisibleColumn: "published"}, images).Resource())

	return r
}

func (r *Registry) add(res collection.Resource) {
	r.resources = append(r.resources, res)
	r.byName[res.Spec().Name] = res
}

// All returns every resource in a stable order.
func (r *Registry) All() []collection.Resource {
	return r.resources
}

// Get returns the resource called name.
func (r *Registry) Get(name string) (collection.Resource, bool) {
	res, ok := r.byName[name]

	return res, ok
}
