package models

// DefaultRating is the rating of a testimonial created without one.
const DefaultRating = 5

// Testimonial is a client quote.
type Testimonial struct {
	Item
	Name     string `gorm:"size:255;not null" json:"name" validate:"required"`
	Role     string `gorm:"size:255" json:"role"`
	Content  string `gorm:"type:text;not null" json:"content" validate:"required"`
	Rating   int    `gorm:"not null" json:"rating" validate:"min=1,max=5"`
	ImageURL string `gorm:"column:image_url;size:1024" json:"imageUrl"`
}

// ApplyDefaults implements Entity.
func (t *Testimonial) ApplyDefaults() {
	t.Item.ApplyDefaults()
	t.Rating = DefaultRating
}

// ImageRefs implements ImageReferencer.
func (t *Testimonial) ImageRefs() []string {
	return nonEmpty(t.ImageURL)
}
