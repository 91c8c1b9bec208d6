package models

// Photo is a gallery image.
type Photo struct {
	Item
	Title       string `gorm:"size:255;not null" json:"title" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;index;not null" json:"category" validate:"required"`
	ImageURL    string `gorm:"column:image_url;size:1024;not null" json:"imageUrl" validate:"required"`
}

// ImageRefs implements ImageReferencer.
func (p *Photo) ImageRefs() []string {
	return nonEmpty(p.ImageURL)
}
