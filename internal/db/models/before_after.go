package models

// BeforeAfterItem pairs an unedited and an edited image.
type BeforeAfterItem struct {
	Item
	Title       string `gorm:"size:255;not null" json:"title" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100" json:"category"`
	BeforeImage string `gorm:"size:1024;not null" json:"beforeImage" validate:"required"`
	AfterImage  string `gorm:"size:1024;not null" json:"afterImage" validate:"required"`
}

// ImageRefs implements ImageReferencer.
func (b *BeforeAfterItem) ImageRefs() []string {
	return nonEmpty(b.BeforeImage, b.AfterImage)
}
