package models

// Service is an offered photography service.
type Service struct {
	Item
	Title       string `gorm:"size:255;not null" json:"title" validate:"required"`
	Description string `gorm:"type:text" json:"description" validate:"required"`
	Icon        string `gorm:"size:100" json:"icon"`
	ImageURL    string `gorm:"column:image_url;size:1024" json:"imageUrl"`
	Price       string `gorm:"size:100" json:"price"`
}

// ImageRefs implements ImageReferencer.
func (s *Service) ImageRefs() []string {
	return nonEmpty(s.ImageURL)
}
