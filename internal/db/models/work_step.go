package models

// WorkStep is one step of the "how we work" section.
type WorkStep struct {
	Item
	Title       string `gorm:"size:255;not null" json:"title" validate:"required"`
	Description string `gorm:"type:text" json:"description" validate:"required"`
	Icon        string `gorm:"size:100" json:"icon"`
}
