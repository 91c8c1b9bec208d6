package models

import "time"

// Setting is one key of the settings override store.
type Setting struct {
	ID        uint64    `gorm:"primaryKey" json:"-"`
	Key       string    `gorm:"size:191;uniqueIndex;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}
