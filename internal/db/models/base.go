// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity is implemented by every row type the ordered content collection manages.
type Entity interface {
	// GetID returns the primary key.
	GetID() string
	// ApplyDefaults sets the type specific defaults before client input is decoded on top.
	ApplyDefaults()
}

// ImageReferencer is implemented by entities carrying image references (URLs or public ids).
// Deleting the row deletes these images.
type ImageReferencer interface {
	ImageRefs() []string
}

// ImageEmbedder is implemented by entities using images they do not own, e.g. inline in a text body.
// They keep the images from the orphan sweep but are left alone when the row is deleted.
type ImageEmbedder interface {
	EmbeddedImageRefs() []string
}

// Base is embedded by every ordered content row.
type Base struct {
	// ID is a uuid generated on insert, immutable afterwards.
	ID string `gorm:"primaryKey;size:36" json:"id"`
	// Order defines the presentation sequence, ascending and not unique.
	Order int `gorm:"column:sort_order;index;not null" json:"order"`
	// CreatedAt is set once on insert (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is refreshed on every mutation (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetID implements Entity.
func (b *Base) GetID() string {
	return b.ID
}

// BeforeCreate assigns the uuid unless the caller already did.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	return nil
}

// Item is a Base with the active visibility flag.
type Item struct {
	Base
	// Active governs whether public readers see the row. Admin readers always do.
	Active bool `gorm:"not null;index" json:"active"`
}

// ApplyDefaults implements Entity.
func (i *Item) ApplyDefaults() {
	i.Active = true
}

func nonEmpty(refs ...string) []string {
	out := make([]string, 0, len(refs))

	for _, r := range refs {
		if r != "" {
			out = append(out, r)
		}
	}

	return out
}
