package models

import (
	"sort"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// FeatureList is the feature bullet list of a pricing plan.
// It decodes from a JSON array or from a string holding a JSON array.
// Anything else decodes to an empty list.
type FeatureList []string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FeatureList) UnmarshalJSON(b []byte) error {
	var (
		list []string
		s    string
	)

	*f = FeatureList{}

	if err := json.Unmarshal(b, &list); err == nil {
		if list != nil {
			*f = list
		}

		return nil
	}

	if err := json.Unmarshal(b, &s); err != nil {
		return nil //nolint:nilerr // invalid input is an empty list
	}

	if err := json.Unmarshal([]byte(s), &list); err == nil && list != nil {
		*f = list
	}

	return nil
}

// MarshalJSON implements json.Marshaler, nil encodes as [].
func (f FeatureList) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]string(f)) //nolint:wrapcheck
}

// PlanFeature is one row of a plan's feature list.
type PlanFeature struct {
	ID       uint64 `gorm:"primaryKey"`
	PlanID   string `gorm:"size:36;not null;index"`
	Position int    `gorm:"not null"`
	Text     string `gorm:"size:512;not null"`
}

// PricingPlan is a priced package.
type PricingPlan struct {
	Item
	Name        string      `gorm:"size:255;not null" json:"name" validate:"required"`
	Price       string      `gorm:"size:100;not null" json:"price" validate:"required"`
	Period      string      `gorm:"size:100" json:"period"`
	Description string      `gorm:"type:text" json:"description"`
	Features    FeatureList `gorm:"-" json:"features"`
	Popular     bool        `gorm:"not null" json:"popular"`
	ButtonText  string      `gorm:"size:100" json:"buttonText"`

	FeatureRows []PlanFeature `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"-"`
}

// AfterSave replaces the stored feature rows with Features.
func (p *PricingPlan) AfterSave(tx *gorm.DB) error {
	if err := tx.Where("plan_id = ?", p.ID).Delete(&PlanFeature{}).Error; err != nil {
		return err
	}

	p.FeatureRows = make([]PlanFeature, 0, len(p.Features))
	for i, text := range p.Features {
		p.FeatureRows = append(p.FeatureRows, PlanFeature{PlanID: p.ID, Position: i, Text: text})
	}

	if len(p.FeatureRows) == 0 {
		return nil
	}

	return tx.Create(&p.FeatureRows).Error
}

// AfterFind fills Features from the preloaded feature rows.
func (p *PricingPlan) AfterFind(_ *gorm.DB) error {
	sort.SliceStable(p.FeatureRows, func(i, j int) bool {
		return p.FeatureRows[i].Position < p.FeatureRows[j].Position
	})

	p.Features = make(FeatureList, 0, len(p.FeatureRows))
	for _, row := range p.FeatureRows {
		p.Features = append(p.Features, row.Text)
	}

	return nil
}

// BeforeDelete removes the feature rows, sqlite does not enforce the cascade by default.
func (p *PricingPlan) BeforeDelete(tx *gorm.DB) error {
	if p.ID == "" {
		return nil
	}

	return tx.Where("plan_id = ?", p.ID).Delete(&PlanFeature{}).Error
}
