package models

// All returns one value of every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Photo{},
		&Service{},
		&WorkStep{},
		&BeforeAfterItem{},
		&PricingPlan{},
		&PlanFeature{},
		&Testimonial{},
		&InstagramPost{},
		&BlogPost{},
		&ContactMessage{},
		&Setting{},
		&User{},
		&SessionRecord{},
	}
}
