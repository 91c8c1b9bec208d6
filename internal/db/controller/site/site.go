// Package site maps the known display settings onto a typed struct persisted
// through the settings override store.
package site

import (
	"reflect"

	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/db/controller/setting"
)

const tagName = "setting"

// Settings are the display texts of the public site.
// Every field is stored under the key of its setting tag.
type Settings struct {
	SiteName    string `json:"siteName"    setting:"site_name"`
	SiteTagline string `json:"siteTagline" setting:"site_tagline"`

	HeroTitle    string `json:"heroTitle"    setting:"hero_title"`
	HeroSubtitle string `json:"heroSubtitle" setting:"hero_subtitle"`
	HeroCTAText  string `json:"heroCtaText"  setting:"hero_cta_text"`
	HeroCTALink  string `json:"heroCtaLink"  setting:"hero_cta_link"`
	HeroImage    string `json:"heroImage"    setting:"hero_image"`

	AboutTitle string `json:"aboutTitle" setting:"about_title"`
	AboutText  string `json:"aboutText"  setting:"about_text"`
	AboutImage string `json:"aboutImage" setting:"about_image"`

	ContactEmail   string `json:"contactEmail"   setting:"contact_email"`
	ContactPhone   string `json:"contactPhone"   setting:"contact_phone"`
	ContactAddress string `json:"contactAddress" setting:"contact_address"`

	SocialInstagram string `json:"socialInstagram" setting:"social_instagram"`
	SocialFacebook  string `json:"socialFacebook"  setting:"social_facebook"`
	SocialPinterest string `json:"socialPinterest" setting:"social_pinterest"`
	SocialYouTube   string `json:"socialYoutube"   setting:"social_youtube"`

	StatsYears   string `json:"statsYears"   setting:"stats_years"`
	StatsClients string `json:"statsClients" setting:"stats_clients"`
	StatsPhotos  string `json:"statsPhotos"  setting:"stats_photos"`
	StatsAwards  string `json:"statsAwards"  setting:"stats_awards"`

	FooterText string `json:"footerText" setting:"footer_text"`
}

// Defaults returns the compiled-in values shown until an override is saved.
func Defaults() Settings {
	return Settings{
		SiteName:     "Folio",
		SiteTagline:  "Photography",
		HeroTitle:    "Capturing moments that last",
		HeroSubtitle: "Wedding, portrait and event photography",
		HeroCTAText:  "View portfolio",
		HeroCTALink:  "#gallery",
		AboutTitle:   "About me",
		AboutText:    "I tell stories with light.",
		ContactEmail: "hello@example.com",
		StatsYears:   "10+",
		StatsClients: "500+",
		StatsPhotos:  "50k+",
		StatsAwards:  "15",
		FooterText:   "All rights reserved.",
	}
}

// Keys returns the store keys of all fields in declaration order.
func Keys() []string {
	t := reflect.TypeOf(Settings{})
	keys := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get(tagName); key != "" {
			keys = append(keys, key)
		}
	}

	return keys
}

// Merge overlays the values of m. Absent keys and empty values keep the current value.
func (s *Settings) Merge(m map[string]string) {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get(tagName)
		if key == "" {
			continue
		}

		if value, ok := m[key]; ok && value != "" {
			v.Field(i).SetString(value)
		}
	}
}

// Map returns the fields as store key to value.
func (s *Settings) Map() map[string]string {
	v := reflect.ValueOf(s).Elem()
	t := v.Type()
	out := make(map[string]string, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get(tagName); key != "" {
			out[key] = v.Field(i).String()
		}
	}

	return out
}

// Load returns the defaults merged with the stored overrides.
func Load(db *gorm.DB) (Settings, error) {
	s := Defaults()

	stored, err := setting.Map(db)
	if err != nil {
		return s, err
	}

	s.Merge(stored)

	return s, nil
}

// Save persists the fields that differ from Defaults, plus the ones already
// stored so an override can be set back to its default value. Fields left at
// their default stay unstored and follow later changes of Defaults.
// Like setting.SetMany it is not transactional.
func (s *Settings) Save(db *gorm.DB) error {
	stored, err := setting.Map(db)
	if err != nil {
		return err
	}

	defaults := Defaults()
	base := defaults.Map()
	changed := make(map[string]string)

	for key, value := range s.Map() {
		_, isStored := stored[key]
		if isStored || value != base[key] {
			changed[key] = value
		}
	}

	if len(changed) == 0 {
		return nil
	}

	_, err = setting.SetMany(db, changed)

	return err
}
