package models_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/testutil"
)

func TestFeatureListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want models.FeatureList
	}{
		{"array", `["a","b"]`, models.FeatureList{"a", "b"}},
		{"json encoded string", `"[\"a\",\"b\"]"`, models.FeatureList{"a", "b"}},
		{"empty array", `[]`, models.FeatureList{}},
		{"null", `null`, models.FeatureList{}},
		{"broken string", `"[\"a\","`, models.FeatureList{}},
		{"plain string", `"not a list"`, models.FeatureList{}},
		{"number", `42`, models.FeatureList{}},
		{"mixed array", `["a", 1]`, models.FeatureList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var plan models.PricingPlan

			err := json.Unmarshal([]byte(`{"name":"x","features":`+tt.in+`}`), &plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Features)
		})
	}
}

func TestFeatureListMarshalNil(t *testing.T) {
	out, err := json.Marshal(models.PricingPlan{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"features":[]`)
}

func TestPricingPlanFeatureRows(t *testing.T) {
	db := testutil.NewDB(t)

	plan := models.PricingPlan{Name: "Wedding", Price: "$1200", Features: models.FeatureList{"8 hours", "2 shooters", "album"}}
	require.NoError(t, db.Omit(clause.Associations).Create(&plan).Error)

	var rows int64
	require.NoError(t, db.Model(&models.PlanFeature{}).Where("plan_id = ?", plan.ID).Count(&rows).Error)
	assert.EqualValues(t, 3, rows)

	var got models.PricingPlan
	require.NoError(t, db.Preload("FeatureRows").First(&got, "id = ?", plan.ID).Error)
	assert.Equal(t, models.FeatureList{"8 hours", "2 shooters", "album"}, got.Features)

	got.Features = models.FeatureList{"6 hours"}
	require.NoError(t, db.Omit(clause.Associations).Save(&got).Error)

	var again models.PricingPlan
	require.NoError(t, db.Preload("FeatureRows").First(&again, "id = ?", plan.ID).Error)
	assert.Equal(t, models.FeatureList{"6 hours"}, again.Features)

	require.NoError(t, db.Delete(&again).Error)
	require.NoError(t, db.Model(&models.PlanFeature{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestBlogPostSlug(t *testing.T) {
	db := testutil.NewDB(t)

	first := models.BlogPost{Title: "Golden Hour Tips", Content: "x"}
	require.NoError(t, db.Create(&first).Error)
	assert.Equal(t, "golden-hour-tips", first.Slug)
	assert.Nil(t, first.PublishedAt)

	second := models.BlogPost{Title: "Golden hour tips!", Content: "y", Published: true}
	require.NoError(t, db.Create(&second).Error)
	assert.Equal(t, "golden-hour-tips-2", second.Slug)
	require.NotNil(t, second.PublishedAt)

	stamped := *second.PublishedAt

	// saving the same row keeps its slug and first publication time
	second.Excerpt = "changed"
	require.NoError(t, db.Save(&second).Error)
	assert.Equal(t, "golden-hour-tips-2", second.Slug)
	assert.Equal(t, stamped, *second.PublishedAt)

	custom := models.BlogPost{Title: "Anything", Slug: "My Custom Slug", Content: "z"}
	require.NoError(t, db.Create(&custom).Error)
	assert.Equal(t, "my-custom-slug", custom.Slug)
}

func TestDefaults(t *testing.T) {
	var tm models.Testimonial
	tm.ApplyDefaults()
	assert.True(t, tm.Active)
	assert.Equal(t, models.DefaultRating, tm.Rating)

	post := models.BlogPost{Published: true}
	post.ApplyDefaults()
	assert.False(t, post.Published)

	var photo models.Photo
	photo.ApplyDefaults()
	assert.True(t, photo.Active)
}

func TestImageRefs(t *testing.T) {
	ba := models.BeforeAfterItem{BeforeImage: "/uploads/a.jpg", AfterImage: "/uploads/b.jpg"}
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, ba.ImageRefs())

	svc := models.Service{}
	assert.Empty(t, svc.ImageRefs())
}

func TestUserPassword(t *testing.T) {
	hash, err := models.HashPassword("s3cret")
	require.NoError(t, err)

	u := models.User{Username: "admin", Password: hash}
	assert.True(t, u.VerifyPassword("s3cret"))
	assert.False(t, u.VerifyPassword("wrong"))

	external := models.User{Username: "ldap-user"}
	assert.False(t, external.VerifyPassword(""))
}
