// Package setting implements the settings override store, a flat key to string mapping.
// Rows are created lazily on first save and never deleted. A missing key means the
// caller uses its compiled-in default.
package setting

import (
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/folio-cms/folio/internal/db/models"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to store a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its key.
func Get(db *gorm.DB, key string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var s models.Setting

	result := db.Where(&models.Setting{Key: key}).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &s, nil
}

// GetAll returns every stored setting ordered by key.
func GetAll(db *gorm.DB) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	settings := make([]models.Setting, 0)

	if err := db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

// Map returns every stored setting as key to value.
func Map(db *gorm.DB) (map[string]string, error) {
	settings, err := GetAll(db)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}

	return out, nil
}

// Set inserts the key or overwrites its value in one statement.
func Set(db *gorm.DB, key, value string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	s := models.Setting{Key: key, Value: value}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s)
	if result.Error != nil {
		return nil, result.Error
	}

	return Get(db, key)
}

// SetMany upserts every key on its own, in key order. It is not transactional:
// on failure the keys written before stay written and the rest are skipped.
// The number of keys written is returned in both cases.
func SetMany(db *gorm.DB, values map[string]string) (int, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for i, k := range keys {
		if _, err := Set(db, k, values[k]); err != nil {
			return i, err
		}
	}

	return len(keys), nil
}
