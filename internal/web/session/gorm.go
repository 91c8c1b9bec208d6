package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/folio-cms/folio/internal/db/models"
)

// GormStorage keeps sessions in the session_records table.
type GormStorage struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStorage returns a Storage on top of db.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db, now: time.Now}
}

// Get returns the value for key or nil when it is absent or expired.
func (s *GormStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var rec models.SessionRecord

	err := s.db.Where(keyIs(key)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if rec.ExpiresAt != 0 && rec.ExpiresAt <= s.now().Unix() {
		return nil, nil
	}

	return rec.Value, nil
}

// Set stores val under key. exp 0 keeps the entry until it is deleted.
func (s *GormStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	rec := models.SessionRecord{Key: key, Value: val}
	if exp > 0 {
		rec.ExpiresAt = s.now().Add(exp).Unix()
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&rec).Error
}

// Delete removes key.
func (s *GormStorage) Delete(key string) error {
	if key == "" {
		return nil
	}

	return s.db.Where(keyIs(key)).Delete(&models.SessionRecord{}).Error
}

// Reset removes every session.
func (s *GormStorage) Reset() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SessionRecord{}).Error
}

// Close is a no-op, the database handle is owned by the caller.
func (s *GormStorage) Close() error {
	return nil
}

// GC deletes expired entries and returns how many were removed.
func (s *GormStorage) GC(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at <> 0 AND expires_at <= ?", s.now().Unix()).
		Delete(&models.SessionRecord{})

	return res.RowsAffected, res.Error //nolint:wrapcheck
}

func keyIs(key string) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}
