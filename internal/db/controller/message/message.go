// Package message stores the submissions of the public contact form.
package message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/folio-cms/folio/internal/db/models"
	"github.com/folio-cms/folio/internal/validation"
)

var (
	// ErrNotFound is returned when no message has the given id.
	ErrNotFound = errors.New("message not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Input is what the contact form submits.
type Input struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

// Flags changes the read and replied flags. Nil keeps the stored value.
type Flags struct {
	Read    *bool `json:"read"`
	Replied *bool `json:"replied"`
}

// Create validates and stores a new unread message.
func Create(ctx context.Context, db *gorm.DB, in Input) (*models.ContactMessage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	msg := models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: in.Message,
	}

	if err := db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	return &msg, nil
}

// List returns every message, newest first.
func List(ctx context.Context, db *gorm.DB) ([]models.ContactMessage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	out := make([]models.ContactMessage, 0)

	err := db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return out, nil
}

// CountUnread returns the number of messages not marked read.
func CountUnread(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	err := db.WithContext(ctx).Model(&models.ContactMessage{}).Where(clause.Eq{Column: clause.Column{Name: "read"}, Value: false}).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return n, nil
}

// Count returns the number of messages.
func Count(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	if err := db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}

	return n, nil
}

// SetFlags updates the read and replied flags of message id.
func SetFlags(ctx context.Context, db *gorm.DB, id string, f Flags) (*models.ContactMessage, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var msg models.ContactMessage

	if err := db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get message: %w", err)
	}

	updates := map[string]interface{}{}
	if f.Read != nil {
		updates["read"] = *f.Read
	}

	if f.Replied != nil {
		updates["replied"] = *f.Replied
	}

	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(&msg).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update message: %w", err)
		}

		if err := db.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
			return nil, fmt.Errorf("reload message: %w", err)
		}
	}

	return &msg, nil
}

// Delete removes message id. Unknown ids succeed.
func Delete(ctx context.Context, db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	if err := db.WithContext(ctx).Delete(&models.ContactMessage{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	return nil
}
