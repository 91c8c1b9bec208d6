package models

// SessionRecord backs the session storage on sqlite.
// MySQL and Postgres use the gofiber storage drivers and their own table.
type SessionRecord struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte `gorm:"not null"`
	ExpiresAt int64  `gorm:"index;not null;default:0"` // unix seconds, 0 never expires
}
