package models

import (
	"time"
)

// Session maps an opaque token to a principal id. The table is auto-migrated
// so the store works on a fresh database; rows past ExpiresAt are treated as
// absent. Persisting sessions outside process memory is what lets the service
// be restarted or horizontally scaled without logging everyone out.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
