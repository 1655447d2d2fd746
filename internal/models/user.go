package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// User is the local identity record. One row per external provider id;
// Role is derived from the admin allowlist at every login and is never
// editable through the API.
type User struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	ExternalID string   `json:"external_id" gorm:"uniqueIndex;not null;size:255"`
	FullName   string   `json:"full_name" gorm:"size:100"`
	Email      string   `json:"email" gorm:"not null;size:255;index"`
	Role       UserRole `json:"role" gorm:"not null;default:student;size:20"`

	// Profile info
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
