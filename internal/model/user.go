package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin-surface account. Accounts normally arrive through
// Okta SSO; Password is only set for the break-glass local admin.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Email    string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Name     string    `json:"name"`
	OktaSub  *string   `gorm:"uniqueIndex" json:"-"`
	Password string    `json:"-"`

	IsAdmin   bool `json:"is_admin"`
	HasAccess bool `json:"has_access"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate is the closed set of admin-updatable user fields.
type UserUpdate struct {
	Name      *string `json:"name"`
	IsAdmin   *bool   `json:"is_admin"`
	HasAccess *bool   `json:"has_access"`
}
