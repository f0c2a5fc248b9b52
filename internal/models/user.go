package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is a postal address embedded in the user record.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// User represents a marketplace account.
type User struct {
	ID              string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string         `json:"name" gorm:"type:varchar(100)"`
	Email           string         `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password        string         `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Role            string         `json:"role" gorm:"type:varchar(16);default:user"`
	Phone           string         `json:"phone" gorm:"type:varchar(32)"`
	Address         Address        `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	IsActive        bool           `json:"isActive" gorm:"default:true"`
	IsEmailVerified bool           `json:"isEmailVerified" gorm:"default:false"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeSave normalizes the email so the unique index is effectively
// case-insensitive.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
