package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

const (
	UserActive  = "ACTIVE"
	UserPending = "PENDING"
)

type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FullName    string         `gorm:"size:255" json:"full_name"`
	Email       string         `gorm:"uniqueIndex;size:150" json:"email"`
	Password    string         `gorm:"size:255" json:"-"` // bcrypt hash, never returned in JSON
	Role        string         `gorm:"size:32;default:STAFF" json:"role"`
	Status      string         `gorm:"size:32;default:PENDING" json:"status"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}
