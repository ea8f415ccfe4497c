package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles, ordered by privilege. Admin bypasses ownership checks.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

type User struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username      string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email         string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password      string     `gorm:"column:password_hash;not null" json:"-"` // Not shown in JSON
	FirstName     string     `gorm:"size:50" json:"first_name,omitempty"`
	LastName      string     `gorm:"size:50" json:"last_name,omitempty"`
	Role          string     `gorm:"size:20;default:'user';not null" json:"role"`
	IsActive      bool       `gorm:"default:true;not null" json:"is_active"`
	EmailVerified bool       `gorm:"default:false;not null" json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// FullName joins first and last name, skipping empty parts.
func (user *User) FullName() string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func (User) TableName() string {
	return "users"
}
