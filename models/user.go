package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin     = "admin"
	RoleLawyer    = "lawyer"
	RoleSecretary = "secretary"
)

// ValidRoles lists every role a user may hold
var ValidRoles = []string{RoleAdmin, RoleLawyer, RoleSecretary}

type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // scrypt hash "<hex key>.<hex salt>"
	FullName string `gorm:"not null" json:"fullName"`
	Role     string `gorm:"not null;default:secretary;index" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// IsAdmin checks if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsValidRole checks membership in ValidRoles
func IsValidRole(role string) bool {
	return contains(ValidRoles, role)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
