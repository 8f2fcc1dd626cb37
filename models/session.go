package models

import (
	"time"
)

// Session is a server-side login session. ID is a digest of the cookie token,
// so the raw token never reaches storage.
type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(64)" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ipAddress"`
	UserAgent string    `gorm:"type:text" json:"userAgent"`
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
