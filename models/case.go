package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusActive   = "active"
	CaseStatusPending  = "pending"
	CaseStatusClosed   = "closed"
	CaseStatusArchived = "archived"
)

// Priority constants shared by cases and tasks
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var (
	ValidCaseStatuses = []string{CaseStatusActive, CaseStatusPending, CaseStatusClosed, CaseStatusArchived}
	ValidPriorities   = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

// Case represents a legal case handled by one lawyer for one client.
// Status is a flat enumeration: any status may be replaced by any other.
type Case struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CaseNumber    string  `gorm:"not null;uniqueIndex" json:"caseNumber"`
	Title         string  `gorm:"not null" json:"title"`
	Description   *string `gorm:"type:text" json:"description"`
	Status        string  `gorm:"not null;default:active;index" json:"status"`
	Priority      string  `gorm:"not null;default:medium" json:"priority"`
	CaseType      string  `gorm:"not null" json:"caseType"`
	Court         *string `json:"court"`
	Judge         *string `json:"judge"`
	OpposingParty *string `json:"opposingParty"`

	ClientID string  `gorm:"type:uuid;not null;index" json:"clientId"`
	Client   *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"-"`

	AssignedLawyerID string `gorm:"type:uuid;not null;index" json:"assignedLawyerId"`
	AssignedLawyer   *User  `gorm:"foreignKey:AssignedLawyerID;constraint:OnDelete:RESTRICT" json:"-"`

	CreatedBy string `gorm:"type:uuid;not null" json:"createdBy"`
	Creator   *User  `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"-"`
}

// BeforeCreate hook to generate UUID
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// IsValidCaseStatus checks if a status is valid
func IsValidCaseStatus(status string) bool {
	return contains(ValidCaseStatuses, status)
}

// IsValidPriority checks if a priority is valid
func IsValidPriority(priority string) bool {
	return contains(ValidPriorities, priority)
}
