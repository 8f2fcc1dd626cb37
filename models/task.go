package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task status constants
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

var ValidTaskStatuses = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled}

// Task is a unit of work assigned to a user, optionally tied to a case
type Task struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string     `gorm:"not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Status      string     `gorm:"not null;default:pending;index" json:"status"`
	Priority    string     `gorm:"not null;default:medium" json:"priority"`
	DueDate     *time.Time `gorm:"index" json:"dueDate"`

	CaseID *string `gorm:"type:uuid;index" json:"caseId"`
	Case   *Case   `gorm:"foreignKey:CaseID;constraint:OnDelete:SET NULL" json:"-"`

	AssignedToID string `gorm:"type:uuid;not null;index" json:"assignedToId"`
	AssignedTo   *User  `gorm:"foreignKey:AssignedToID;constraint:OnDelete:RESTRICT" json:"-"`

	CreatedBy string `gorm:"type:uuid;not null" json:"createdBy"`
	Creator   *User  `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT" json:"-"`

	// Set by the reminder job once the assignee has been notified
	ReminderSentAt *time.Time `json:"-"`
}

// BeforeCreate hook to generate UUID
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}

// IsValidTaskStatus checks if a status is valid
func IsValidTaskStatus(status string) bool {
	return contains(ValidTaskStatuses, status)
}

// IsOpen reports whether the task still needs work
func (t *Task) IsOpen() bool {
	return t.Status == TaskStatusPending || t.Status == TaskStatusInProgress
}
