package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrAuditLogImmutable is returned by the gorm hooks on any update or delete
var ErrAuditLogImmutable = errors.New("audit logs are append-only")

// AuditAction names the event recorded by an audit log entry
type AuditAction string

const (
	AuditActionUserRegistered   AuditAction = "user_registered"
	AuditActionUserLogin        AuditAction = "user_login"
	AuditActionUserLogout       AuditAction = "user_logout"
	AuditActionUserUpdated      AuditAction = "user_updated"
	AuditActionClientCreated    AuditAction = "client_created"
	AuditActionClientUpdated    AuditAction = "client_updated"
	AuditActionClientDeleted    AuditAction = "client_deleted"
	AuditActionCaseCreated      AuditAction = "case_created"
	AuditActionCaseUpdated      AuditAction = "case_updated"
	AuditActionCaseDeleted      AuditAction = "case_deleted"
	AuditActionTaskCreated      AuditAction = "task_created"
	AuditActionTaskUpdated      AuditAction = "task_updated"
	AuditActionTaskDeleted      AuditAction = "task_deleted"
	AuditActionDocumentUploaded AuditAction = "document_uploaded"
	AuditActionDocumentUpdated  AuditAction = "document_updated"
	AuditActionDocumentDeleted  AuditAction = "document_deleted"
)

// AuditActions lists every known action, used to validate filters
var AuditActions = []AuditAction{
	AuditActionUserRegistered, AuditActionUserLogin, AuditActionUserLogout, AuditActionUserUpdated,
	AuditActionClientCreated, AuditActionClientUpdated, AuditActionClientDeleted,
	AuditActionCaseCreated, AuditActionCaseUpdated, AuditActionCaseDeleted,
	AuditActionTaskCreated, AuditActionTaskUpdated, AuditActionTaskDeleted,
	AuditActionDocumentUploaded, AuditActionDocumentUpdated, AuditActionDocumentDeleted,
}

// IsValid reports whether the action is one of AuditActions
func (a AuditAction) IsValid() bool {
	for _, known := range AuditActions {
		if a == known {
			return true
		}
	}
	return false
}

// AuditLog represents an immutable record of a data operation
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"createdAt"`

	// Actor
	UserID *string `gorm:"type:uuid;index:idx_audit_user" json:"userId"`

	// Operation and target
	Action   AuditAction `gorm:"not null;index:idx_audit_action" json:"action"`
	Table    string      `gorm:"column:table_name;not null;index:idx_audit_record" json:"tableName"`
	RecordID *string     `gorm:"index:idx_audit_record" json:"recordId"`

	// Snapshots before and after the change
	OldValues datatypes.JSON `json:"oldValues,omitempty"`
	NewValues datatypes.JSON `json:"newValues,omitempty"`

	// Request metadata
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
}

// AuditChange represents a single field change
type AuditChange struct {
	Field string      `json:"field"`
	Old   interface{} `json:"old"`
	New   interface{} `json:"new"`
}

// Changes diffs OldValues and NewValues field by field, sorted by field name
func (a *AuditLog) Changes() []AuditChange {
	oldMap := make(map[string]interface{})
	newMap := make(map[string]interface{})

	if len(a.OldValues) > 0 {
		_ = json.Unmarshal(a.OldValues, &oldMap)
	}
	if len(a.NewValues) > 0 {
		_ = json.Unmarshal(a.NewValues, &newMap)
	}

	keys := make(map[string]struct{})
	for k := range oldMap {
		keys[k] = struct{}{}
	}
	for k := range newMap {
		keys[k] = struct{}{}
	}

	var changes []AuditChange
	for k := range keys {
		o, n := oldMap[k], newMap[k]
		if !reflect.DeepEqual(o, n) {
			changes = append(changes, AuditChange{Field: k, Old: o, New: n})
		}
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Field < changes[j].Field })
	return changes
}

// BeforeCreate generates the UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of audit logs (immutability)
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}

// BeforeDelete prevents deletion of audit logs (immutability)
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditLogImmutable
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}
