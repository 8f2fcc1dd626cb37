package services

import (
	"encoding/json"
	"fmt"
	"time"

	"law_office_app_go/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    string
	IPAddress string
	UserAgent string
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	UserID    string
	Action    string
	TableName string
	RecordID  string
	DateFrom  time.Time
	DateTo    time.Time
}

// LogAuditEvent writes an audit log entry. It runs inside the request so the row
// exists once the response is sent; a failed write is logged and never surfaced.
func LogAuditEvent(
	db *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	tableName string,
	recordID string,
	oldValues interface{},
	newValues interface{},
) {
	auditLog := models.AuditLog{
		UserID:    ptrIfNotEmpty(ctx.UserID),
		Action:    action,
		Table:     tableName,
		RecordID:  ptrIfNotEmpty(recordID),
		OldValues: snapshot(oldValues),
		NewValues: snapshot(newValues),
		IPAddress: ctx.IPAddress,
		UserAgent: ctx.UserAgent,
	}

	if err := db.Create(&auditLog).Error; err != nil {
		zap.L().Error("failed to create audit log",
			zap.String("action", string(action)),
			zap.String("table", tableName),
			zap.String("record_id", recordID),
			zap.Error(err),
		)
		return
	}
	AuditEventsTotal.WithLabelValues(string(action)).Inc()
}

func snapshot(values interface{}) datatypes.JSON {
	if values == nil {
		return nil
	}
	bytes, err := json.Marshal(values)
	if err != nil {
		zap.L().Warn("failed to encode audit snapshot", zap.Error(err))
		return nil
	}
	return datatypes.JSON(bytes)
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetAuditLogs lists audit logs newest first, narrowed by filters
func GetAuditLogs(db *gorm.DB, filters AuditLogFilters) ([]models.AuditLog, error) {
	query := db.Model(&models.AuditLog{})

	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.TableName != "" {
		query = query.Where("table_name = ?", filters.TableName)
	}
	if filters.RecordID != "" {
		query = query.Where("record_id = ?", filters.RecordID)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom.UTC())
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo.UTC())
	}

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

// GetAuditLogsByUser lists the audit logs produced by one user
func GetAuditLogsByUser(db *gorm.DB, userID string) ([]models.AuditLog, error) {
	return GetAuditLogs(db, AuditLogFilters{UserID: userID})
}
