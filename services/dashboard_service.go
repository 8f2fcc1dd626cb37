package services

import (
	"fmt"
	"time"

	"law_office_app_go/models"

	"gorm.io/gorm"
)

const (
	// NewClientWindow is how far back a client still counts as new
	NewClientWindow = 7 * 24 * time.Hour
	// RecentDocumentWindow is how far back a document still counts as recent
	RecentDocumentWindow = 24 * time.Hour
)

// DashboardStats is the summary shown on the dashboard
type DashboardStats struct {
	ActiveCases     int64 `json:"activeCases"`
	NewClients      int64 `json:"newClients"`
	PendingTasks    int64 `json:"pendingTasks"`
	RecentDocuments int64 `json:"recentDocuments"`
}

// GetDashboardStats runs the four counts relative to now
func GetDashboardStats(db *gorm.DB, now time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	now = now.UTC()

	if err := db.Model(&models.Case{}).Where("status = ?", models.CaseStatusActive).Count(&stats.ActiveCases).Error; err != nil {
		return nil, fmt.Errorf("failed to count active cases: %w", err)
	}
	if err := db.Model(&models.Client{}).Where("created_at >= ?", now.Add(-NewClientWindow)).Count(&stats.NewClients).Error; err != nil {
		return nil, fmt.Errorf("failed to count new clients: %w", err)
	}
	if err := db.Model(&models.Task{}).Where("status = ?", models.TaskStatusPending).Count(&stats.PendingTasks).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}
	if err := db.Model(&models.Document{}).Where("created_at >= ?", now.Add(-RecentDocumentWindow)).Count(&stats.RecentDocuments).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent documents: %w", err)
	}

	return &stats, nil
}
