package services

import (
	"testing"
	"time"

	"law_office_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	lawyer := createTestUser(t, db, "lex", models.RoleLawyer)
	now := time.Now().UTC()

	empty, err := GetDashboardStats(db, now)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{}, *empty)

	fresh := createTestClient(t, db, "Fresh", lawyer.ID)
	old := createTestClient(t, db, "Old", lawyer.ID)
	require.NoError(t, db.Model(&models.Client{}).Where("id = ?", old.ID).UpdateColumn("created_at", now.Add(-8*24*time.Hour)).Error)

	createTestCase(t, db, "Active", fresh.ID, lawyer.ID)
	closed := createTestCase(t, db, "Closed", fresh.ID, lawyer.ID)
	_, err = UpdateCase(db, closed.ID, map[string]interface{}{"status": models.CaseStatusClosed})
	require.NoError(t, err)

	_, err = CreateTask(db, &models.Task{Title: "p", Status: models.TaskStatusPending, AssignedToID: lawyer.ID, CreatedBy: lawyer.ID})
	require.NoError(t, err)
	_, err = CreateTask(db, &models.Task{Title: "i", Status: models.TaskStatusInProgress, AssignedToID: lawyer.ID, CreatedBy: lawyer.ID})
	require.NoError(t, err)

	recent, err := CreateDocument(db, &models.Document{Title: "r", Filename: "r.pdf", FileSize: 1, MimeType: "application/pdf", FilePath: "documents/r.pdf", DocumentType: models.DocumentTypeOther, UploadedBy: lawyer.ID})
	require.NoError(t, err)
	stale, err := CreateDocument(db, &models.Document{Title: "s", Filename: "s.pdf", FileSize: 1, MimeType: "application/pdf", FilePath: "documents/s.pdf", DocumentType: models.DocumentTypeOther, UploadedBy: lawyer.ID})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Document{}).Where("id = ?", stale.ID).UpdateColumn("created_at", now.Add(-25*time.Hour)).Error)
	assert.NotEmpty(t, recent.ID)

	stats, err := GetDashboardStats(db, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ActiveCases)
	assert.Equal(t, int64(1), stats.NewClients)
	assert.Equal(t, int64(1), stats.PendingTasks)
	assert.Equal(t, int64(1), stats.RecentDocuments)
}
