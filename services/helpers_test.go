package services

import (
	"testing"

	database "law_office_app_go/db"
	"law_office_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared-cache name keeps tests isolated while every pooled connection sees one database
	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(database.OpenSQLite(dsn), database.GormConfig(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func stringPtr(s string) *string {
	return &s
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	user, err := CreateUser(db, &models.User{
		Username: username,
		Email:    username + "@office.test",
		Password: hash,
		FullName: username,
		Role:     role,
		IsActive: true,
	})
	require.NoError(t, err)
	return user
}

func createTestClient(t *testing.T, db *gorm.DB, name string, createdBy string) *models.Client {
	client, err := CreateClient(db, &models.Client{Name: name, CreatedBy: createdBy})
	require.NoError(t, err)
	return client
}

func createTestCase(t *testing.T, db *gorm.DB, title, clientID, lawyerID string) *models.Case {
	c, err := CreateCase(db, &models.Case{
		Title:            title,
		Status:           models.CaseStatusActive,
		Priority:         models.PriorityMedium,
		CaseType:         "civil",
		ClientID:         clientID,
		AssignedLawyerID: lawyerID,
		CreatedBy:        lawyerID,
	})
	require.NoError(t, err)
	return c
}
