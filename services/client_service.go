package services

import (
	"fmt"
	"strings"

	database "law_office_app_go/db"
	"law_office_app_go/models"

	"gorm.io/gorm"
)

// GetClient returns the client with the given id
func GetClient(db *gorm.DB, id string) (*models.Client, error) {
	var client models.Client
	if err := db.Where("id = ?", id).First(&client).Error; err != nil {
		return nil, translateError(err, "client")
	}
	return &client, nil
}

// GetClients lists every client, newest first
func GetClients(db *gorm.DB) ([]models.Client, error) {
	var clients []models.Client
	if err := db.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// SearchClients matches the query against name, email and phone, case-insensitively
func SearchClients(db *gorm.DB, query string) ([]models.Client, error) {
	pattern := likePattern(query)
	var clients []models.Client
	err := db.Where(likeClause(db, "name", "email", "phone"), pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

// CreateClient inserts a client
func CreateClient(db *gorm.DB, client *models.Client) (*models.Client, error) {
	if err := db.Create(client).Error; err != nil {
		return nil, translateError(err, "client")
	}
	return client, nil
}

// UpdateClient applies a partial update and returns the stored row
func UpdateClient(db *gorm.DB, id string, updates map[string]interface{}) (*models.Client, error) {
	return updateRecord[models.Client](db, id, updates, "client")
}

// DeleteClient removes a client. Clients that still own cases are kept (ErrConflict);
// documents linked to the client are detached.
func DeleteClient(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var cases int64
		if err := tx.Model(&models.Case{}).Where("client_id = ?", id).Count(&cases).Error; err != nil {
			return fmt.Errorf("failed to count client cases: %w", err)
		}
		if cases > 0 {
			return fmt.Errorf("client has %d cases: %w", cases, ErrConflict)
		}

		if err := tx.Model(&models.Document{}).Where("client_id = ?", id).Update("client_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach client documents: %w", err)
		}
		return deleteRecord[models.Client](tx, id, "client")
	})
}

// likeClause OR-combines a case-insensitive LIKE over each column.
// Both sides are folded by the database so non-ASCII letters compare alike.
func likeClause(tx *gorm.DB, columns ...string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		if tx.Dialector.Name() == "postgres" {
			parts[i] = col + ` ILIKE ? ESCAPE '\'`
			continue
		}
		parts[i] = database.LowerExpr(tx, col) + " LIKE " + database.LowerExpr(tx, "?") + ` ESCAPE '\'`
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// likePattern builds a substring pattern with LIKE wildcards escaped
func likePattern(query string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + replacer.Replace(query) + "%"
}
