package services

import (
	"errors"
	"fmt"

	"law_office_app_go/models"

	"gorm.io/gorm"
)

// GetUser returns the user with the given id
func GetUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return &user, nil
}

// GetUserByEmail returns the user owning the email address
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return &user, nil
}

// GetUserByUsername returns the user owning the username
func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return &user, nil
}

// GetUsers lists every user, newest first
func GetUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser inserts a user whose password is already hashed
func CreateUser(db *gorm.DB, user *models.User) (*models.User, error) {
	if err := db.Create(user).Error; err != nil {
		return nil, translateError(err, "user")
	}
	return user, nil
}

// UpdateUser applies a partial update and returns the stored row
func UpdateUser(db *gorm.DB, id string, updates map[string]interface{}) (*models.User, error) {
	return updateRecord[models.User](db, id, updates, "user")
}

// updateRecord patches the columns in updates and re-reads the row.
// gorm bumps updated_at for models that carry one.
func updateRecord[T any](db *gorm.DB, id string, updates map[string]interface{}, entity string) (*T, error) {
	var record T
	if err := db.Where("id = ?", id).First(&record).Error; err != nil {
		return nil, translateError(err, entity)
	}
	if len(updates) > 0 {
		if err := db.Model(&record).Updates(updates).Error; err != nil {
			return nil, translateError(err, entity)
		}
	}

	var updated T
	if err := db.Where("id = ?", id).First(&updated).Error; err != nil {
		return nil, translateError(err, entity)
	}
	return &updated, nil
}

// deleteRecord hard-deletes by id, ErrNotFound when nothing matched
func deleteRecord[T any](db *gorm.DB, id string, entity string) error {
	var record T
	result := db.Where("id = ?", id).Delete(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%s %w", entity, ErrConflict)
		}
		return translateError(result.Error, entity)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return nil
}

// translateError maps gorm errors onto the service sentinels
func translateError(err error, entity string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %w", entity, ErrDuplicate)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", entity, ErrInvalidReference)
	default:
		return fmt.Errorf("%s query failed: %w", entity, err)
	}
}
