package services

import (
	"os"

	"law_office_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedAdminFromEnv creates the first admin from ADMIN_EMAIL and ADMIN_PASSWORD
// (plus optional ADMIN_USERNAME and ADMIN_NAME). It does nothing when the variables
// are unset, when an admin already exists, or when the email is taken.
func SeedAdminFromEnv(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrator"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("[SEED] admin user already exists, skipping seed")
		return nil
	}

	if err := ValidatePassword(password); err != nil {
		return err
	}

	user, err := RegisterUser(db, RegisterInput{
		Email:    email,
		Password: password,
		FullName: name,
		Username: username,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		zap.L().Warn("[SEED] admin seed skipped", zap.String("email", email), zap.Error(err))
		return nil
	}

	zap.L().Info("[SEED] created admin user", zap.String("email", user.Email), zap.String("id", user.ID))
	return nil
}
