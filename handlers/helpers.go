package handlers

import (
	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// requestDB scopes the global handle to the request context
func requestDB(c echo.Context) *gorm.DB {
	return db.DB.WithContext(c.Request().Context())
}

// getConfig returns the config installed on the context, nil when absent
func getConfig(c echo.Context) *config.Config {
	cfg, _ := c.Get("config").(*config.Config)
	return cfg
}

// audit writes one audit row for the current actor
func audit(c echo.Context, action models.AuditAction, table, recordID string, oldValues, newValues interface{}) {
	services.LogAuditEvent(requestDB(c), middleware.GetAuditContext(c), action, table, recordID, oldValues, newValues)
}

// currentUserID is the id of the authenticated user; routes guarantee one exists
func currentUserID(c echo.Context) string {
	if user := middleware.GetCurrentUser(c); user != nil {
		return user.ID
	}
	return ""
}
