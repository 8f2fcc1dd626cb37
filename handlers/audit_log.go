package handlers

import (
	"fmt"
	"net/http"
	"time"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
)

// auditFilters reads ?userId=&action=&tableName=&from=&to=
func auditFilters(c echo.Context) (services.AuditLogFilters, error) {
	filters := services.AuditLogFilters{
		UserID:    c.QueryParam("userId"),
		Action:    c.QueryParam("action"),
		TableName: c.QueryParam("tableName"),
		RecordID:  c.QueryParam("recordId"),
	}
	if filters.RecordID != "" && filters.TableName == "" {
		return filters, &ValidationError{Fields: []FieldError{{Field: "tableName", Message: "is required with recordId"}}}
	}
	if filters.Action != "" && !models.AuditAction(filters.Action).IsValid() {
		return filters, &ValidationError{Fields: []FieldError{{Field: "action", Message: "is not a known audit action"}}}
	}

	from, err := parseDate("from", c.QueryParam("from"))
	if err != nil {
		return filters, err
	}
	if from != nil {
		filters.DateFrom = *from
	}

	to, err := parseDate("to", c.QueryParam("to"))
	if err != nil {
		return filters, err
	}
	if to != nil {
		// a bare date includes the whole day
		if len(c.QueryParam("to")) == len("2006-01-02") {
			*to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filters.DateTo = *to
	}
	return filters, nil
}

// GetAuditLogsHandler lists audit entries newest first
func GetAuditLogsHandler(c echo.Context) error {
	filters, err := auditFilters(c)
	if err != nil {
		return err
	}

	logs, err := services.GetAuditLogs(requestDB(c), filters)
	if err != nil {
		return serviceError(err, "Audit log")
	}
	return c.JSON(http.StatusOK, logs)
}

// GetUserAuditLogsHandler lists everything one user did, newest first
func GetUserAuditLogsHandler(c echo.Context) error {
	user, err := services.GetUser(requestDB(c), c.Param("id"))
	if err != nil {
		return serviceError(err, "User")
	}

	logs, err := services.GetAuditLogsByUser(requestDB(c), user.ID)
	if err != nil {
		return serviceError(err, "Audit log")
	}
	return c.JSON(http.StatusOK, logs)
}

// SecurityAlertsHandler lists the failed-login alerts raised since startup
func SecurityAlertsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, SecurityMonitor.RecentAlerts())
}

// ExportAuditLogsHandler downloads the filtered audit entries as a workbook
func ExportAuditLogsHandler(c echo.Context) error {
	filters, err := auditFilters(c)
	if err != nil {
		return err
	}

	logs, err := services.GetAuditLogs(requestDB(c), filters)
	if err != nil {
		return serviceError(err, "Audit log")
	}

	buf, err := services.ExportAuditLogsXLSX(logs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export audit logs").SetInternal(err)
	}

	filename := services.ExportFilename("audit_logs", time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}
