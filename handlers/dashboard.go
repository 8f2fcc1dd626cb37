package handlers

import (
	"net/http"
	"time"

	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardStatsHandler returns the four dashboard counters
func DashboardStatsHandler(c echo.Context) error {
	stats, err := services.GetDashboardStats(requestDB(c), time.Now())
	if err != nil {
		return serviceError(err, "Dashboard")
	}
	return c.JSON(http.StatusOK, stats)
}
