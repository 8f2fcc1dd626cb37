package handlers

import (
	"net/http"
	"strings"

	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// uploadBodyLimit leaves room for multipart framing around a maximum size file
const uploadBodyLimit = "11M"

// NewServer builds the echo instance with the middleware chain and every route
func NewServer(cfg *config.Config, sessions *services.SessionManager, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = HTTPErrorHandler(log)
	e.Validator = NewValidator()

	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.CORSWithConfig(corsConfig(cfg)))
	e.Use(echomiddleware.BodyLimit(uploadBodyLimit))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})
	e.Use(middleware.SessionManager(sessions))

	RegisterRoutes(e)
	return e
}

// RegisterRoutes mounts the API under /api plus health and metrics endpoints
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", HealthHandler)
	e.GET("/metrics", echo.WrapHandler(services.MetricsHandler()))

	api := e.Group("/api")

	// Public routes (no authentication required)
	loginLimiter := middleware.NewLoginRateLimiter()
	registerLimiter := middleware.NewRegisterRateLimiter()
	api.POST("/register", RegisterHandler, registerLimiter.Middleware())
	api.POST("/login", LoginHandler, loginLimiter.Middleware())
	api.POST("/logout", LogoutHandler)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.AuditContext())
	{
		protected.GET("/user", CurrentUserHandler)

		protected.GET("/clients", GetClientsHandler)
		protected.POST("/clients", CreateClientHandler)
		protected.GET("/clients/:id", GetClientHandler)
		protected.PUT("/clients/:id", UpdateClientHandler)
		protected.DELETE("/clients/:id", DeleteClientHandler)

		protected.GET("/cases", GetCasesHandler)
		protected.GET("/cases/export", ExportCasesHandler)
		protected.POST("/cases", CreateCaseHandler)
		protected.GET("/cases/:id", GetCaseHandler)
		protected.PUT("/cases/:id", UpdateCaseHandler)
		protected.DELETE("/cases/:id", DeleteCaseHandler)

		protected.GET("/tasks", GetTasksHandler)
		protected.POST("/tasks", CreateTaskHandler)
		protected.GET("/tasks/:id", GetTaskHandler)
		protected.PUT("/tasks/:id", UpdateTaskHandler)
		protected.DELETE("/tasks/:id", DeleteTaskHandler)

		protected.GET("/documents", GetDocumentsHandler)
		protected.POST("/documents/upload", UploadDocumentHandler)
		protected.GET("/documents/:id", GetDocumentHandler)
		protected.PUT("/documents/:id", UpdateDocumentHandler)
		protected.GET("/documents/:id/download", DownloadDocumentHandler)
		protected.DELETE("/documents/:id", DeleteDocumentHandler)

		protected.GET("/dashboard/stats", DashboardStatsHandler)

		// Admin-only routes
		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", GetUsersHandler)
			admin.PUT("/users/:id", UpdateUserHandler)
			admin.GET("/users/:id/audit-logs", GetUserAuditLogsHandler)
			admin.GET("/audit-logs", GetAuditLogsHandler)
			admin.GET("/audit-logs/export", ExportAuditLogsHandler)
			admin.GET("/security/alerts", SecurityAlertsHandler)
		}
	}
}

// HealthHandler reports whether the database answers
func HealthHandler(c echo.Context) error {
	sqlDB, err := db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		zap.L().Error("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func corsConfig(cfg *config.Config) echomiddleware.CORSConfig {
	origins := []string{"*"}
	if cfg != nil && len(cfg.AllowedOrigins) > 0 {
		origins = nil
		for _, o := range cfg.AllowedOrigins {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return echomiddleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: len(origins) > 0 && origins[0] != "*",
	}
}
