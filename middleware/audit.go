package middleware

import (
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext records who is acting and from where, for the audit rows written by handlers.
// It must run after RequireAuth to pick up the user.
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyAuditContext, buildAuditContext(c, ""))
			return next(c)
		}
	}
}

// GetAuditContext retrieves the audit context, building one from the request when
// the middleware did not run
func GetAuditContext(c echo.Context) services.AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ctx
	}
	return buildAuditContext(c, "")
}

// AuditContextFor builds an audit context for an explicit actor, used by the
// public auth endpoints where no session exists yet
func AuditContextFor(c echo.Context, userID string) services.AuditContext {
	return buildAuditContext(c, userID)
}

func buildAuditContext(c echo.Context, userID string) services.AuditContext {
	ctx := services.AuditContext{UserID: userID}
	if userID == "" {
		if user := GetCurrentUser(c); user != nil {
			ctx.UserID = user.ID
		}
	}
	if req := c.Request(); req != nil {
		ctx.IPAddress = c.RealIP()
		ctx.UserAgent = req.UserAgent()
	}
	return ctx
}
