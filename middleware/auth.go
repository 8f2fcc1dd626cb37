package middleware

import (
	"errors"
	"net/http"
	"time"

	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "law_office_session"
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeySessions is the context key for the session manager
	ContextKeySessions = "sessions"
)

// SessionManager makes the session manager available to handlers and RequireAuth
func SessionManager(m *services.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeySessions, m)
			return next(c)
		}
	}
}

// GetSessionManager retrieves the session manager installed by SessionManager
func GetSessionManager(c echo.Context) *services.SessionManager {
	m, _ := c.Get(ContextKeySessions).(*services.SessionManager)
	return m
}

// RequireAuth resolves the session cookie to an active user or answers 401
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessions := GetSessionManager(c)
			if sessions == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session manager not configured")
			}

			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			ctx := c.Request().Context()
			session, err := sessions.Lookup(ctx, cookie.Value)
			if err != nil {
				if !errors.Is(err, services.ErrSessionNotFound) {
					zap.L().Error("session lookup failed", zap.Error(err))
				}
				ClearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			user, err := services.GetUser(db.DB.WithContext(ctx), session.UserID)
			if err != nil || !user.IsActive {
				_ = sessions.Destroy(ctx, cookie.Value)
				ClearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// RequireRole lets the request through only for the listed roles
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := GetCurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetSessionCookie writes the session cookie for a freshly started session
func SetSessionCookie(c echo.Context, token string, expires time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func isProduction(c echo.Context) bool {
	cfg, _ := c.Get("config").(*config.Config)
	return cfg.IsProduction()
}
