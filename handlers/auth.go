package handlers

import (
	"errors"
	"net/http"
	"strings"

	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SecurityMonitor tracks failed logins per IP across requests
var SecurityMonitor = services.NewSecurityEventMonitor()

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	FullName string `json:"fullName" validate:"required,notblank,max=200"`
	Username string `json:"username" validate:"required,notblank,max=100"`
	Role     string `json:"role" validate:"omitempty,role"`
}

func (r *RegisterRequest) sanitize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = services.SanitizeText(r.FullName)
	r.Username = services.SanitizeText(r.Username)
	r.Role = strings.TrimSpace(r.Role)
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) sanitize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// RegisterHandler creates an account and signs it in
func RegisterHandler(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := services.ValidatePassword(req.Password); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "password", Message: err.Error()}}}
	}

	user, err := services.RegisterUser(requestDB(c), services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Username: req.Username,
		Role:     req.Role,
	})
	if err != nil {
		return serviceError(err, "User")
	}

	services.LogAuditEvent(requestDB(c), middleware.AuditContextFor(c, user.ID), models.AuditActionUserRegistered, "users", user.ID, nil, map[string]string{
		"email":    user.Email,
		"fullName": user.FullName,
		"role":     user.Role,
	})

	if err := startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// LoginHandler exchanges credentials for a session cookie.
// Every failure answers the same 401 so account existence is not revealed.
func LoginHandler(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := services.Authenticate(requestDB(c), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			SecurityMonitor.TrackFailedLogin(c.RealIP())
		}
		return serviceError(err, "User")
	}
	SecurityMonitor.ResetFailedLogins(c.RealIP())

	if err := startSession(c, user); err != nil {
		return err
	}
	services.LogAuditEvent(requestDB(c), middleware.AuditContextFor(c, user.ID), models.AuditActionUserLogin, "users", user.ID, nil, nil)

	return c.JSON(http.StatusOK, user)
}

// LogoutHandler ends the session named by the cookie, if any, and always clears the cookie
func LogoutHandler(c echo.Context) error {
	sessions := middleware.GetSessionManager(c)
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && sessions != nil {
		ctx := c.Request().Context()
		if session, err := sessions.Lookup(ctx, cookie.Value); err == nil {
			services.LogAuditEvent(requestDB(c), middleware.AuditContextFor(c, session.UserID), models.AuditActionUserLogout, "users", session.UserID, nil, nil)
			if err := sessions.Destroy(ctx, cookie.Value); err != nil {
				zap.L().Error("failed to destroy session", zap.String("user_id", session.UserID), zap.Error(err))
			}
		}
	}

	middleware.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

// CurrentUserHandler returns the signed-in user
func CurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}

func startSession(c echo.Context, user *models.User) error {
	sessions := middleware.GetSessionManager(c)
	if sessions == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session manager not configured")
	}

	token, session, err := sessions.Start(c.Request().Context(), user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session").SetInternal(err)
	}
	middleware.SetSessionCookie(c, token, session.ExpiresAt)
	return nil
}
