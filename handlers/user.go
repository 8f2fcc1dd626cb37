package handlers

import (
	"net/http"
	"strings"

	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserUpdateRequest is the body of PUT /api/users/:id (admin only)
type UserUpdateRequest struct {
	FullName *string `json:"fullName" validate:"omitnil,notblank,max=200"`
	Email    *string `json:"email" validate:"omitnil,email,max=254"`
	Username *string `json:"username" validate:"omitnil,notblank,max=100"`
	Role     *string `json:"role" validate:"omitnil,role"`
	IsActive *bool   `json:"isActive"`
}

func (r *UserUpdateRequest) sanitize() {
	r.FullName = services.SanitizeOptional(r.FullName)
	r.Username = services.SanitizeOptional(r.Username)
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
}

func (r *UserUpdateRequest) updates() updateMap {
	u := updateMap{}
	u.setString("full_name", r.FullName)
	u.setString("email", r.Email)
	u.setString("username", r.Username)
	u.setString("role", r.Role)
	if r.IsActive != nil {
		u["is_active"] = *r.IsActive
	}
	return u
}

// GetUsersHandler lists every user
func GetUsersHandler(c echo.Context) error {
	users, err := services.GetUsers(requestDB(c))
	if err != nil {
		return serviceError(err, "User")
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUserHandler changes a user's profile, role or active flag.
// Deactivating a user ends all of their sessions.
func UpdateUserHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetUser(requestDB(c), id)
	if err != nil {
		return serviceError(err, "User")
	}

	var req UserUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if id == currentUserID(c) {
		if req.IsActive != nil && !*req.IsActive {
			return echo.NewHTTPError(http.StatusBadRequest, "You cannot deactivate your own account")
		}
		if req.Role != nil && *req.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusBadRequest, "You cannot remove your own admin role")
		}
	}

	user, err := services.UpdateUser(requestDB(c), id, req.updates())
	if err != nil {
		return serviceError(err, "User")
	}

	if before.IsActive && !user.IsActive {
		if sessions := middleware.GetSessionManager(c); sessions != nil {
			if err := sessions.DestroyUser(c.Request().Context(), user.ID); err != nil {
				zap.L().Error("failed to end sessions of deactivated user", zap.String("user_id", user.ID), zap.Error(err))
			}
		}
		services.LogSecurityEvent("USER_DEACTIVATED", currentUserID(c), "Deactivated user: "+user.ID)
	}

	audit(c, models.AuditActionUserUpdated, "users", user.ID, before, user)
	return c.JSON(http.StatusOK, user)
}
