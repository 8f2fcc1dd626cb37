package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAuditContext(t *testing.T) {
	e := echo.New()

	t.Run("Authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set(ContextKeyUser, &models.User{ID: "user-123", Role: models.RoleAdmin})

		handler := AuditContext()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		assert.NoError(t, handler(c))

		auditCtx := GetAuditContext(c)
		assert.Equal(t, "user-123", auditCtx.UserID)
		assert.Equal(t, "test-agent", auditCtx.UserAgent)
		assert.Equal(t, "10.0.0.7", auditCtx.IPAddress)
	})

	t.Run("Anonymous", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		assert.NoError(t, AuditContext()(func(c echo.Context) error { return nil })(c))
		assert.Empty(t, GetAuditContext(c).UserID)
	})
}

func TestGetAuditContext(t *testing.T) {
	e := echo.New()

	t.Run("Stored", func(t *testing.T) {
		c := e.NewContext(nil, nil)
		expected := services.AuditContext{UserID: "123"}
		c.Set(ContextKeyAuditContext, expected)
		assert.Equal(t, expected, GetAuditContext(c))
	})

	t.Run("BuiltFromRequest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", "ua")
		c := e.NewContext(req, httptest.NewRecorder())
		assert.Equal(t, "ua", GetAuditContext(c).UserAgent)
	})

	t.Run("ExplicitActor", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/login", nil), httptest.NewRecorder())
		assert.Equal(t, "u1", AuditContextFor(c, "u1").UserID)
	})
}
