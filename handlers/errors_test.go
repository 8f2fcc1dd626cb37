package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServiceError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("case %w", services.ErrNotFound), http.StatusNotFound},
		{services.ErrFileNotFound, http.StatusNotFound},
		{fmt.Errorf("email %w", services.ErrDuplicate), http.StatusBadRequest},
		{fmt.Errorf("client x: %w", services.ErrInvalidReference), http.StatusBadRequest},
		{fmt.Errorf("client %w", services.ErrConflict), http.StatusConflict},
		{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{services.ErrFileTypeNotAllowed, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		he, ok := serviceError(tc.err, "Case").(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, tc.code, he.Code, tc.err.Error())
	}
	assert.NoError(t, serviceError(nil, "Case"))
}

func TestHTTPErrorHandler(t *testing.T) {
	handler := HTTPErrorHandler(zap.NewNop())

	t.Run("HTTP error", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		handler(echo.NewHTTPError(http.StatusConflict, "busy"), c)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.JSONEq(t, `{"message":"busy"}`, rec.Body.String())
	})

	t.Run("Internal details are hidden", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		handler(serviceError(errors.New("pq: password authentication failed"), "Case"), c)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
	})

	t.Run("Plain error", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		handler(errors.New("secret"), c)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "secret")
	})

	t.Run("Validation error", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		handler(&ValidationError{Fields: []FieldError{{Field: "title", Message: "is required"}}}, c)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"message":"Validation failed","errors":[{"field":"title","message":"is required"}]}`, rec.Body.String())
	})
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("dueDate", "2026-02-03")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Day())

	d, err = parseDate("dueDate", "2026-02-03T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	d, err = parseDate("dueDate", "")
	assert.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseDate("dueDate", "03/02/2026")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "dueDate", ve.Fields[0].Field)
}

func TestIsBodyTooLarge(t *testing.T) {
	assert.True(t, isBodyTooLarge(&http.MaxBytesError{Limit: 10}))
	assert.True(t, isBodyTooLarge(fmt.Errorf("multipart: NextPart: %w", echo.ErrStatusRequestEntityTooLarge)))
	assert.False(t, isBodyTooLarge(echo.ErrBadRequest))
	assert.False(t, isBodyTooLarge(http.ErrMissingFile))
}
