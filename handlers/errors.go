package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// errorResponse is the body of every error answer
type errorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// HTTPErrorHandler renders every error as {"message": ...} and logs server errors
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := errorResponse{Message: "Internal server error"}

		var (
			he *echo.HTTPError
			ve *ValidationError
		)
		switch {
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			body = errorResponse{Message: ve.Error(), Errors: ve.Fields}
		case errors.As(err, &he):
			code = he.Code
			body.Message = httpErrorMessage(he)
		}

		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Error("failed to write error response", zap.Error(err))
		}
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	if he.Code >= http.StatusInternalServerError && he.Internal != nil {
		return "Internal server error"
	}
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	default:
		return fmt.Sprint(m)
	}
}

// serviceError maps a storage or service error onto the HTTP status the API promises.
// entity names the path record for 404 messages.
func serviceError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, entity+" not found")
	case errors.Is(err, services.ErrFileNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	case errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrInvalidReference):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, services.ErrFileTypeNotAllowed):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
}
