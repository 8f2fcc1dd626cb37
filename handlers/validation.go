package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"law_office_app_go/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when a request body fails validation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "Validation failed"
}

// StatusCode is read by the metrics middleware
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// CustomValidator adapts validator/v10 to echo.Validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their JSON names
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	for tag, valid := range enumTags {
		v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid.check(fl.Field().String())
		})
	}
	return &CustomValidator{validator: v}
}

type enumTag struct {
	check  func(string) bool
	values []string
}

// enumTags validate the model enumerations by name
var enumTags = map[string]enumTag{
	"role":          {models.IsValidRole, models.ValidRoles},
	"case_status":   {models.IsValidCaseStatus, models.ValidCaseStatuses},
	"task_status":   {models.IsValidTaskStatus, models.ValidTaskStatuses},
	"priority":      {models.IsValidPriority, models.ValidPriorities},
	"document_type": {models.IsValidDocumentType, models.ValidDocumentTypes},
}

// Validate implements echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "role", "case_status", "task_status", "priority", "document_type":
		return "must be one of: " + strings.Join(enumTags[fe.Tag()].values, ", ")
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}

// sanitizer is implemented by request bodies that clean their free text before validation
type sanitizer interface {
	sanitize()
}

// bindAndValidate decodes the JSON body into dto, sanitizes it and validates it
func bindAndValidate(c echo.Context, dto interface{}) error {
	if err := c.Bind(dto); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if s, ok := dto.(sanitizer); ok {
		s.sanitize()
	}
	return c.Validate(dto)
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &ValidationError{Fields: []FieldError{{Field: field, Message: "must be a date (YYYY-MM-DD or RFC 3339)"}}}
}

// updateMap collects the columns of a partial update
type updateMap map[string]interface{}

func (u updateMap) setString(column string, v *string) {
	if v != nil {
		u[column] = *v
	}
}

// setNullable stores an optional text column, clearing it when the value is empty
func (u updateMap) setNullable(column string, v *string) {
	if v == nil {
		return
	}
	if *v == "" {
		u[column] = nil
		return
	}
	u[column] = *v
}
