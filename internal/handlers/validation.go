package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorResponse represents a validation error with field-level details
type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	loginPattern        = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	cyrillicNamePattern = regexp.MustCompile(`^[А-Яа-яЁё\s]+$`)
	phonePattern        = regexp.MustCompile(`^\+7\(\d{3}\)-\d{3}-\d{2}-\d{2}$`)
)

// Global validator instance (reused across all handlers)
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "login", matchString(loginPattern))
	mustRegister(v, "cyrillic_name", matchString(cyrillicNamePattern))
	mustRegister(v, "phone_ru", matchString(phonePattern))
	mustRegister(v, "not_future_year", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fl.Field().Int() <= int64(time.Now().Year())
		}
		return false
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ValidateRequest validates a request struct using go-playground/validator
// Returns a user-friendly error message if validation fails
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			details := make([]string, 0, len(ve))
			for _, fieldError := range ve {
				details = append(details, fmt.Sprintf("%s: %s", fieldError.Field(), formatValidationError(fieldError)))
			}
			return errors.New(strings.Join(details, "; "))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "login":
		return "may contain only latin letters and digits"
	case "cyrillic_name":
		return "may contain only cyrillic letters and spaces"
	case "phone_ru":
		return "must look like +7(XXX)-XXX-XX-XX"
	case "not_future_year":
		return fmt.Sprintf("must not be later than %d", time.Now().Year())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// trimOptional trims s and turns an empty result into nil
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
