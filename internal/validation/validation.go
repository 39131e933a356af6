// Package validation checks request structs against their validate tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stayforge/auth-server/internal/domain"
)

// U+3000 is the ideographic space.
var tenantNamePattern = regexp.MustCompile(`^[A-Za-z0-9\x{3000} _-]+$`)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("tenantname", func(fl validator.FieldLevel) bool {
		return tenantNamePattern.MatchString(fl.Field().String())
	})
	// maxbytes bounds the encoded length; bcrypt rejects passwords over 72 bytes.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// Validate validates a struct and returns an error wrapping domain.ErrValidation.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, ErrorMessage(err))
	}
	return nil
}

// Var validates a single value against tag, reporting it as field.
func Var(field string, value any, tag string) error {
	if err := defaultValidator.Var(value, tag); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, fieldMessage(field, err))
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message
func ErrorMessage(err error) string {
	return fieldMessage("", err)
}

func fieldMessage(field string, err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	if field == "" {
		field = fe.Field()
	}
	if field == "" {
		field = fe.StructField()
	}

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "tenantname":
		return fmt.Sprintf("%s may only contain letters, digits, spaces, '_' and '-'", field)
	default:
		if field == "" {
			return "invalid request body"
		}
		return fmt.Sprintf("%s is invalid", field)
	}
}
