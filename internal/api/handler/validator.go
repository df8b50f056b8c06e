package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fieldsales/sales-api/internal/core/domain"
)

// messages maps a validation tag to a format taking the field name and the
// tag parameter.
var messages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email",
	"gte":      "%s must be at least %s",
	"max":      "%s must be at most %s characters",
	"role":     "%s must be one of admin, manager, sales",
}

type requestValidator struct {
	v *validator.Validate
}

// NewValidator builds the echo.Validator for request bodies. Field names in
// messages follow the JSON tags, and the "role" tag accepts anything
// domain.ParseRole does.
func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	})
	return &requestValidator{v: v}
}

// Validate wraps failures in domain.ErrValidation.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	parts := make([]string, len(ve))
	for i, fe := range ve {
		parts[i] = describe(fe)
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(parts, "; "))
}

func describe(fe validator.FieldError) string {
	format, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
	if strings.Count(format, "%s") == 2 {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}
	return fmt.Sprintf(format, fe.Field())
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
