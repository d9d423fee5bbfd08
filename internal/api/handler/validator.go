package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/belleallure/salon-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// The salon_service and salon_stylist tags accept only codes present in catalog.
func NewValidator(catalog *domain.Catalog) *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("salon_service", func(fl validator.FieldLevel) bool {
		_, ok := catalog.Service(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("salon_stylist", func(fl validator.FieldLevel) bool {
		_, ok := catalog.Stylist(fl.Field().String())
		return ok
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Missing fields wrap
// domain.ErrInvalidRequest, every other failure wraps domain.ErrValidation.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	kind := domain.ErrValidation
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Tag() == "required" {
			kind = domain.ErrInvalidRequest
		}
		msgs = append(msgs, fieldError(fe))
	}
	return fmt.Errorf("%w: %s", kind, strings.Join(msgs, "; "))
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "salon_service":
		return fmt.Sprintf("%s %q is not a known service", field, fe.Value())
	case "salon_stylist":
		return fmt.Sprintf("%s %q is not a known stylist", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
