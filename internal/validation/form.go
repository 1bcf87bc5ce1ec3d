// Package validation checks decoded wizard forms against their struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "seopress/internal/errors"
)

// FormValidator validates form structs and reports fields by their form name
type FormValidator struct {
	validator *validator.Validate
}

// NewFormValidator creates a validator that names fields after their `form` tag
func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &FormValidator{validator: v}
}

// Struct validates v. A failure is returned as a VALIDATION_FAILED APIError
// whose details list every invalid field.
func (f *FormValidator) Struct(v interface{}) error {
	err := f.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate form: %w", err)
	}

	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatFieldError(fe),
		})
	}
	return apierrors.NewValidationErrors(out)
}

// FieldErrors extracts field -> message from a validation failure, or nil
func FieldErrors(err error) map[string]string {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) || !errors.Is(apiErr, apierrors.ErrValidationFailed) {
		return nil
	}
	details, ok := apiErr.Details.([]apierrors.ValidationError)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(details))
	for _, d := range details {
		out[d.Field] = d.Message
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
