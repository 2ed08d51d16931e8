// Package validate wraps go-playground/validator with the project's custom
// tags and turns failures into field-level details.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"booknav/internal/apperr"
	"booknav/internal/platform/crypto"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return crypto.ValidatePasswordStrength(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func Struct(s interface{}) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		var message string
		switch fe.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "password_strength":
			message = fmt.Sprintf("%s must be at least 8 characters with uppercase, lowercase, number, and special character", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}
		out = append(out, FieldError{Field: field, Message: message})
	}
	return out
}

// Check runs Struct and folds any failures into a single validation error.
func Check(s interface{}) error {
	details := Struct(s)
	if len(details) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(details))
	for _, d := range details {
		msgs = append(msgs, d.Message)
	}
	return &DetailedError{
		Err:     apperr.Validation(strings.Join(msgs, "; ")),
		Details: details,
	}
}

// DetailedError keeps the per-field failures next to the classified error.
type DetailedError struct {
	Err     *apperr.Error
	Details []FieldError
}

func (e *DetailedError) Error() string { return e.Err.Error() }
func (e *DetailedError) Unwrap() error { return e.Err }

// DetailsOf returns the field failures carried by err, if any.
func DetailsOf(err error) []FieldError {
	var de *DetailedError
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}
