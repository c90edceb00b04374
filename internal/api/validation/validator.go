// Package validation runs struct-tag validation for request bodies and
// renders failures as problem field errors.
package validation

import (
	"time"

	"github.com/blaisecz/sleep-bot/pkg/problem"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// IANA timezone names, e.g. "Europe/Tallinn". time.LoadLocation is the
	// authority so the accepted set matches what the converter resolves.
	v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	})

	return v
}

// Validate checks a request struct and returns one field error per
// violation, nil when the struct is valid.
func Validate(s any) []problem.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors []problem.FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		fieldErrors = append(fieldErrors, problem.FieldError{
			Field:   toSnakeCase(fe.Field()),
			Message: message(fe),
		})
	}
	return fieldErrors
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a wall-clock time in HH:MM format"
	case "timezone":
		return "must be a valid IANA timezone"
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a Go field name to its JSON form.
func toSnakeCase(s string) string {
	var out []byte
	for i, c := range s {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			out = append(out, byte(c+'a'-'A'))
		} else {
			out = append(out, byte(c))
		}
	}
	return string(out)
}
