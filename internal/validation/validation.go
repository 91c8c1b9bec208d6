// Package validation runs the validate struct tags and flattens the result
// into records the api returns to the client.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type (
	// ErrorResponse describes one failed rule.
	ErrorResponse struct {
		FailedField string      `json:"failedField"`
		Tag         string      `json:"tag"`
		Value       interface{} `json:"value"`
	}

	// Error is returned when at least one rule failed.
	Error struct {
		Fields []ErrorResponse
	}
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report the json names the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		if name == "" {
			return fld.Name
		}

		return name
	})

	return v
}

// Error implements error.
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s failed on %s", f.FailedField, f.Tag))
	}

	return "validation failed: " + strings.Join(parts, ", ")
}

// Struct validates data. Rule violations are returned as *Error.
func Struct(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &Error{Fields: make([]ErrorResponse, 0, len(validationErrors))}
	for _, fe := range validationErrors {
		out.Fields = append(out.Fields, ErrorResponse{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Value(),
		})
	}

	return out
}

// Fields returns the failed rules when err is a validation error.
func Fields(err error) ([]ErrorResponse, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields, true
	}

	return nil, false
}
