package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the struct tags and returns field -> message, or nil
// when the payload is valid.
func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			errors[fieldErr.Field()] = fieldMessage(fieldErr)
		}
	}

	return errors
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Must be a valid UUID"
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(err.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("Must be greater than %s", err.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", err.Param())
	case "min":
		return fmt.Sprintf("Minimum length is %s", err.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", err.Param())
	case "alpha":
		return "Must contain letters only"
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// FormatValidationErrors flattens the field map into one deterministic line
// for error wrapping and logs.
func FormatValidationErrors(errors map[string]string) string {
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, errors[field]))
	}
	return strings.Join(msgs, "; ")
}
