package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorMessages converts the errors produced by go-playground/validator into
// human readable messages, naming each field relative to prefix.
// Errors of any other type are returned as a single message.
func ValidationErrorMessages(prefix string, err error) []string {
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(validationErrors))
	for _, err := range validationErrors {
		fieldName := stripPrefix(err.Namespace())
		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}
		switch err.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("field %s is required but was not found", fieldName))
		case "oneof":
			messages = append(messages, fmt.Sprintf("field %s has invalid value %v: must be one of [%s]", fieldName, err.Value(), err.Param()))
		default:
			messages = append(messages, fmt.Sprintf("field %s has invalid value %v: %s", fieldName, err.Value(), err.Tag()))
		}
	}
	return messages
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}
