package service

import (
	"fmt"
	"net/mail"
	"strings"
)

// ValidationError reports a missing or malformed field on a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingField(field string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Missing required field: %s", field)}
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid field %s: %s", field, reason)}
}

type requiredField struct {
	name  string
	value string
}

// requireFields returns an error naming the first blank field.
func requireFields(fields ...requiredField) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return missingField(f.name)
		}
	}
	return nil
}

func validEmail(field, value string) error {
	if _, err := mail.ParseAddress(value); err != nil {
		return invalidField(field, "not an email address")
	}
	return nil
}
