// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package validation carries field-level validation failures from services
// to handlers, where they are rendered back per field instead of as one
// generic error.
package validation

import "strings"

// FieldError is a single validation failure tied to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a list of field-level validation failures.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Add appends a failure for field.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any failure was recorded.
func (e Errors) HasErrors() bool {
	return len(e) > 0
}
