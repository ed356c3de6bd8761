package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput signals a request payload that violates its declared constraints.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTagSearchUnsupported signals a tag query against a kind without a tag field.
	ErrTagSearchUnsupported = errors.New("tag search not supported for this resource")
	// ErrTagProviderError signals a tag generation provider failure.
	ErrTagProviderError = errors.New("tag provider error")
	// ErrTagQuotaExceeded signals an exhausted tag generation token budget.
	ErrTagQuotaExceeded = errors.New("tag generation quota exceeded")
	// ErrAttachmentsDisabled signals a file upload while attachment storage is off.
	ErrAttachmentsDisabled = errors.New("attachments are disabled")
)

// ValidationError wraps ErrInvalidInput with per-field messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add records a message for the named field.
func (e *ValidationError) Add(field string, msgs ...string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msgs...)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, msg string) error {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}
