package common

import (
	"sort"
	"strconv"
	"strings"
)

// ValidationError reports field-addressable input problems. Keys are JSON
// field paths such as "top3Goals" or "evening.learnings".
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a problem for field. The first message for a field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = message
}

// Err returns e when at least one field failed, nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrorValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrorValidation }

// ItemError is the validation report for one element of a bulk request.
type ItemError struct {
	Index  int               `json:"index"`
	Fields map[string]string `json:"fields"`
}

// BulkValidationError is returned when one or more items of a bulk request
// are rejected. Nothing from the request has been written when it is returned.
type BulkValidationError struct {
	Items []ItemError
}

func (e *BulkValidationError) Error() string {
	return ErrorValidation.Error() + ": " + strconv.Itoa(len(e.Items)) + " item(s) rejected"
}

func (e *BulkValidationError) Unwrap() error { return ErrorValidation }
