package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDocument is returned for XML whose root is not Invoice or CreditNote
	ErrUnsupportedDocument = errors.New("unsupported UBL document type")

	// ErrNoDocuments is returned when a batch yields nothing to report on
	ErrNoDocuments = errors.New("no matching invoices or credit notes found")
)

// ParseError represents parsing errors with document kind context
type ParseError struct {
	Kind    DocumentKind
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Kind, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(kind DocumentKind, field, message string, cause error) *ParseError {
	return &ParseError{
		Kind:    kind,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// LineError reports a malformed line. The line is skipped, the document is still processed.
type LineError struct {
	DocumentID string
	LineID     string
	Field      string
	Message    string
	Cause      error
}

func (e *LineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %s line %s: %s: %s (%v)", e.DocumentID, e.LineID, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %s line %s: %s: %s", e.DocumentID, e.LineID, e.Field, e.Message)
}

func (e *LineError) Unwrap() error {
	return e.Cause
}

// NewLineError creates a new line error
func NewLineError(documentID, lineID, field, message string, cause error) *LineError {
	return &LineError{
		DocumentID: documentID,
		LineID:     lineID,
		Field:      field,
		Message:    message,
		Cause:      cause,
	}
}

// TotalsError reports a document whose authoritative totals are missing or unusable
type TotalsError struct {
	DocumentID string
	Field      string
	Message    string
}

func (e *TotalsError) Error() string {
	return fmt.Sprintf("document %s: %s: %s", e.DocumentID, e.Field, e.Message)
}

// NewTotalsError creates a new totals error
func NewTotalsError(documentID, field, message string) *TotalsError {
	return &TotalsError{
		DocumentID: documentID,
		Field:      field,
		Message:    message,
	}
}

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}
