// Package apperr defines the application error taxonomy. Lower layers
// classify failures into the narrowest applicable kind and return early;
// only the HTTP boundary maps kinds to status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind tags an error with its failure class.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindDuplicate  Kind = "duplicate"
	KindConversion Kind = "conversion"
	KindAIService  Kind = "ai_service"
	KindParsing    Kind = "parsing"
	KindStorage    Kind = "storage"
	KindProcessing Kind = "processing"
)

// Error is a kind-tagged application error with an optional wrapped cause.
// Existing carries the conflicting record for duplicate errors.
type Error struct {
	Kind     Kind
	Message  string
	Cause    error
	Existing any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an error of the given kind with an underlying cause.
// If the cause already carries the same kind it is returned unchanged,
// so errors are never double-wrapped on their way up.
func Wrap(kind Kind, message string, cause error) *Error {
	var ae *Error
	if errors.As(cause, &ae) && ae.Kind == kind {
		return ae
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }

// Duplicate builds a 409-class error carrying the conflicting record.
func Duplicate(message string, existing any) *Error {
	return &Error{Kind: KindDuplicate, Message: message, Existing: existing}
}

func Conversion(message string, cause error) *Error { return Wrap(KindConversion, message, cause) }
func AIService(message string, cause error) *Error  { return Wrap(KindAIService, message, cause) }
func Parsing(message string, cause error) *Error    { return Wrap(KindParsing, message, cause) }
func Storage(message string, cause error) *Error    { return Wrap(KindStorage, message, cause) }
func Processing(message string, cause error) *Error { return Wrap(KindProcessing, message, cause) }

// KindOf extracts the kind from err, or KindProcessing for untagged errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindProcessing
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// AsError extracts the tagged error, if any.
func AsError(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
