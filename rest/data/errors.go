package data

import (
	"fmt"

	"github.com/Roisin-M/Yoga-Studio-Mangement-API/validator"
	"github.com/pkg/errors"
)

// ErrorKind classifies the errors the connector returns.
type ErrorKind string

const (
	// ValidationError is a payload that breaks one or more field rules.
	ValidationError ErrorKind = "ValidationError"
	// MalformedIdentifier is an id that is not in the store's format.
	MalformedIdentifier ErrorKind = "MalformedIdentifier"
	// ReferenceNotFound is a class naming an instructor or class location
	// that does not exist.
	ReferenceNotFound ErrorKind = "ReferenceNotFound"
	// NotFound is a missing primary entity.
	NotFound ErrorKind = "NotFound"
	// NoValidFields is a partial update with nothing left to apply.
	NoValidFields ErrorKind = "NoValidFields"
	// InvalidFilter is a filter that is JSON but does not fit the entity.
	InvalidFilter ErrorKind = "InvalidFilter"
	// MalformedFilter is a filter that is not a JSON object.
	MalformedFilter ErrorKind = "MalformedFilter"
	// StorageFailure is any unexpected store error.
	StorageFailure ErrorKind = "StorageFailure"
)

// Error is returned by every Connector method that fails.
type Error struct {
	Kind    ErrorKind
	Message string
	// Errors lists the violated rules of a ValidationError.
	Errors validator.ValidationErrors
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause.Error())
	}
	return e.Message
}

func (e *Error) Cause() error  { return e.cause }
func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the kind of a connector error, treating anything else
// as a storage failure.
func KindOf(err error) ErrorKind {
	var dataErr *Error
	if errors.As(err, &dataErr) {
		return dataErr.Kind
	}
	return StorageFailure
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func storageFailure(err error, message string) *Error {
	return &Error{Kind: StorageFailure, Message: message, cause: err}
}

// ValidationFailure reports every rule a payload breaks.
func ValidationFailure(errs validator.ValidationErrors) *Error {
	return &Error{Kind: ValidationError, Message: "Validation failed", Errors: errs}
}
