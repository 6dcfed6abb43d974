// Package model defines the error taxonomy shared by the negotiation
// pipeline. Every failure surfaced to a client is a *Error carrying a
// WebDriver error code and a human-readable message.
package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrInvalidType            = errors.New("invalid type")
	ErrUnrecognizedCapability = errors.New("unrecognized capability")
	ErrMergeConflict          = errors.New("merge conflict")
	ErrNoMatch                = errors.New("no matching capabilities")
)

// ErrorCode is a WebDriver protocol error code.
type ErrorCode string

const (
	// InvalidArgument covers structural and semantic violations: wrong
	// shape, unrecognized capability name, merge conflict, bad keyword.
	InvalidArgument ErrorCode = "invalid argument"

	// InvalidType means a recognized capability holds the wrong value kind.
	InvalidType ErrorCode = "invalid type"

	// SessionNotCreated is reported when no merged capability set matches
	// the runtime's features.
	SessionNotCreated ErrorCode = "session not created"
)

// Error is a structured protocol error.
// Implements error interface and supports unwrapping.
type Error struct {
	Code       ErrorCode `json:"error"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"` // HTTP status, not serialized
	Err        error     `json:"-"` // Wrapped error, not serialized
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidArgumentError creates an invalid argument error with the
// given message.
func NewInvalidArgumentError(message string) *Error {
	return &Error{
		Code:       InvalidArgument,
		Message:    message,
		HTTPStatus: 400,
		Err:        ErrInvalidArgument,
	}
}

// NewInvalidTypeError reports that a recognized capability holds the
// wrong value kind, e.g. "Capability browserName must be a string".
func NewInvalidTypeError(capability, kind string) *Error {
	return &Error{
		Code:       InvalidType,
		Message:    fmt.Sprintf("Capability %s must be a %s", capability, kind),
		HTTPStatus: 400,
		Err:        ErrInvalidType,
	}
}

// NewUnrecognizedCapabilityError reports a capability name outside the
// fixed schema and the extension registry.
func NewUnrecognizedCapabilityError(name string) *Error {
	return &Error{
		Code:       InvalidArgument,
		Message:    fmt.Sprintf("Unrecognized capability: %s", name),
		HTTPStatus: 400,
		Err:        ErrUnrecognizedCapability,
	}
}

// NewMergeConflictError reports a capability supplied by both the
// always-match baseline and a first-match entry.
func NewMergeConflictError(name string) *Error {
	return &Error{
		Code:       InvalidArgument,
		Message:    fmt.Sprintf("Unable to merge capability %s", name),
		HTTPStatus: 400,
		Err:        ErrMergeConflict,
	}
}

// NewNoMatchError reports that no merged capability set matched the
// runtime's features.
func NewNoMatchError() *Error {
	return &Error{
		Code:       SessionNotCreated,
		Message:    "No capability set matched the available browser features",
		HTTPStatus: 500,
		Err:        ErrNoMatch,
	}
}
