// Package errors provides structured error handling for the options framework
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound represents an option or target that could not be located
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeInvalidArgument represents malformed input or an unconvertible value
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeNotSupported represents an operation the option does not allow
	ErrorTypeNotSupported ErrorType = "not_supported"
	// ErrorTypeConfig represents configuration errors outside option parsing
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeDependency represents a collaborator (registry, provider) failure
	ErrorTypeDependency ErrorType = "dependency"
)

// Error represents a structured error with the option it refers to
type Error struct {
	Type    ErrorType
	Message string
	// Option is the fully qualified name of the option involved, if any
	Option string
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Option != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %s: %v", e.Type, e.Message, e.Option, e.Cause)
	case e.Option != "":
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Option)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithOption attaches the fully qualified option name to the error
func (e *Error) WithOption(name string) *Error {
	e.Option = name
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
	}
}

// WithOption qualifies err with the given option name, preserving the error
// type. An error already carrying a name keeps it; the deeper name is the
// more precise one.
func WithOption(err error, name string) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		return New(ErrorTypeConfig, err.Error()).WithOption(name)
	}
	if e.Option != "" {
		return e
	}
	qualified := *e
	qualified.Option = name
	return &qualified
}

// NotFound creates a not-found error for the named option
func NotFound(message, option string) *Error {
	return New(ErrorTypeNotFound, message).WithOption(option)
}

// InvalidArgument creates an invalid-argument error for the named option
func InvalidArgument(message, option string) *Error {
	return New(ErrorTypeInvalidArgument, message).WithOption(option)
}

// NotSupported creates a not-supported error for the named option
func NotSupported(message, option string) *Error {
	return New(ErrorTypeNotSupported, message).WithOption(option)
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsInvalidArgument reports whether err is an invalid-argument error
func IsInvalidArgument(err error) bool {
	return IsType(err, ErrorTypeInvalidArgument)
}

// IsNotSupported reports whether err is a not-supported error
func IsNotSupported(err error) bool {
	return IsType(err, ErrorTypeNotSupported)
}

// Option returns the fully qualified option name carried by err, if any
func Option(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Option
	}
	return ""
}
