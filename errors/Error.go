// Package errors provides the structured error type used across pivxd.
//
// Every error carries a machine-readable code (ERR) alongside the message, so
// callers can branch on the kind of failure without string matching. Errors
// wrap other errors and participate in the standard errors.Is/As/Unwrap
// protocol.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

type Error struct {
	code       ERR
	message    string
	wrappedErr error
}

type Interface interface {
	Error() string
	Is(target error) bool
	As(target interface{}) bool
	Unwrap() error

	Code() ERR
	Message() string
	WrappedErr() error
}

func (e *Error) Error() string {
	// Error() can be called on wrapped errors, which can be nil, for example predefined errors
	if e == nil {
		return "<nil>"
	}

	if e.wrappedErr == nil {
		return fmt.Sprintf("%s (%d): %s", e.code, e.code, e.message)
	}

	return fmt.Sprintf("%s (%d): %s: %v", e.code, e.code, e.message, e.wrappedErr)
}

// Is reports whether error codes match.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	targetError, ok := target.(*Error)
	if !ok {
		return strings.Contains(e.Error(), target.Error())
	}

	if e.code == targetError.code {
		return true
	}

	if e.wrappedErr == nil {
		return false
	}

	// Unwrap the current error and recursively call Is on the unwrapped error
	if unwrapped := errors.Unwrap(e); unwrapped != nil {
		if ue, ok := unwrapped.(*Error); ok {
			return ue.Is(target)
		}
	}

	return false
}

func (e *Error) As(target interface{}) bool {
	if e == nil {
		return false
	}

	if targetErr, ok := target.(**Error); ok {
		*targetErr = e
		return true
	}

	if e.wrappedErr != nil {
		return errors.As(e.wrappedErr, target)
	}

	return false
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

func (e *Error) Code() ERR {
	if e == nil {
		return ERR_UNKNOWN
	}

	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}

	return e.message
}

func (e *Error) WrappedErr() error {
	if e == nil {
		return nil
	}

	return e.wrappedErr
}

// New creates a new Error with the given code and message. The message may be
// a format string; if the final parameter is an error it is captured as the
// wrapped error rather than being formatted into the message.
func New(code ERR, message string, params ...interface{}) *Error {
	var wErr *Error

	// Extract the wrapped error, if present
	if len(params) > 0 {
		lastParam := params[len(params)-1]

		switch err := lastParam.(type) {
		case *Error:
			wErr = err
			params = params[:len(params)-1]
		case error:
			wErr = &Error{message: err.Error()}
			params = params[:len(params)-1]
		}
	}

	// Format the message with the remaining parameters
	if len(params) > 0 {
		err := fmt.Errorf(message, params...)
		message = err.Error()
	}

	if _, ok := ERR_name[int32(code)]; !ok {
		code = ERR_UNKNOWN
	}

	if wErr != nil {
		return &Error{
			code:       code,
			message:    message,
			wrappedErr: wErr,
		}
	}

	return &Error{
		code:    code,
		message: message,
	}
}

// Is mirrors the standard library errors.Is for callers that already import
// this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As mirrors the standard library errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap mirrors the standard library errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
