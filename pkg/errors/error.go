// Package errors carries coded errors through the analysis pipeline.
//
// Every *Error has an ErrorCode whose hundreds digit names its Category:
// validation (1xx), data (2xx), indicator (3xx), forecast (4xx) and market
// data (7xx). Callers branch on codes rather than on message text:
//
//	if errors.IsValidation(err) { // reject the input }
//	if errors.HasCode(err, errors.ErrCodeMissingColumn) { ... }
//
// A short bar table is reported with *InsufficientDataError, which maps to
// ErrCodeInsufficientData.
package errors

import (
	"errors"
	"fmt"
)

// Error is an error with a code, a message and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf attaches code and a formatted message to cause.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error target with the same code, so a bare
// errors.New(code, "") works as a sentinel with the standard errors.Is.
func (e *Error) Is(target error) bool {
	var coded *Error
	if !errors.As(target, &coded) {
		return false
	}

	return coded.Code == e.Code
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode returns the code of the outermost *Error in err's chain.
// An InsufficientDataError yields ErrCodeInsufficientData, nil yields 0 and
// any other error ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	if err == nil {
		return 0
	}

	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	if IsInsufficientDataError(err) {
		return ErrCodeInsufficientData
	}

	return ErrCodeUnknown
}

func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsValidation reports whether err rejects its input: a validation code other
// than ErrCodeInsufficientData, which is a degraded result rather than bad input.
func IsValidation(err error) bool {
	code := GetCode(err)

	return code.Category() == CategoryValidation && code != ErrCodeInsufficientData
}

// InsufficientDataError is returned when a bar table is shorter than the
// minimum window a component needs.
type InsufficientDataError struct {
	Required  int
	Actual    int
	Symbol    string
	Component string
}

// Insufficient reports that component needs required bars of symbol but got actual.
func Insufficient(component string, required, actual int, symbol string) *InsufficientDataError {
	return &InsufficientDataError{
		Required:  required,
		Actual:    actual,
		Symbol:    symbol,
		Component: component,
	}
}

func (e *InsufficientDataError) Error() string {
	subject := e.Component
	if e.Symbol != "" {
		subject = fmt.Sprintf("%s of %s", e.Component, e.Symbol)
	}

	return fmt.Sprintf("cannot compute %s: need at least %d bars, got %d", subject, e.Required, e.Actual)
}

func IsInsufficientDataError(err error) bool {
	var insufficient *InsufficientDataError

	return errors.As(err, &insufficient)
}
