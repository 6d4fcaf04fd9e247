// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Configuration errors (100-199): Invalid parameters, configs, option specs
//   - Data errors (200-299): Malformed or unreadable market data at the boundary
//   - Indicator errors (300-399): Unknown indicators, fields and parameters
//   - Strategy errors (400-499): Strategy parsing, validation and compatibility
//   - Options errors (500-599): Option pricing inputs that cannot be priced
//   - Backtest errors (600-699): Backtesting engine lifecycle errors
//
// Only configuration-like categories (configuration, indicator, strategy,
// options) indicate a caller mistake. Numeric edge cases inside the engine
// never surface as errors.
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeInvalidStrategy, "invalid strategy", originalErr)
//
//	// Check whether the caller supplied a bad configuration
//	if errors.IsConfigurationError(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the category of the error code.
func (e *Error) Category() Category {
	return e.Code.Category()
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsConfigurationError reports whether err was caused by a caller supplied
// configuration (engine config, strategy, indicator reference or option spec)
// rather than by the data being processed.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}

	switch GetCode(err).Category() {
	case CategoryConfiguration, CategoryIndicator, CategoryStrategy, CategoryOptions:
		return true
	default:
		return false
	}
}

// IsDataError reports whether err was caused by malformed market data.
func IsDataError(err error) bool {
	if err == nil {
		return false
	}

	return GetCode(err).Category() == CategoryData
}
