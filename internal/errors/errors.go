package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes.
//
// Empty results are deliberately absent: a filter that matches nothing,
// a table with no numeric columns, or a dataset with no anomalies is a
// typed empty value, never an error.
const (
	CodeNoData           = "NO_DATA"
	CodeMalformedFilter  = "MALFORMED_FILTER"
	CodeUnsupportedInput = "UNSUPPORTED_INPUT"
	CodeStrategyNotFound = "STRATEGY_NOT_FOUND"
	CodeLoadFailed       = "LOAD_FAILED"
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeInternal         = "INTERNAL_ERROR"
)

// Common error constructors

// NoData signals an operation that needs a loaded dataset, or a named
// column, that does not exist.
func NoData(message string) *AppError {
	return New(CodeNoData, message)
}

// MalformedFilter signals a bad operator, an unparsable numeric
// threshold, or a numeric comparison against a non-numeric column.
func MalformedFilter(message string) *AppError {
	return New(CodeMalformedFilter, message)
}

// UnsupportedInput signals input the system does not accept, such as an
// unknown file extension or export format.
func UnsupportedInput(message string) *AppError {
	return New(CodeUnsupportedInput, message)
}

// StrategyNotFound signals an unknown registry name.
func StrategyNotFound(name string) *AppError {
	return New(CodeStrategyNotFound, fmt.Sprintf("strategy %q not found", name))
}

// LoadFailed wraps an IO or parse failure while reading a dataset.
func LoadFailed(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeLoadFailed,
		Message: message,
		Cause:   cause,
	}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternal, message)
}
