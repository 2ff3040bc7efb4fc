package errors

import (
	stderrors "errors"
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
		Code:    CodeInternalError,
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
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Is reports whether any AppError in the chain carries the given code
func Is(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Message returns the user-facing message of the outermost AppError, or err.Error()
func Message(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeExternalService   = "EXTERNAL_SERVICE_ERROR"
	CodeUnavailable       = "UNAVAILABLE"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeFormatError       = "FORMAT_ERROR"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeInvalidReference  = "INVALID_REFERENCE"
	CodeItemNotFound      = "ITEM_NOT_FOUND"
	CodeInvalidRule       = "INVALID_RULE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func Unavailable(message string) *AppError {
	return New(CodeUnavailable, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// FormatError reports input that is not a well-formed document of the given format
func FormatError(format string, cause error) *AppError {
	return &AppError{
		Code:    CodeFormatError,
		Message: fmt.Sprintf("malformed %s document", format),
		Cause:   cause,
	}
}

func UnsupportedFormat(name string) *AppError {
	return New(CodeUnsupportedFormat, fmt.Sprintf("unsupported file type: %q", name))
}

// InvalidReference reports a column reference that is neither letters nor a positive integer
func InvalidReference(ref string) *AppError {
	return New(CodeInvalidReference, fmt.Sprintf("invalid column reference %q", ref))
}

func ItemNotFound(item string) *AppError {
	return &AppError{
		Code:    CodeItemNotFound,
		Message: "item name not found among items, or is empty",
		Cause:   fmt.Errorf("item %q", item),
	}
}

func InvalidRule(rule string, cause error) *AppError {
	return &AppError{
		Code:    CodeInvalidRule,
		Message: fmt.Sprintf("invalid rule %q", rule),
		Cause:   cause,
	}
}
