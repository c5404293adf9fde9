package apperr

import (
	"errors"
	"fmt"
)

// Error codes returned by the document store façade
const (
	CodeInternal = iota + 1000
	CodeInvalidInput
	CodeTypeMismatch
	CodeMissingID
	CodeNotFound
	CodeConflict
	CodeNotConnected
	CodeUnavailable
	CodeDatabaseError
)

// AppError is an error carrying a stable code next to its cause
type AppError struct {
	Code    int
	Message string
	Err     error
}

// New creates a new AppError
func New(code int, msg string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Err:     cause,
	}
}

// Wrap wraps err into an AppError; nil stays nil
func Wrap(err error, code int, msg string) *AppError {
	if err == nil {
		return nil
	}
	return New(code, msg, err)
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first AppError in err's chain, or 0
func CodeOf(err error) int {
	var e *AppError
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// HasCode reports whether err carries the given code
func HasCode(err error, code int) bool {
	return CodeOf(err) == code
}
