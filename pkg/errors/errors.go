package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error
type ErrorCode int

const (
	ErrValidation ErrorCode = iota + 1000
	ErrAuthentication
	ErrNotFound
	ErrDuplicate
	ErrInternal
)

// AppError is the error type every service returns. Handlers map it onto
// the wire envelope; nothing escapes unformatted.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error class to its response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrValidation, ErrDuplicate:
		return http.StatusBadRequest
	case ErrAuthentication:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{Code: ErrValidation, Message: message, Err: err}
}

func Authentication(message string, err error) *AppError {
	return &AppError{Code: ErrAuthentication, Message: message, Err: err}
}

// NotFound covers both absent records and records the caller does not own.
// The two cases are deliberately indistinguishable to the client.
func NotFound(message string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: message, Err: err}
}

func Duplicate(message string, err error) *AppError {
	return &AppError{Code: ErrDuplicate, Message: message, Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// AsAppError unwraps err into an *AppError, falling back to Internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
