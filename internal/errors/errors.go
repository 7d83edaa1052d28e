package errors

import (
	"errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeNotFound    ErrCode = "NOT_FOUND"
	ErrCodeUnavailable ErrCode = "UNAVAILABLE"
	ErrCodeBadResponse ErrCode = "BAD_RESPONSE"
	ErrCodeInternal    ErrCode = "INTERNAL_ERROR"
	ErrCodeBadRequest  ErrCode = "BAD_REQUEST"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewUnavailableError wraps a transport failure talking to a remote service
func NewUnavailableError(service string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUnavailable,
		Message: fmt.Sprintf("%s unavailable", service),
		Err:     err,
	}
}

// NewBadResponseError reports a response that could not be used
func NewBadResponseError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeBadResponse,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or "" if none
func CodeOf(err error) ErrCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsBadRequest checks if the error is a bad request error
func IsBadRequest(err error) bool {
	return CodeOf(err) == ErrCodeBadRequest
}
