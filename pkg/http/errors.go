package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AppError carries an HTTP status alongside a client-safe message.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewBadRequest creates a 400 error.
func NewBadRequest(msg string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: msg}
}

// NewNotFound creates a 404 error.
func NewNotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

// NewConflict creates a 409 error.
func NewConflict(msg string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: msg}
}

// NewUnavailable creates a 503 error.
func NewUnavailable(msg string) *AppError {
	return &AppError{Status: http.StatusServiceUnavailable, Message: msg}
}

// NewInternal creates a 500 error wrapping the cause.
func NewInternal(msg string, err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// WriteError maps an error onto the response envelope. AppError keeps its
// status, anything else becomes a 500 with a generic message.
func WriteError(c echo.Context, err error) error {
	var ae *AppError
	if errors.As(err, &ae) {
		return Fail(c, ae.Status, ae.Message)
	}
	return Fail(c, http.StatusInternalServerError, "internal server error")
}
