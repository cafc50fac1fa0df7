package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope used by every API endpoint.
type Response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK writes a successful response with data only.
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// OKCount writes a successful response carrying a count alongside data.
func OKCount(c echo.Context, count int, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Count: &count, Data: data})
}

// Created writes a 201 response with data.
func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// Fail writes an error response with the given status code.
func Fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Response{Success: false, Error: msg})
}
