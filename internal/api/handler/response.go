package handler

import (
	"github.com/labstack/echo/v4"
)

// apiResponse is the success envelope of every endpoint.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the failure envelope rendered by the HTTP error handler.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

// NewErrorResponse builds the failure envelope. Errors is never null.
func NewErrorResponse(code int, message string, errs []string) ErrorResponse {
	if errs == nil {
		errs = []string{}
	}
	return ErrorResponse{StatusCode: code, Message: message, Errors: errs}
}

func respond(c echo.Context, code int, data any, message string) error {
	if data == nil {
		data = struct{}{}
	}
	return c.JSON(code, apiResponse{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    code < 400,
	})
}
