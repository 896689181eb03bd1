// Package response writes the JSON envelopes of the library API.
// Every body is {data, meta} or {error, meta}; meta always carries the request ID.
package response

import (
	"net/http"

	deliverycontext "library/internal/delivery/context"
	domainerrors "library/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SuccessResponse defines the structure for successful responses
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // e.g. "BOOK_NOT_FOUND"
	Message string `json:"message"`           // human readable
	Details any    `json:"details,omitempty"` // 4xx only, never for 401/403
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"`
	// Count is set for list responses
	Count *int `json:"count,omitempty"`
}

// Message is the body of responses that only confirm an action.
type Message struct {
	Message string `json:"message"`
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, SuccessResponse{Data: data, Meta: meta(c)})
}

// Created answers 201 with the new resource
func Created(c echo.Context, data any) error {
	return Success(c, http.StatusCreated, data)
}

// Confirm answers 200 with a confirmation message
func Confirm(c echo.Context, message string) error {
	return Success(c, http.StatusOK, Message{Message: message})
}

// List answers 200 with the items and their count; a nil slice is sent as [].
func List[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	m := meta(c)
	count := len(items)
	m.Count = &count

	return c.JSON(http.StatusOK, SuccessResponse{Data: items, Meta: m})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	if statusCode >= http.StatusInternalServerError || statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		details = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Error: &ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: meta(c),
	})
}

// BadRequest returns a 400 error
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// BindingError answers 400 for a body or query that could not be decoded
func BindingError(c echo.Context, errorCode string, message string) error {
	return BadRequest(c, errorCode, message)
}

// Unauthorized returns a 401 error
func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, nil)
}

// Forbidden returns a 403 error
func Forbidden(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusForbidden, errorCode, message, nil)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}

// HandleAppError answers a 4xx AppError directly.
// Anything else is returned to echo's HTTPErrorHandler, which logs it and answers 500.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) && appErr.HTTPCode() < http.StatusInternalServerError {
		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), AppErrorDetails(appErr))
	}

	return errors.WithStack(err)
}

// AppErrorDetails returns the error details, or nil when there are none.
func AppErrorDetails(appErr domainerrors.AppError) any {
	if details := appErr.Details(); details != "" {
		return details
	}

	return nil
}
